package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/vvv/rate-limiter/pkg/conf"
	"github.com/vvv/rate-limiter/pkg/metrics"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

var version string

func main() {
	cfgPath, validateConfig, versionInfo := parseFlags()

	if versionInfo {
		fmt.Println(version)
		return
	}

	cfg, err := readConfig(cfgPath)
	if err != nil {
		log.Fatalf("error reading config: %v", err)
	}

	if validateConfig {
		return
	}

	lg, err := buildLogger(&cfg)
	if err != nil {
		log.Fatalf("error building logger config: %v", err)
	}

	ms := metrics.New()
	metrics.Register(ms)
	ms.Version.WithLabelValues(version).Inc()

	stop := make(chan struct{})
	var stopOnce sync.Once
	shutdown := func() { stopOnce.Do(func() { close(stop) }) }

	var g errgroup.Group

	if cfg.PromPort != -1 {
		srv := &http.Server{
			Addr:    ":" + strconv.Itoa(cfg.PromPort),
			Handler: http.AllowQuerySemicolons(promhttp.Handler()),
		}
		g.Go(func() error {
			err := srv.ListenAndServe()
			if err == http.ErrServerClosed {
				return nil
			}
			return errors.Wrap(err, "Prometheus server failed")
		})
		g.Go(func() error {
			<-stop
			return errors.Wrap(srv.Shutdown(context.Background()), "Prometheus server shutdown failed")
		})
	}

	g.Go(func() error {
		// Input drained: nothing left to serve metrics for.
		defer shutdown()
		return pipe(os.Stdin, os.Stdout, &cfg, stop, lg, ms)
	})

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	// SIGTERM gracefully terminates with timeout
	// SIGKILL terminates immediately
	sgn := make(chan os.Signal, 1)
	signal.Notify(sgn, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sgn
		lg.Info("Termination: Starting termination sequence.")
		shutdown()
	}()

	select {
	case err = <-done:
	case <-stop:
		select {
		case <-time.After(time.Second * time.Duration(cfg.TermTimeoutSec)):
			log.Fatalf("Termination: Force quit due to timeout.")
		case err = <-done:
		}
	}
	if err != nil {
		lg.Error("terminated with an error", zap.Error(err))
		os.Exit(1)
	}
	lg.Info("Terminated gracefully.")
}

func parseFlags() (string, bool, bool) {
	cfgPath := flag.String("config", "", "Path to config file. Defaults apply if not set.")
	testConfig := flag.Bool("validate", false, "Validate the configuration file.")
	versionInfo := flag.Bool("version", false, "Print version info.")

	flag.Parse()

	// if --version is specified, only print the version, nothing else matters
	if *versionInfo {
		return *cfgPath, *testConfig, true
	}

	return *cfgPath, *testConfig, false
}

func buildLogger(cfg *conf.Main) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	// stdout carries the forwarded lines
	config.OutputPaths = []string{"stderr"}

	config.Sampling = nil // make sure there is no sampler since we will add one by ourselves
	return config.Build(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewSamplerWithOptions(core, time.Second*time.Duration(cfg.LogLimitWindowSec), cfg.LogLimitInitial, cfg.LogLimitThereafter)
	}))
}

func readConfig(cfgPath string) (conf.Main, error) {
	if cfgPath == "" {
		return conf.MakeDefault(), nil
	}

	bs, err := os.ReadFile(cfgPath)
	if err != nil {
		return conf.Main{}, errors.Wrap(err, "error reading config file")
	}
	cfg, err := conf.ReadMain(bytes.NewReader(bs))
	if err != nil {
		return cfg, errors.Wrap(err, "error reading main config")
	}
	return cfg, nil
}
