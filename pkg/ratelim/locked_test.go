package ratelim

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func TestLockedSkippedCount(t *testing.T) {
	clk := clock.NewMock()
	lim := NewLockedWithClock(10*time.Millisecond, clk)

	var skippedSeen []int
	run := func() bool {
		return lim.Run(func(skipped int) { skippedSeen = append(skippedSeen, skipped) })
	}

	if !run() {
		t.Fatal("first call did not run")
	}
	for i := 0; i < 3; i++ {
		clk.Add(time.Millisecond)
		if run() {
			t.Fatal("ran inside the cooldown period")
		}
	}
	clk.Add(10 * time.Millisecond)
	if !run() {
		t.Fatal("did not run after the cooldown elapsed")
	}
	// The counter resets after each run.
	clk.Add(20 * time.Millisecond)
	if !run() {
		t.Fatal("did not run after the cooldown elapsed")
	}

	want := []int{0, 3, 0}
	if len(skippedSeen) != len(want) {
		t.Fatalf("expected %d runs, got %d", len(want), len(skippedSeen))
	}
	for i, w := range want {
		if skippedSeen[i] != w {
			t.Errorf("run %d: expected skipped=%d, got %d", i, w, skippedSeen[i])
		}
	}
}

func TestLockedConcurrent(t *testing.T) {
	clk := clock.NewMock()
	lim := NewLockedWithClock(time.Hour, clk)

	const nrCallers = 32
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		nrRuns  int
		skipped int
	)
	for i := 0; i < nrCallers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lim.Run(func(int) {
				mu.Lock()
				nrRuns++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	if nrRuns != 1 {
		t.Errorf("expected exactly one run across %d concurrent callers, got %d", nrCallers, nrRuns)
	}

	clk.Add(2 * time.Hour)
	lim.Run(func(n int) { skipped = n })
	if skipped != nrCallers-1 {
		t.Errorf("expected %d skipped calls, got %d", nrCallers-1, skipped)
	}
}
