// Package parallel provides parallel execution utilities for the warp
// fitting routines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled    bool // Whether parallel execution is enabled.
	NumWorkers int  // Number of worker goroutines to use.
	MinSpan    int  // Minimum loop length before goroutines are spawned.
}

// DefaultConfig returns sensible defaults based on CPU count.
//
// MinSpan is small because the loop bodies dispatched here are heavy
// (each iteration scans whole tensor slices), so even short loops
// amortize the goroutine overhead.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
		MinSpan:    2,
	}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is
// too small. Iterations must be independent: f must only write state
// owned by iteration i.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinSpan || cfg.NumWorkers < 2 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunk := (n + cfg.NumWorkers - 1) / cfg.NumWorkers
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}
