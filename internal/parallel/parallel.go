// Package parallel runs independent index-addressed work items concurrently.
//
// Autodiff arenas are single-threaded, so concurrent work here always means
// one arena per work item.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 1, // Items are whole graph evaluations, never tiny.
	}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	_ = ForErr(n, func(i int) error {
		f(i)
		return nil
	}, cfg)
}

// ForErr is like For but collects errors. Every item runs; the error of the
// lowest failing index is returned.
func ForErr(n int, f func(i int) error, cfg Config) error {
	if n <= 0 {
		return nil
	}
	errs := make([]error, n)

	if !cfg.Enabled || cfg.NumWorkers < 2 || n < 2*max(cfg.MinChunkSize, 1) {
		// Sequential fallback.
		for i := 0; i < n; i++ {
			errs[i] = f(i)
		}
		return firstError(errs)
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				errs[i] = f(i)
			}
		}(start, end)
	}
	wg.Wait()

	return firstError(errs)
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
