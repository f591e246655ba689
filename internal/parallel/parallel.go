// Package parallel splits element-wise array work across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum elements per goroutine to avoid overhead.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 1024,
	}
}

// Workers returns how many goroutines Chunks would use for n elements.
func (c Config) Workers(n int) int {
	if !c.Enabled || c.NumWorkers <= 1 || n < 2*max(c.MinChunkSize, 1) {
		return 1
	}
	return min(c.NumWorkers, n/max(c.MinChunkSize, 1))
}

// Chunks calls f on disjoint half-open ranges [lo, hi) covering [0, n).
// Ranges run concurrently when cfg allows it; otherwise f is called once
// with [0, n). The first error returned by any call is returned after all
// calls have finished; ranges not yet started are skipped once an error
// is seen.
func Chunks(n int, cfg Config, f func(lo, hi int) error) error {
	if n <= 0 {
		return nil
	}
	workers := cfg.Workers(n)
	if workers == 1 {
		// Sequential fallback.
		return f(0, n)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	chunkSize := (n + workers - 1) / workers
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			if failed() {
				return
			}
			if err := f(lo, hi); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(start, end)
	}
	wg.Wait()
	return firstErr
}
