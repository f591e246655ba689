package parallel

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunksCoversRange(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 10}

	n := 1000
	seen := make([]int32, n)
	err := Chunks(n, cfg, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
		return nil
	})
	require.NoError(t, err)

	for i, c := range seen {
		if c != 1 {
			t.Fatalf("element %d visited %d times", i, c)
		}
	}
}

func TestChunksSequential(t *testing.T) {
	cfg := Config{Enabled: false}

	var calls int64
	err := Chunks(100, cfg, func(lo, hi int) error {
		atomic.AddInt64(&calls, 1)
		assert.Equal(t, 0, lo)
		assert.Equal(t, 100, hi)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), calls)
}

func TestChunksSmallInputIsSequential(t *testing.T) {
	// Test that small work units fall back to sequential.
	cfg := DefaultConfig()
	assert.Equal(t, 1, cfg.Workers(cfg.MinChunkSize-1))
}

func TestChunksReturnsError(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 8, MinChunkSize: 1}
	boom := errors.New("boom")

	err := Chunks(64, cfg, func(lo, _ int) error {
		if lo == 0 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestChunksEmpty(t *testing.T) {
	called := false
	err := Chunks(0, DefaultConfig(), func(_, _ int) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestWorkers(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 100}
	assert.Equal(t, 1, cfg.Workers(150))
	assert.Equal(t, 2, cfg.Workers(200))
	assert.Equal(t, 4, cfg.Workers(10000))
}

func BenchmarkChunks(b *testing.B) {
	cfg := DefaultConfig()
	n := 100000

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			_ = Chunks(n, cfg, func(lo, hi int) error {
				var local int64
				for j := lo; j < hi; j++ {
					local += int64(j)
				}
				atomic.AddInt64(&sum, local)
				return nil
			})
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfgSeq := cfg
		cfgSeq.Enabled = false
		for i := 0; i < b.N; i++ {
			var sum int64
			_ = Chunks(n, cfgSeq, func(lo, hi int) error {
				for j := lo; j < hi; j++ {
					sum += int64(j)
				}
				return nil
			})
		}
	})
}
