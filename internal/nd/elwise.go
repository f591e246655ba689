package nd

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/born-ml/dynd/internal/ndt"
	"github.com/born-ml/dynd/internal/parallel"
)

var (
	kernelMu  sync.RWMutex
	kernelCfg = parallel.DefaultConfig()
)

// SetKernelConfig sets how element-wise kernels are spread over goroutines.
func SetKernelConfig(cfg parallel.Config) {
	kernelMu.Lock()
	kernelCfg = cfg
	kernelMu.Unlock()
}

// KernelConfig returns the current element-wise kernel configuration.
func KernelConfig() parallel.Config {
	kernelMu.RLock()
	defer kernelMu.RUnlock()
	return kernelCfg
}

// ElwiseFunc computes one output element from one element of every input.
// Arguments arrive in canonical form: bool, int64, uint64, float64,
// complex128, string, or []any in field order for structs. The result is
// converted to the output dtype. The args slice is reused between calls.
type ElwiseFunc func(args []any) (any, error)

// ElwiseMap broadcasts the inputs against each other and evaluates fn for
// every element of the broadcast shape, producing a new array of type dst.
// Incompatible shapes fail with *BroadcastError. The first error returned by
// fn aborts the map and is returned.
//
// Example:
//
//	sum, err := nd.ElwiseMap([]*nd.Array{a, b}, func(args []any) (any, error) {
//	    return args[0].(float64) + args[1].(float64), nil
//	}, ndt.Float64)
func ElwiseMap(inputs []*Array, fn ElwiseFunc, dst ndt.Type) (*Array, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("elwise_map needs at least one input")
	}
	shapes := make([]Shape, len(inputs))
	for i, in := range inputs {
		shapes[i] = in.shape
	}
	shape, err := BroadcastShapes(shapes...)
	if err != nil {
		return nil, err
	}

	out, err := newArray(shape, dst, ReadWrite)
	if err != nil {
		return nil, err
	}
	if len(out.shape) != len(shape) {
		return nil, fmt.Errorf("%w: elwise_map output type %s must not have dimensions", ErrShape, dst)
	}

	views := make([]*Array, len(inputs))
	for i, in := range inputs {
		views[i] = in.broadcastTo(shape)
	}

	cfg := KernelConfig()
	n := out.NumElements()
	logger().Debug("elwise_map",
		zap.Stringer("shape", shape),
		zap.Int("inputs", len(inputs)),
		zap.Stringer("dtype", dst),
		zap.Int("workers", cfg.Workers(n)))

	size := out.dtype.Size()
	err = parallel.Chunks(n, cfg, func(lo, hi int) error {
		args := make([]any, len(views))
		for k := lo; k < hi; k++ {
			for i, v := range views {
				args[i] = v.at(k)
			}
			res, err := fn(args)
			if err != nil {
				return fmt.Errorf("element %d: %w", k, err)
			}
			val, err := convertValue(res, out.dtype)
			if err != nil {
				return fmt.Errorf("element %d: %w", k, err)
			}
			out.buf.store(k*size, out.dtype, val)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
