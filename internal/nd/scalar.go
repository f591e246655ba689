package nd

import (
	"fmt"
	"math"

	"github.com/born-ml/dynd/internal/ndt"
)

// Int coerces a scalar array to an int so it can be used as an index.
//
// Only 0-d arrays of signed or unsigned integer dtype qualify. Bool, float,
// complex, string and struct dtypes fail with ErrIndexType whatever their
// value, as do arrays with dimensions. A uint64 value that does not fit in
// an int fails with ErrIndexOutOfRange.
func (a *Array) Int() (int, error) {
	if len(a.shape) != 0 {
		return 0, fmt.Errorf("%w: array of shape %v is not a scalar", ErrIndexType, a.shape)
	}
	switch a.dtype.Kind() {
	case ndt.IntKind:
		v := a.Value().(int64)
		if v < math.MinInt || v > math.MaxInt {
			return 0, fmt.Errorf("%w: %d does not fit in an int", ErrIndexOutOfRange, v)
		}
		return int(v), nil
	case ndt.UintKind:
		v := a.Value().(uint64)
		if v > math.MaxInt {
			return 0, fmt.Errorf("%w: %d does not fit in an int", ErrIndexOutOfRange, v)
		}
		return int(v), nil
	case ndt.BoolKind, ndt.FloatKind, ndt.ComplexKind, ndt.StringKind, ndt.StructKind:
		return 0, fmt.Errorf("%w: dtype %s", ErrIndexType, a.dtype)
	default:
		return 0, fmt.Errorf("%w: unsupported dtype %s", ErrIndexType, a.dtype)
	}
}

// Bool evaluates the truth value of a scalar array.
//
// bool is its own value; integers and floats are true when non-zero (NaN is
// true); complex numbers are true when either part is non-zero; strings are
// true when non-empty. Structs and every array with dimensions, even a
// single element one, fail with ErrAmbiguousTruth.
func (a *Array) Bool() (bool, error) {
	if len(a.shape) != 0 {
		return false, fmt.Errorf("%w: shape %v", ErrAmbiguousTruth, a.shape)
	}
	v := a.Value()
	switch a.dtype.Kind() {
	case ndt.BoolKind:
		return v.(bool), nil
	case ndt.IntKind:
		return v.(int64) != 0, nil
	case ndt.UintKind:
		return v.(uint64) != 0, nil
	case ndt.FloatKind:
		return v.(float64) != 0, nil
	case ndt.ComplexKind:
		c := v.(complex128)
		return real(c) != 0 || imag(c) != 0, nil
	case ndt.StringKind:
		return v.(string) != "", nil
	case ndt.StructKind:
		return false, fmt.Errorf("%w: struct value of type %s", ErrAmbiguousTruth, a.dtype)
	default:
		return false, fmt.Errorf("%w: unsupported dtype %s", ErrAmbiguousTruth, a.dtype)
	}
}

// At indexes seq with an integer scalar array. Negative indices count from
// the end.
//
// Example:
//
//	idx, _ := nd.NewArray(-1, nd.WithDType(ndt.Int8))
//	v, err := nd.At([]int{1, 2, 3, 4, 5, 6}, idx) // 6
func At[T any](seq []T, idx *Array) (T, error) {
	var zero T
	i, err := idx.Int()
	if err != nil {
		return zero, err
	}
	n := len(seq)
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return zero, fmt.Errorf("%w: index %s for sequence of length %d", ErrIndexOutOfRange, idx.reprValue(), n)
	}
	return seq[i], nil
}

// SliceOf slices seq with integer scalar array bounds; a nil bound is
// omitted. Bounds are clamped to the sequence like Python slicing, and
// negative bounds count from the end. The result shares seq's storage.
func SliceOf[T any](seq []T, lo, hi *Array) ([]T, error) {
	n := len(seq)
	start, err := sliceBound(lo, 0, n)
	if err != nil {
		return nil, err
	}
	stop, err := sliceBound(hi, n, n)
	if err != nil {
		return nil, err
	}
	if stop < start {
		stop = start
	}
	return seq[start:stop], nil
}

func sliceBound(b *Array, def, n int) (int, error) {
	if b == nil {
		return def, nil
	}
	i, err := b.Int()
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i += n
	}
	return min(max(i, 0), n), nil
}
