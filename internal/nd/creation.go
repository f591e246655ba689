package nd

import (
	"fmt"
	"math"

	"github.com/born-ml/dynd/internal/ndt"
)

// Zeros creates an array filled with zeros (false, "" for strings).
// The dtype defaults to float64.
//
// Example:
//
//	a, err := nd.Zeros(nd.Shape{3, 4}, nd.WithDType(ndt.Int32))
func Zeros(shape Shape, opts ...Option) (*Array, error) {
	o := buildOptions(opts)
	a, err := newArray(shape, o.dtypeOr(ndt.Float64), ReadWrite)
	if err != nil {
		return nil, err
	}
	// Data is already zero-initialized by make()
	a.access = o.access
	return a, nil
}

// Empty creates an array without meaningful initial values.
// Go allocations are zeroed, so this is Zeros under another name.
func Empty(shape Shape, opts ...Option) (*Array, error) {
	return Zeros(shape, opts...)
}

// EmptyLike creates an uninitialized array with the shape of a and, unless
// overridden, a's dtype.
func EmptyLike(a *Array, opts ...Option) (*Array, error) {
	o := buildOptions(opts)
	return Zeros(a.shape, WithDType(o.dtypeOr(a.dtype)), WithAccess(o.access))
}

// Ones creates an array filled with ones. Bool arrays are filled with true;
// string and struct dtypes have no "one" and are rejected.
//
// Example:
//
//	a, err := nd.Ones(nd.Shape{2, 3})
func Ones(shape Shape, opts ...Option) (*Array, error) {
	o := buildOptions(opts)
	dtype := o.dtypeOr(ndt.Float64)
	_, elem := dtype.Split()

	// Type-specific one value
	var one any
	switch elem.Kind() {
	case ndt.BoolKind:
		one = true
	case ndt.IntKind, ndt.UintKind, ndt.FloatKind, ndt.ComplexKind:
		one = int64(1)
	default:
		return nil, fmt.Errorf("%w: Ones is not defined for %s", ErrInvalidCast, elem)
	}
	return Full(shape, one, WithDType(dtype), WithAccess(o.access))
}

// Full creates an array filled with value. Without WithDType the dtype is
// inferred from value.
//
// Example:
//
//	a, err := nd.Full(nd.Shape{3, 3}, 3.14)
func Full(shape Shape, value any, opts ...Option) (*Array, error) {
	o := buildOptions(opts)
	dtype := o.dtype
	if dtype.IsZero() {
		t, ok := inferScalarType(value)
		if !ok {
			return nil, fmt.Errorf("%w: cannot infer a dtype for %T, pass one explicitly", ErrInvalidCast, value)
		}
		dtype = t
	}
	a, err := newArray(shape, dtype, ReadWrite)
	if err != nil {
		return nil, err
	}
	val, err := convertValue(value, a.dtype)
	if err != nil {
		return nil, err
	}
	size := a.dtype.Size()
	n := a.NumElements()
	for k := 0; k < n; k++ {
		a.buf.store(k*size, a.dtype, val)
	}
	a.access = o.access
	return a, nil
}

// maxRangeLength bounds the number of elements Range will allocate.
const maxRangeLength = 1 << 28

// Range creates a 1-D array with values start, start+step, ... up to but not
// including stop. The dtype is inferred by promoting the argument types
// unless WithDType is given.
//
// Example:
//
//	a, err := nd.Range(0, 10, 2) // [0, 2, 4, 6, 8], int64
func Range(start, stop, step any, opts ...Option) (*Array, error) {
	o := buildOptions(opts)
	dtype := o.dtype
	if dtype.IsZero() {
		for _, v := range []any{start, stop, step} {
			t, ok := inferScalarType(v)
			if !ok {
				return nil, fmt.Errorf("%w: range bound %T is not a number", ErrInvalidCast, v)
			}
			p, err := ndt.Promote(dtype, t)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidCast, err)
			}
			dtype = p
		}
	}

	var values []any
	switch dtype.Kind() {
	case ndt.IntKind, ndt.UintKind:
		lo, err1 := convertScalar(start, ndt.Int64)
		hi, err2 := convertScalar(stop, ndt.Int64)
		st, err3 := convertScalar(step, ndt.Int64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, fmt.Errorf("%w: range bounds must be integers for %s", ErrInvalidCast, dtype)
		}
		a, b, s := lo.(int64), hi.(int64), st.(int64)
		if s == 0 {
			return nil, fmt.Errorf("range step must not be zero")
		}
		// Spans are computed unsigned so extreme bounds cannot overflow.
		var n uint64
		if s > 0 && b > a {
			n = (uint64(b)-uint64(a)-1)/uint64(s) + 1
		} else if s < 0 && b < a {
			n = (uint64(a)-uint64(b)-1)/(-uint64(s)) + 1
		}
		if n > maxRangeLength {
			return nil, fmt.Errorf("%w: range of %d elements exceeds %d", ErrInvalidCast, n, maxRangeLength)
		}
		values = make([]any, n)
		for i := range values {
			values[i] = a + int64(i)*s
		}
	case ndt.FloatKind:
		lo, err1 := convertScalar(start, ndt.Float64)
		hi, err2 := convertScalar(stop, ndt.Float64)
		st, err3 := convertScalar(step, ndt.Float64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, fmt.Errorf("%w: range bounds must be real numbers", ErrInvalidCast)
		}
		a, b, s := lo.(float64), hi.(float64), st.(float64)
		if s == 0 {
			return nil, fmt.Errorf("range step must not be zero")
		}
		if math.IsNaN(a+b+s) || math.IsInf(a, 0) || math.IsInf(b, 0) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("%w: range bounds must be finite, got (%g, %g, %g)", ErrInvalidCast, a, b, s)
		}
		count := math.Max(0, math.Ceil((b-a)/s))
		if count > maxRangeLength {
			return nil, fmt.Errorf("%w: range of %g elements exceeds %d", ErrInvalidCast, count, maxRangeLength)
		}
		values = make([]any, int(count))
		for i := range values {
			values[i] = a + float64(i)*s
		}
	default:
		return nil, fmt.Errorf("%w: Range is not defined for %s", ErrInvalidCast, dtype)
	}

	out, err := newArray(Shape{len(values)}, dtype, ReadWrite)
	if err != nil {
		return nil, err
	}
	if err := out.fill(values, 1); err != nil {
		return nil, err
	}
	out.access = o.access
	return out, nil
}

// Linspace creates count evenly spaced values over [start, stop], both
// endpoints included. Only float and complex dtypes are supported; the
// default is float64, or cfloat64 when either bound is complex.
func Linspace(start, stop any, count int, opts ...Option) (*Array, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: linspace count %d is negative", ErrShape, count)
	}
	o := buildOptions(opts)
	dtype := o.dtype
	if dtype.IsZero() {
		dtype = ndt.Float64
		for _, v := range []any{start, stop} {
			if t, ok := inferScalarType(v); ok && t.Kind() == ndt.ComplexKind {
				dtype = ndt.CFloat64
			}
		}
	}
	if k := dtype.Kind(); k != ndt.FloatKind && k != ndt.ComplexKind {
		return nil, fmt.Errorf("%w: Linspace is not defined for %s", ErrInvalidCast, dtype)
	}

	lo, err := convertScalar(start, ndt.CFloat64)
	if err != nil {
		return nil, err
	}
	hi, err := convertScalar(stop, ndt.CFloat64)
	if err != nil {
		return nil, err
	}
	a, b := lo.(complex128), hi.(complex128)
	if dtype.Kind() == ndt.FloatKind && (imag(a) != 0 || imag(b) != 0) {
		return nil, fmt.Errorf("%w: complex bounds for %s linspace", ErrInvalidCast, dtype)
	}

	values := make([]any, count)
	for i := range values {
		var v complex128
		switch {
		case i == 0:
			v = a
		case i == count-1:
			v = b
		default:
			v = a + (b-a)*complex(float64(i)/float64(count-1), 0)
		}
		if dtype.Kind() == ndt.FloatKind {
			values[i] = real(v)
		} else {
			values[i] = v
		}
	}

	out, err := newArray(Shape{count}, dtype, ReadWrite)
	if err != nil {
		return nil, err
	}
	if err := out.fill(values, 1); err != nil {
		return nil, err
	}
	out.access = o.access
	return out, nil
}
