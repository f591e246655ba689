package nd

import (
	"fmt"

	"github.com/born-ml/dynd/internal/ndt"
)

// NewArray creates an array from a Go value: a scalar, a nested slice, or
// another *Array (which is copied).
//
// Without WithDType the dtype is inferred by promoting the types of all
// leaves (Go int becomes int64, an empty slice becomes "0 * float64").
// With WithDType, list nesting that the dtype itself consumes (struct
// records, fixed dimensions) is not treated as array dimensions, so
//
//	NewArray([]any{"abc", 3}, WithDType(ndt.MustParse("{x:string; y:int32}")))
//
// is a 0-d struct array.
func NewArray(v any, opts ...Option) (*Array, error) {
	return fromValue(v, buildOptions(opts))
}

func fromValue(v any, o options) (*Array, error) {
	if src, ok := v.(*Array); ok {
		return fromArray(src, o)
	}
	if o.dtype.IsZero() {
		return inferArray(v, o.access)
	}

	dims, elem := o.dtype.Split()
	ndim := valueDepth(v) - consumedDepth(elem)
	e := emptyDepth(v)
	if e > 0 {
		// An empty sequence that cannot be part of an element is an array
		// dimension of length 0, whatever nesting the element would need.
		base := max(ndim, 0)
		if base < e && !emptyAllowed(elem, e-1-base) {
			ndim = e
		}
	}
	if ndim < len(dims) {
		shape, ok := emptyShape(v, e, dims)
		if !ok {
			return nil, fmt.Errorf("%w: value of depth %d does not fit type %s", ErrShape, valueDepth(v), o.dtype)
		}
		out, err := newArray(shape, elem, ReadWrite)
		if err != nil {
			return nil, err
		}
		out.access = o.access
		return out, nil
	}
	shape, err := shapeOf(v, ndim)
	if err != nil {
		return nil, err
	}
	if !Shape(shape[ndim-len(dims):]).Equal(dims) {
		return nil, fmt.Errorf("%w: value shape %v does not end with the dimensions of %s", ErrShape, shape, o.dtype)
	}

	out, err := newArray(shape, elem, ReadWrite)
	if err != nil {
		return nil, err
	}
	if err := out.fill(v, ndim); err != nil {
		return nil, err
	}
	out.access = o.access
	return out, nil
}

func fromArray(src *Array, o options) (*Array, error) {
	if o.dtype.IsZero() {
		return src.copyAs(src.dtype, o.access)
	}
	dims, elem := o.dtype.Split()
	if len(dims) > len(src.shape) || !src.shape[len(src.shape)-len(dims):].Equal(dims) {
		return nil, fmt.Errorf("%w: array shape %v does not end with the dimensions of %s", ErrShape, src.shape, o.dtype)
	}
	return src.copyAs(elem, o.access)
}

func inferArray(v any, access Access) (*Array, error) {
	ndim := valueDepth(v)
	shape, err := shapeOf(v, ndim)
	if err != nil {
		return nil, err
	}

	var dtype ndt.Type
	var walk func(cur any, level int) error
	walk = func(cur any, level int) error {
		if level == ndim {
			t, ok := inferScalarType(cur)
			if !ok {
				return fmt.Errorf("%w: cannot infer a dtype for %T, pass one explicitly", ErrInvalidCast, cur)
			}
			p, err := ndt.Promote(dtype, t)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidCast, err)
			}
			dtype = p
			return nil
		}
		items, _ := asList(cur)
		for _, item := range items {
			if err := walk(item, level+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(v, 0); err != nil {
		return nil, err
	}
	if dtype.IsZero() {
		dtype = ndt.Float64
	}

	out, err := newArray(shape, dtype, ReadWrite)
	if err != nil {
		return nil, err
	}
	if err := out.fill(v, ndim); err != nil {
		return nil, err
	}
	out.access = access
	return out, nil
}

// valueDepth returns the maximum list/record nesting depth of v.
func valueDepth(v any) int {
	if rec, ok := asRecord(v); ok {
		d := 0
		for _, fv := range rec {
			d = max(d, valueDepth(fv))
		}
		return 1 + d
	}
	items, ok := asList(v)
	if !ok {
		return 0
	}
	d := 0
	for _, item := range items {
		d = max(d, valueDepth(item))
	}
	return 1 + d
}

// emptyDepth returns the number of list levels along the first elements of
// v down to and including an empty sequence, or 0 when none is empty.
func emptyDepth(v any) int {
	cur := v
	for d := 1; ; d++ {
		if _, ok := asRecord(cur); ok {
			return 0
		}
		items, ok := asList(cur)
		if !ok {
			return 0
		}
		if len(items) == 0 {
			return d
		}
		cur = items[0]
	}
}

// emptyShape matches a value that stops at an empty sequence e levels down,
// inside the fixed dimensions of its type. The dimensions below the empty
// sequence are taken from dims.
func emptyShape(v any, e int, dims []int) (Shape, bool) {
	if e == 0 {
		return nil, false
	}
	chain, err := shapeOf(v, e)
	if err != nil {
		return nil, false
	}
	for j := 1; j <= len(dims) && j <= e; j++ {
		k := e - j
		if dims[j-1] == 0 && chain[k:].Equal(dims[:j]) {
			return append(chain[:k].Clone(), dims...), true
		}
	}
	return nil, false
}

// emptyAllowed reports whether a value of t may contain an empty sequence r
// list levels down its first-element path.
func emptyAllowed(t ndt.Type, r int) bool {
	switch t.Kind() {
	case ndt.StructKind:
		if r == 0 || t.NumFields() == 0 {
			return t.NumFields() == 0
		}
		return emptyAllowed(t.Field(0).Type, r-1)
	case ndt.DimKind:
		if r == 0 || t.Dim() == 0 {
			return r == 0 && t.Dim() == 0
		}
		return emptyAllowed(t.Elem(), r-1)
	default:
		return false
	}
}

// consumedDepth returns how much list nesting one value of t occupies.
func consumedDepth(t ndt.Type) int {
	switch t.Kind() {
	case ndt.StructKind:
		d := 0
		for i := 0; i < t.NumFields(); i++ {
			d = max(d, consumedDepth(t.Field(i).Type))
		}
		return 1 + d
	case ndt.DimKind:
		return 1 + consumedDepth(t.Elem())
	default:
		return 0
	}
}

// shapeOf reads ndim dimension lengths along the first elements of v.
func shapeOf(v any, ndim int) (Shape, error) {
	shape := make(Shape, ndim)
	cur := v
	for i := 0; i < ndim; i++ {
		items, ok := asList(cur)
		if !ok {
			return nil, fmt.Errorf("%w: expected a sequence at depth %d, got %T", ErrShape, i, cur)
		}
		shape[i] = len(items)
		if len(items) == 0 {
			if i != ndim-1 {
				return nil, fmt.Errorf("%w: empty sequence at depth %d of %d", ErrShape, i, ndim)
			}
			break
		}
		cur = items[0]
	}
	return shape, nil
}

// fill stores the leaves of v (nested ndim deep) into a, which must be a
// freshly allocated C-contiguous array of matching shape.
func (a *Array) fill(v any, ndim int) error {
	size := a.dtype.Size()
	k := 0
	var walk func(cur any, level int) error
	walk = func(cur any, level int) error {
		if level == ndim {
			val, err := convertValue(cur, a.dtype)
			if err != nil {
				return err
			}
			a.buf.store(a.offset+k*size, a.dtype, val)
			k++
			return nil
		}
		items, ok := asList(cur)
		if !ok || len(items) != a.shape[level] {
			return fmt.Errorf("%w: ragged nested sequence at depth %d", ErrShape, level)
		}
		for _, item := range items {
			if err := walk(item, level+1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(v, 0)
}
