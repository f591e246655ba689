package nd

import "fmt"

// DShape returns the datashape string of the array's full type,
// e.g. "3 * 2 * int32".
func (a *Array) DShape() string {
	return a.Type().String()
}

// IsCContiguous reports whether the elements are laid out in row-major
// order without gaps. Dimensions of size 1 are ignored and empty arrays are
// always contiguous.
func (a *Array) IsCContiguous() bool {
	if a.NumElements() == 0 {
		return true
	}
	expected := a.dtype.Size()
	for i := len(a.shape) - 1; i >= 0; i-- {
		if a.shape[i] == 1 {
			continue
		}
		if a.strides[i] != expected {
			return false
		}
		expected *= a.shape[i]
	}
	return true
}

// IsFContiguous reports whether the elements are laid out in column-major
// order without gaps.
func (a *Array) IsFContiguous() bool {
	if a.NumElements() == 0 {
		return true
	}
	expected := a.dtype.Size()
	for i := 0; i < len(a.shape); i++ {
		if a.shape[i] == 1 {
			continue
		}
		if a.strides[i] != expected {
			return false
		}
		expected *= a.shape[i]
	}
	return true
}

// View returns an array sharing a's data.
//
// WithAccess may only keep or restrict access. WithDType reinterprets the
// bytes of a C-contiguous array whose dtype and the requested one are free
// of strings; the last dimension is rescaled when the element sizes differ.
func View(a *Array, opts ...Option) (*Array, error) {
	o := buildOptions(opts)
	access := a.access
	if o.accessSet {
		access = o.access
	}
	if access < a.access {
		return nil, fmt.Errorf("%w: cannot view %s array as %s", ErrReadOnly, a.access, access)
	}

	if o.dtype.IsZero() || o.dtype.Equal(a.dtype) || o.dtype.Equal(a.Type()) {
		v := a.view(a.shape.Clone(), a.Strides(), a.offset)
		v.access = access
		return v, nil
	}

	dims, target := o.dtype.Split()
	if len(dims) > 0 {
		return nil, fmt.Errorf("%w: view dtype %s has fixed dimensions, pass the element type", ErrInvalidCast, o.dtype)
	}
	if a.dtype.HasStrings() || target.HasStrings() {
		return nil, fmt.Errorf("%w: cannot reinterpret %s as %s, strings are not plain bytes", ErrInvalidCast, a.dtype, target)
	}
	if !a.IsCContiguous() {
		return nil, fmt.Errorf("%w: reinterpreting view needs a C-contiguous array", ErrInvalidCast)
	}
	from, to := a.dtype.Size(), target.Size()
	shape := a.shape.Clone()
	if from != to {
		if len(shape) == 0 {
			return nil, fmt.Errorf("%w: cannot view %s scalar as %s", ErrInvalidCast, a.dtype, target)
		}
		last := shape[len(shape)-1] * from
		if last%to != 0 {
			return nil, fmt.Errorf("%w: last dimension of %d bytes is not a multiple of %s", ErrInvalidCast, last, target)
		}
		shape[len(shape)-1] = last / to
	}
	v := a.view(shape, shape.cStrides(to), a.offset)
	v.dtype = target
	v.access = access
	return v, nil
}

// AsArray returns v itself when it is an *Array already matching the
// requested dtype and access, and otherwise converts it like NewArray.
// A more restrictive access is granted with a view; a more permissive one
// needs a copy.
func AsArray(v any, opts ...Option) (*Array, error) {
	o := buildOptions(opts)
	if a, ok := v.(*Array); ok {
		dtypeOK := o.dtype.IsZero() || o.dtype.Equal(a.dtype) || o.dtype.Equal(a.Type())
		switch {
		case !dtypeOK:
		case !o.accessSet || a.access == o.access:
			return a, nil
		case a.access < o.access:
			return View(a, WithAccess(o.access))
		}
	}
	return fromValue(v, o)
}

// Squeeze returns a view of a without its size-1 dimensions.
func Squeeze(a *Array) *Array {
	shape := make(Shape, 0, len(a.shape))
	strides := make([]int, 0, len(a.shape))
	for i, d := range a.shape {
		if d != 1 {
			shape = append(shape, d)
			strides = append(strides, a.strides[i])
		}
	}
	return a.view(shape, strides, a.offset)
}

// Transpose returns a view with the dimension order reversed. A
// C-contiguous array becomes F-contiguous.
func Transpose(a *Array) *Array {
	n := len(a.shape)
	shape := make(Shape, n)
	strides := make([]int, n)
	for i := 0; i < n; i++ {
		shape[i] = a.shape[n-1-i]
		strides[i] = a.strides[n-1-i]
	}
	return a.view(shape, strides, a.offset)
}
