// Package nd implements dynamically typed n-dimensional arrays.
package nd

import (
	"fmt"

	"github.com/born-ml/dynd/internal/ndt"
)

// Access describes what may be done with an array's data.
type Access int

// Access levels, from most to least permissive.
const (
	ReadWrite Access = iota
	ReadOnly
	Immutable
)

// String returns the access flag spelling used by DebugRepr.
func (a Access) String() string {
	switch a {
	case ReadWrite:
		return "readwrite"
	case ReadOnly:
		return "readonly"
	case Immutable:
		return "immutable"
	default:
		return "unknown"
	}
}

// Array is a strided view of typed elements in a shared buffer.
type Array struct {
	buf     *buffer  // Shared reference-counted buffer
	dtype   ndt.Type // Element type, never a fixed dimension
	shape   Shape    // Array dimensions
	strides []int    // Byte strides per dimension
	offset  int      // Byte offset of element [0, ..., 0]
	access  Access
}

// newArray allocates a zero-filled C-contiguous array.
func newArray(shape Shape, dtype ndt.Type, access Access) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if dtype.IsZero() {
		return nil, fmt.Errorf("%w: array needs a dtype", ErrInvalidCast)
	}
	// Fold any fixed dimensions of the dtype into the shape.
	dims, elem := dtype.Split()
	full := append(shape.Clone(), dims...)
	return &Array{
		buf:     newBuffer(full.NumElements(), elem),
		dtype:   elem,
		shape:   full,
		strides: full.cStrides(elem.Size()),
		access:  access,
	}, nil
}

// DType returns the element type.
func (a *Array) DType() ndt.Type {
	return a.dtype
}

// Type returns the full type of the array, dimensions included.
func (a *Array) Type() ndt.Type {
	t := a.dtype
	for i := len(a.shape) - 1; i >= 0; i-- {
		t = ndt.MakeFixedDim(a.shape[i], t)
	}
	return t
}

// Shape returns a copy of the array's shape.
func (a *Array) Shape() Shape {
	return a.shape.Clone()
}

// Strides returns a copy of the byte strides.
func (a *Array) Strides() []int {
	return append([]int(nil), a.strides...)
}

// NDim returns the number of dimensions.
func (a *Array) NDim() int {
	return len(a.shape)
}

// NumElements returns the total number of elements.
func (a *Array) NumElements() int {
	return a.shape.NumElements()
}

// Access returns the access level.
func (a *Array) Access() Access {
	return a.access
}

// Release drops this array's reference to its buffer. Memory-mapped buffers
// are unmapped when the last reference is released. The array must not be
// used afterwards.
func (a *Array) Release() error {
	if a.buf == nil {
		return nil
	}
	err := a.buf.release()
	a.buf = nil
	return err
}

// offsetOf returns the byte offset of the k-th element in C order.
func (a *Array) offsetOf(k int) int {
	off := a.offset
	for i := len(a.shape) - 1; i >= 0; i-- {
		dim := a.shape[i]
		off += (k % dim) * a.strides[i]
		k /= dim
	}
	return off
}

// at returns the canonical value of the k-th element in C order.
func (a *Array) at(k int) any {
	return a.buf.load(a.offsetOf(k), a.dtype)
}

// Value returns the canonical Go value of a scalar (0-d) array.
// Panics if the array is not a scalar.
func (a *Array) Value() any {
	if len(a.shape) != 0 {
		panic(fmt.Sprintf("Value() only works for scalar arrays, got shape %v", a.shape))
	}
	return a.buf.load(a.offset, a.dtype)
}

// view returns a new array header sharing a's buffer.
func (a *Array) view(shape Shape, strides []int, offset int) *Array {
	a.buf.addRef()
	return &Array{
		buf:     a.buf,
		dtype:   a.dtype,
		shape:   shape,
		strides: strides,
		offset:  offset,
		access:  a.access,
	}
}

// Index returns a view of the sub-array at the given leading indices.
// Negative indices count from the end of their dimension.
//
// Example:
//
//	row, err := a.Index(1)     // second row of a 2-D array
//	x, err := a.Index(-1, 0)   // scalar view
func (a *Array) Index(indices ...int) (*Array, error) {
	if len(indices) > len(a.shape) {
		return nil, fmt.Errorf("%w: %d indices for %d-dimensional array", ErrIndexOutOfRange, len(indices), len(a.shape))
	}
	off := a.offset
	for i, idx := range indices {
		dim := a.shape[i]
		if idx < 0 {
			idx += dim
		}
		if idx < 0 || idx >= dim {
			return nil, fmt.Errorf("%w: index %d for dimension %d of size %d", ErrIndexOutOfRange, indices[i], i, dim)
		}
		off += idx * a.strides[i]
	}
	n := len(indices)
	return a.view(a.shape[n:].Clone(), append([]int(nil), a.strides[n:]...), off), nil
}

// Assign writes v into every element of the array. v may be a scalar, a
// nested Go value matching the shape, or an *Array broadcastable to it.
func (a *Array) Assign(v any) error {
	if a.access != ReadWrite {
		return fmt.Errorf("%w: access is %s", ErrReadOnly, a.access)
	}
	src, ok := v.(*Array)
	if !ok {
		var err error
		src, err = fromValue(v, options{dtype: a.dtype})
		if err != nil {
			return err
		}
	}
	shape, err := BroadcastShapes(src.shape, a.shape)
	if err != nil {
		return err
	}
	if !shape.Equal(a.shape) {
		return &BroadcastError{Shapes: []Shape{src.shape.Clone(), a.shape.Clone()}}
	}
	bsrc := src.broadcastTo(shape)
	n := a.NumElements()
	for k := 0; k < n; k++ {
		val, err := convertValue(bsrc.at(k), a.dtype)
		if err != nil {
			return err
		}
		a.buf.store(a.offsetOf(k), a.dtype, val)
	}
	return nil
}

// peek returns a read-only header for the sub-array at index i of the first
// dimension. It holds no buffer reference and must not outlive a.
func (a *Array) peek(i int) *Array {
	return &Array{
		buf:     a.buf,
		dtype:   a.dtype,
		shape:   a.shape[1:],
		strides: a.strides[1:],
		offset:  a.offset + i*a.strides[0],
		access:  ReadOnly,
	}
}

// broadcastTo returns a read-only header reading a as if it had shape to.
// The header does not take a buffer reference and must not outlive a.
func (a *Array) broadcastTo(to Shape) *Array {
	return &Array{
		buf:     a.buf,
		dtype:   a.dtype,
		shape:   to,
		strides: broadcastStrides(a.shape, a.strides, to),
		offset:  a.offset,
		access:  ReadOnly,
	}
}

// copyAs returns a new C-contiguous array with the values of a converted to
// dtype.
func (a *Array) copyAs(dtype ndt.Type, access Access) (*Array, error) {
	out, err := newArray(a.shape, dtype, ReadWrite)
	if err != nil {
		return nil, err
	}
	same := dtype.Equal(a.dtype)
	size := out.dtype.Size()
	n := a.NumElements()
	for k := 0; k < n; k++ {
		val := a.at(k)
		if !same {
			if val, err = convertValue(val, out.dtype); err != nil {
				return nil, err
			}
		}
		out.buf.store(k*size, out.dtype, val)
	}
	out.access = access
	return out, nil
}

// String returns a short description of the array.
func (a *Array) String() string {
	return fmt.Sprintf("nd.array[%s]", a.Type())
}
