package nd

import (
	"fmt"

	"github.com/x448/float16"

	"github.com/born-ml/dynd/internal/ndt"
)

// AsGo converts the array to nested Go values: one []any per dimension,
// structs as map[string]any, and scalars in their canonical types (bool,
// int64, uint64, float64, complex128, string).
func AsGo(a *Array) any {
	return a.nested(0, a.offset)
}

func (a *Array) nested(level, off int) any {
	if level == len(a.shape) {
		return goValue(a.buf.load(off, a.dtype), a.dtype)
	}
	out := make([]any, a.shape[level])
	for i := range out {
		out[i] = a.nested(level+1, off+i*a.strides[level])
	}
	return out
}

// goValue turns canonical struct values into maps.
func goValue(v any, t ndt.Type) any {
	switch t.Kind() {
	case ndt.StructKind:
		vals := v.([]any)
		m := make(map[string]any, len(vals))
		for i, fv := range vals {
			f := t.Field(i)
			m[f.Name] = goValue(fv, f.Type)
		}
		return m
	case ndt.DimKind:
		vals := v.([]any)
		out := make([]any, len(vals))
		for i, ev := range vals {
			out[i] = goValue(ev, t.Elem())
		}
		return out
	default:
		return v
	}
}

// Element is the set of Go types AsSlice can produce.
type Element interface {
	bool | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 |
		float16.Float16 | float32 | float64 | complex64 | complex128 | string
}

// AsSlice copies the elements of a in C order into a flat []T. T must be the
// Go type of the array's dtype exactly (float16.Float16 for float16).
//
// Example:
//
//	a, _ := nd.NewArray([][]int32{{1, 2}, {3, 4}})
//	data, err := nd.AsSlice[int32](a) // [1 2 3 4]
func AsSlice[T Element](a *Array) ([]T, error) {
	var dummy T
	want, ok := inferScalarType(dummy)
	if !ok || !want.Equal(a.dtype) {
		return nil, fmt.Errorf("%w: array of %s cannot be read as %T", ErrInvalidCast, a.dtype, dummy)
	}

	n := a.NumElements()
	out := make([]T, n)
	for k := 0; k < n; k++ {
		out[k] = fromCanonical[T](a.at(k))
	}
	return out, nil
}

// fromCanonical converts a canonical value to T, whose type has already been
// matched against the dtype.
//
//nolint:gocyclo,cyclop // One case per element type
func fromCanonical[T Element](v any) T {
	var out T
	p := any(&out)
	switch dst := p.(type) {
	case *bool:
		*dst = v.(bool)
	case *int8:
		*dst = int8(v.(int64))
	case *int16:
		*dst = int16(v.(int64))
	case *int32:
		*dst = int32(v.(int64))
	case *int64:
		*dst = v.(int64)
	case *uint8:
		*dst = uint8(v.(uint64))
	case *uint16:
		*dst = uint16(v.(uint64))
	case *uint32:
		*dst = uint32(v.(uint64))
	case *uint64:
		*dst = v.(uint64)
	case *float16.Float16:
		*dst = float16.Fromfloat32(float32(v.(float64)))
	case *float32:
		*dst = float32(v.(float64))
	case *float64:
		*dst = v.(float64)
	case *complex64:
		*dst = complex64(v.(complex128))
	case *complex128:
		*dst = v.(complex128)
	case *string:
		*dst = v.(string)
	default:
		panic(fmt.Sprintf("nd: unsupported element type %T", out))
	}
	return out
}
