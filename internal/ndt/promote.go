package ndt

import "fmt"

// Promote returns the common type two scalar values can both be stored in.
// Used when inferring the dtype of nested literals.
//
// Rules:
//   - bool < integers < floats < complex
//   - same kind keeps the wider type
//   - signed + unsigned becomes int64
//   - integers + floats becomes float64
//   - strings only promote with strings
//
//nolint:gocyclo,cyclop // Exhaustive over kind pairs
func Promote(a, b Type) (Type, error) {
	if a.IsZero() {
		return b, nil
	}
	if b.IsZero() || a.Equal(b) {
		return a, nil
	}
	ka, kb := a.Kind(), b.Kind()

	switch {
	case ka == StringKind || kb == StringKind,
		ka == StructKind || kb == StructKind,
		ka == DimKind || kb == DimKind,
		ka == InvalidKind || kb == InvalidKind:
		return Type{}, fmt.Errorf("cannot promote %s and %s to a common type", a, b)
	case ka == kb:
		if a.Size() >= b.Size() {
			return a, nil
		}
		return b, nil
	case ka == BoolKind:
		return b, nil
	case kb == BoolKind:
		return a, nil
	case ka == ComplexKind || kb == ComplexKind:
		c, other := a, b
		if kb == ComplexKind {
			c, other = b, a
		}
		if c.ID() == Complex64ID && other.Kind() == FloatKind && other.Size() <= 4 {
			return CFloat32, nil
		}
		return CFloat64, nil
	case ka == FloatKind || kb == FloatKind:
		return Float64, nil
	default:
		// Signed mixed with unsigned.
		return Int64, nil
	}
}
