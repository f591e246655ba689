package nd

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/x448/float16"

	"github.com/born-ml/dynd/internal/ndt"
)

// convertValue converts an arbitrary Go value to the canonical
// representation of type t, failing with ErrInvalidCast on lossy or
// meaningless conversions.
func convertValue(v any, t ndt.Type) (any, error) {
	if arr, ok := v.(*Array); ok && arr != nil && arr.NDim() == 0 {
		v = arr.Value()
	}
	switch t.Kind() {
	case ndt.StructKind:
		return convertRecord(v, t)
	case ndt.DimKind:
		items, ok := asList(v)
		if !ok || len(items) != t.Dim() {
			return nil, fmt.Errorf("%w: %T does not match %s", ErrInvalidCast, v, t)
		}
		elem := t.Elem()
		out := make([]any, len(items))
		for i, item := range items {
			c, err := convertValue(item, elem)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case ndt.InvalidKind:
		return nil, fmt.Errorf("%w: uninitialized target type", ErrInvalidCast)
	default:
		return convertScalar(v, t)
	}
}

func convertRecord(v any, t ndt.Type) (any, error) {
	out := make([]any, t.NumFields())
	if rec, ok := asRecord(v); ok {
		if len(rec) != t.NumFields() {
			return nil, fmt.Errorf("%w: record has %d fields, %s has %d", ErrInvalidCast, len(rec), t, t.NumFields())
		}
		for i := range out {
			f := t.Field(i)
			fv, ok := rec[f.Name]
			if !ok {
				return nil, fmt.Errorf("%w: record is missing field %q of %s", ErrInvalidCast, f.Name, t)
			}
			c, err := convertValue(fv, f.Type)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			out[i] = c
		}
		return out, nil
	}
	items, ok := asList(v)
	if !ok || len(items) != t.NumFields() {
		return nil, fmt.Errorf("%w: %T cannot be assigned to %s", ErrInvalidCast, v, t)
	}
	for i, item := range items {
		f := t.Field(i)
		c, err := convertValue(item, f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		out[i] = c
	}
	return out, nil
}

// scalar is the normalized form of a Go scalar before it is fitted to a
// target type.
type scalar struct {
	kind ndt.Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	c    complex128
	s    string
}

// normalize reduces any Go scalar, including named types, to a scalar.
//
//nolint:gocyclo,cyclop // One case per Go scalar type
func normalize(v any) (scalar, bool) {
	switch x := v.(type) {
	case bool:
		return scalar{kind: ndt.BoolKind, b: x}, true
	case int:
		return scalar{kind: ndt.IntKind, i: int64(x)}, true
	case int8:
		return scalar{kind: ndt.IntKind, i: int64(x)}, true
	case int16:
		return scalar{kind: ndt.IntKind, i: int64(x)}, true
	case int32:
		return scalar{kind: ndt.IntKind, i: int64(x)}, true
	case int64:
		return scalar{kind: ndt.IntKind, i: x}, true
	case uint:
		return scalar{kind: ndt.UintKind, u: uint64(x)}, true
	case uint8:
		return scalar{kind: ndt.UintKind, u: uint64(x)}, true
	case uint16:
		return scalar{kind: ndt.UintKind, u: uint64(x)}, true
	case uint32:
		return scalar{kind: ndt.UintKind, u: uint64(x)}, true
	case uint64:
		return scalar{kind: ndt.UintKind, u: x}, true
	case float16.Float16:
		return scalar{kind: ndt.FloatKind, f: float64(x.Float32())}, true
	case float32:
		return scalar{kind: ndt.FloatKind, f: float64(x)}, true
	case float64:
		return scalar{kind: ndt.FloatKind, f: x}, true
	case complex64:
		return scalar{kind: ndt.ComplexKind, c: complex128(x)}, true
	case complex128:
		return scalar{kind: ndt.ComplexKind, c: x}, true
	case string:
		return scalar{kind: ndt.StringKind, s: x}, true
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return scalar{kind: ndt.IntKind, i: i}, true
		}
		if u, err := strconv.ParseUint(string(x), 10, 64); err == nil {
			return scalar{kind: ndt.UintKind, u: u}, true
		}
		f, err := x.Float64()
		if err != nil {
			return scalar{}, false
		}
		return scalar{kind: ndt.FloatKind, f: f}, true
	case *Array:
		if x == nil || x.NDim() != 0 {
			return scalar{}, false
		}
		return normalize(x.Value())
	case nil:
		return scalar{}, false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return scalar{kind: ndt.BoolKind, b: rv.Bool()}, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return scalar{kind: ndt.IntKind, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return scalar{kind: ndt.UintKind, u: rv.Uint()}, true
	case reflect.Float32, reflect.Float64:
		return scalar{kind: ndt.FloatKind, f: rv.Float()}, true
	case reflect.Complex64, reflect.Complex128:
		return scalar{kind: ndt.ComplexKind, c: rv.Complex()}, true
	case reflect.String:
		return scalar{kind: ndt.StringKind, s: rv.String()}, true
	default:
		return scalar{}, false
	}
}

// convertScalar fits a Go scalar into a non-struct, non-dim type.
//
//nolint:gocyclo,cyclop // Exhaustive over source and target kinds
func convertScalar(v any, t ndt.Type) (any, error) {
	s, ok := normalize(v)
	if !ok {
		return nil, fmt.Errorf("%w: %T cannot be assigned to %s", ErrInvalidCast, v, t)
	}
	fail := func() (any, error) {
		return nil, fmt.Errorf("%w: %s value %v cannot be assigned to %s", ErrInvalidCast, s.kind, v, t)
	}

	// Strings only parse into floats and complex numbers using the spellings
	// FormatJSON produces.
	if s.kind == ndt.StringKind {
		switch t.Kind() {
		case ndt.StringKind:
			return s.s, nil
		case ndt.FloatKind:
			f, ok := parseSpecialFloat(s.s)
			if !ok {
				return fail()
			}
			s = scalar{kind: ndt.FloatKind, f: f}
		case ndt.ComplexKind:
			c, err := strconv.ParseComplex(s.s, 128)
			if err != nil {
				return fail()
			}
			s = scalar{kind: ndt.ComplexKind, c: c}
		default:
			return fail()
		}
	}

	switch t.Kind() {
	case ndt.BoolKind:
		if s.kind != ndt.BoolKind {
			return fail()
		}
		return s.b, nil

	case ndt.IntKind:
		var i int64
		switch s.kind {
		case ndt.BoolKind:
			if s.b {
				i = 1
			}
		case ndt.IntKind:
			i = s.i
		case ndt.UintKind:
			if s.u > math.MaxInt64 {
				return fail()
			}
			i = int64(s.u)
		case ndt.FloatKind, ndt.ComplexKind:
			f, ok := realPart(s)
			if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return fail()
			}
			i = int64(f)
		default:
			return fail()
		}
		bits := uint(t.Size() * 8)
		if bits < 64 {
			lo, hi := -(int64(1) << (bits - 1)), int64(1)<<(bits-1)-1
			if i < lo || i > hi {
				return fail()
			}
		}
		return i, nil

	case ndt.UintKind:
		var u uint64
		switch s.kind {
		case ndt.BoolKind:
			if s.b {
				u = 1
			}
		case ndt.IntKind:
			if s.i < 0 {
				return fail()
			}
			u = uint64(s.i)
		case ndt.UintKind:
			u = s.u
		case ndt.FloatKind, ndt.ComplexKind:
			f, ok := realPart(s)
			if !ok || f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
				return fail()
			}
			u = uint64(f)
		default:
			return fail()
		}
		bits := uint(t.Size() * 8)
		if bits < 64 && u > uint64(1)<<bits-1 {
			return fail()
		}
		return u, nil

	case ndt.FloatKind:
		switch s.kind {
		case ndt.BoolKind:
			if s.b {
				return 1.0, nil
			}
			return 0.0, nil
		case ndt.IntKind:
			return float64(s.i), nil
		case ndt.UintKind:
			return float64(s.u), nil
		case ndt.FloatKind, ndt.ComplexKind:
			f, ok := realPart(s)
			if !ok {
				return fail()
			}
			return f, nil
		default:
			return fail()
		}

	case ndt.ComplexKind:
		switch s.kind {
		case ndt.BoolKind:
			if s.b {
				return complex(1, 0), nil
			}
			return complex(0, 0), nil
		case ndt.IntKind:
			return complex(float64(s.i), 0), nil
		case ndt.UintKind:
			return complex(float64(s.u), 0), nil
		case ndt.FloatKind:
			return complex(s.f, 0), nil
		case ndt.ComplexKind:
			return s.c, nil
		default:
			return fail()
		}

	case ndt.StringKind:
		return fail()

	default:
		return nil, fmt.Errorf("%w: %s is not a scalar type", ErrInvalidCast, t)
	}
}

// realPart returns the real value of a float or an imaginary-free complex.
func realPart(s scalar) (float64, bool) {
	if s.kind == ndt.FloatKind {
		return s.f, true
	}
	if imag(s.c) != 0 {
		return 0, false
	}
	return real(s.c), true
}

func parseSpecialFloat(s string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nan":
		return math.NaN(), true
	case "inf", "+inf", "infinity":
		return math.Inf(1), true
	case "-inf", "-infinity":
		return math.Inf(-1), true
	default:
		return 0, false
	}
}

// inferScalarType returns the dtype a Go scalar is stored as when no dtype
// is requested.
//
//nolint:gocyclo,cyclop // One case per Go scalar type
func inferScalarType(v any) (ndt.Type, bool) {
	switch x := v.(type) {
	case int8:
		return ndt.Int8, true
	case int16:
		return ndt.Int16, true
	case int32:
		return ndt.Int32, true
	case uint8:
		return ndt.Uint8, true
	case uint16:
		return ndt.Uint16, true
	case uint32:
		return ndt.Uint32, true
	case float16.Float16:
		return ndt.Float16, true
	case float32:
		return ndt.Float32, true
	case complex64:
		return ndt.CFloat32, true
	case *Array:
		if x == nil || x.NDim() != 0 {
			return ndt.Type{}, false
		}
		return x.DType(), true
	}
	s, ok := normalize(v)
	if !ok {
		return ndt.Type{}, false
	}
	switch s.kind {
	case ndt.BoolKind:
		return ndt.Bool, true
	case ndt.IntKind:
		return ndt.Int64, true
	case ndt.UintKind:
		return ndt.Uint64, true
	case ndt.FloatKind:
		return ndt.Float64, true
	case ndt.ComplexKind:
		return ndt.CFloat64, true
	case ndt.StringKind:
		return ndt.String, true
	default:
		return ndt.Type{}, false
	}
}

// asList views slices and arrays (of any element type) as []any.
// Strings and nil are not lists.
func asList(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	if v == nil {
		return nil, false
	}
	if arr, ok := v.(*Array); ok {
		if arr == nil || arr.NDim() == 0 {
			return nil, false
		}
		out := make([]any, arr.shape[0])
		for i := range out {
			out[i] = arr.peek(i)
		}
		return out, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// asRecord views string-keyed maps as map[string]any.
func asRecord(v any) (map[string]any, bool) {
	if rec, ok := v.(map[string]any); ok {
		return rec, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
