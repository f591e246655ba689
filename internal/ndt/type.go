// Package ndt provides the element type system for dynd arrays.
package ndt

import (
	"fmt"
	"strings"
)

// ID identifies a type in the closed set of supported types.
type ID int

// Supported type IDs. The zero ID marks an uninitialized Type.
const (
	UninitializedID ID = iota
	BoolID
	Int8ID
	Int16ID
	Int32ID
	Int64ID
	Uint8ID
	Uint16ID
	Uint32ID
	Uint64ID
	Float16ID
	Float32ID
	Float64ID
	Complex64ID
	Complex128ID
	StringID
	StructID
	FixedDimID
)

// Kind groups type IDs by the way their values behave.
type Kind int

// Type kinds.
const (
	InvalidKind Kind = iota
	BoolKind
	IntKind
	UintKind
	FloatKind
	ComplexKind
	StringKind
	StructKind
	DimKind
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case UintKind:
		return "uint"
	case FloatKind:
		return "float"
	case ComplexKind:
		return "complex"
	case StringKind:
		return "string"
	case StructKind:
		return "struct"
	case DimKind:
		return "dim"
	default:
		return "invalid"
	}
}

// Type is an immutable element or array type.
// The zero value is an uninitialized type; use IsZero to detect it.
type Type struct {
	id     ID
	fields []Field // StructID only
	size   int     // StructID only, cached
	dim    int     // FixedDimID only
	elem   *Type   // FixedDimID only
}

// Field is a named member of a struct type.
type Field struct {
	Name   string
	Type   Type
	Offset int // byte offset inside the record, set by MakeStruct
}

// Builtin scalar types.
var (
	Bool     = Type{id: BoolID}
	Int8     = Type{id: Int8ID}
	Int16    = Type{id: Int16ID}
	Int32    = Type{id: Int32ID}
	Int64    = Type{id: Int64ID}
	Uint8    = Type{id: Uint8ID}
	Uint16   = Type{id: Uint16ID}
	Uint32   = Type{id: Uint32ID}
	Uint64   = Type{id: Uint64ID}
	Float16  = Type{id: Float16ID}
	Float32  = Type{id: Float32ID}
	Float64  = Type{id: Float64ID}
	CFloat32 = Type{id: Complex64ID}
	CFloat64 = Type{id: Complex128ID}
	String   = Type{id: StringID}
)

// MakeStruct builds a struct type from ordered fields.
// Field offsets are assigned sequentially; any Offset in the input is ignored.
func MakeStruct(fields ...Field) (Type, error) {
	if len(fields) == 0 {
		return Type{}, fmt.Errorf("struct type needs at least one field")
	}
	seen := make(map[string]bool, len(fields))
	out := make([]Field, len(fields))
	offset := 0
	for i, f := range fields {
		if f.Name == "" {
			return Type{}, fmt.Errorf("struct field %d has an empty name", i)
		}
		if seen[f.Name] {
			return Type{}, fmt.Errorf("duplicate struct field %q", f.Name)
		}
		if f.Type.IsZero() {
			return Type{}, fmt.Errorf("struct field %q has no type", f.Name)
		}
		seen[f.Name] = true
		out[i] = Field{Name: f.Name, Type: f.Type, Offset: offset}
		offset += f.Type.Size()
	}
	return Type{id: StructID, fields: out, size: offset}, nil
}

// MustStruct is like MakeStruct but panics on error.
func MustStruct(fields ...Field) Type {
	t, err := MakeStruct(fields...)
	if err != nil {
		panic(err)
	}
	return t
}

// MakeFixedDim builds the type "n * elem".
// Panics if n is negative.
func MakeFixedDim(n int, elem Type) Type {
	if n < 0 {
		panic(fmt.Sprintf("ndt: negative dimension %d", n))
	}
	e := elem
	return Type{id: FixedDimID, dim: n, elem: &e}
}

// ID returns the type ID.
func (t Type) ID() ID {
	return t.id
}

// IsZero reports whether t is the uninitialized type.
func (t Type) IsZero() bool {
	return t.id == UninitializedID
}

// Kind returns the kind of the type.
func (t Type) Kind() Kind {
	switch t.id {
	case BoolID:
		return BoolKind
	case Int8ID, Int16ID, Int32ID, Int64ID:
		return IntKind
	case Uint8ID, Uint16ID, Uint32ID, Uint64ID:
		return UintKind
	case Float16ID, Float32ID, Float64ID:
		return FloatKind
	case Complex64ID, Complex128ID:
		return ComplexKind
	case StringID:
		return StringKind
	case StructID:
		return StructKind
	case FixedDimID:
		return DimKind
	default:
		return InvalidKind
	}
}

// Size returns the byte size of one value slot of this type.
// String slots hold an 8-byte handle into the owning buffer's string table.
func (t Type) Size() int {
	switch t.id {
	case BoolID, Int8ID, Uint8ID:
		return 1
	case Int16ID, Uint16ID, Float16ID:
		return 2
	case Int32ID, Uint32ID, Float32ID:
		return 4
	case Int64ID, Uint64ID, Float64ID, Complex64ID, StringID:
		return 8
	case Complex128ID:
		return 16
	case StructID:
		return t.size
	case FixedDimID:
		return t.dim * t.elem.Size()
	default:
		panic(fmt.Sprintf("ndt: size of uninitialized type (id %d)", t.id))
	}
}

// NumFields returns the number of struct fields, or 0 for non-struct types.
func (t Type) NumFields() int {
	return len(t.fields)
}

// Field returns the i-th struct field.
func (t Type) Field(i int) Field {
	return t.fields[i]
}

// Fields returns a copy of the struct fields.
func (t Type) Fields() []Field {
	return append([]Field(nil), t.fields...)
}

// FieldIndex returns the index of the named field, or -1.
func (t Type) FieldIndex(name string) int {
	for i, f := range t.fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Dim returns the length of a fixed dimension type.
func (t Type) Dim() int {
	return t.dim
}

// Elem returns the element type of a fixed dimension type.
// For any other type it returns t itself.
func (t Type) Elem() Type {
	if t.id != FixedDimID {
		return t
	}
	return *t.elem
}

// Split peels the leading fixed dimensions off t.
//
// Example:
//
//	dims, dtype := ndt.MustParse("3 * 2 * int32").Split() // [3 2], int32
func (t Type) Split() ([]int, Type) {
	var dims []int
	cur := t
	for cur.id == FixedDimID {
		dims = append(dims, cur.dim)
		cur = *cur.elem
	}
	return dims, cur
}

// HasStrings reports whether values of t contain string handles.
func (t Type) HasStrings() bool {
	switch t.id {
	case StringID:
		return true
	case StructID:
		for _, f := range t.fields {
			if f.Type.HasStrings() {
				return true
			}
		}
		return false
	case FixedDimID:
		return t.elem.HasStrings()
	default:
		return false
	}
}

// StringSlots returns the number of string handles in one value of t.
func (t Type) StringSlots() int {
	switch t.id {
	case StringID:
		return 1
	case StructID:
		n := 0
		for _, f := range t.fields {
			n += f.Type.StringSlots()
		}
		return n
	case FixedDimID:
		return t.dim * t.elem.StringSlots()
	default:
		return 0
	}
}

// Equal reports whether two types are identical.
func (t Type) Equal(o Type) bool {
	if t.id != o.id {
		return false
	}
	switch t.id {
	case StructID:
		if len(t.fields) != len(o.fields) {
			return false
		}
		for i := range t.fields {
			if t.fields[i].Name != o.fields[i].Name || !t.fields[i].Type.Equal(o.fields[i].Type) {
				return false
			}
		}
		return true
	case FixedDimID:
		return t.dim == o.dim && t.elem.Equal(*o.elem)
	default:
		return true
	}
}

// String returns the datashape spelling of the type.
func (t Type) String() string {
	switch t.id {
	case StructID:
		var sb strings.Builder
		sb.WriteString("{")
		for i, f := range t.fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(" : ")
			sb.WriteString(f.Type.String())
		}
		sb.WriteString("}")
		return sb.String()
	case FixedDimID:
		return fmt.Sprintf("%d * %s", t.dim, t.elem.String())
	default:
		if name, ok := builtinNames[t.id]; ok {
			return name
		}
		return "uninitialized"
	}
}

var builtinNames = map[ID]string{
	BoolID:       "bool",
	Int8ID:       "int8",
	Int16ID:      "int16",
	Int32ID:      "int32",
	Int64ID:      "int64",
	Uint8ID:      "uint8",
	Uint16ID:     "uint16",
	Uint32ID:     "uint32",
	Uint64ID:     "uint64",
	Float16ID:    "float16",
	Float32ID:    "float32",
	Float64ID:    "float64",
	Complex64ID:  "cfloat32",
	Complex128ID: "cfloat64",
	StringID:     "string",
}
