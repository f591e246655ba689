// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ndt provides the public type system for dynd arrays.
//
// A Type is either a scalar element type (bool, the sized integers,
// float16/32/64, cfloat32/64, string), a struct of named fields, or a fixed
// dimension "n * T". Types are written as datashape strings:
//
//	t := ndt.MustParse("3 * {x : string, y : int32}")
//	fmt.Println(t.Size()) // 48
package ndt

import (
	"github.com/born-ml/dynd/internal/ndt"
)

// Type is an immutable element or array type.
type Type = ndt.Type

// Field is one named member of a struct type.
type Field = ndt.Field

// ID identifies a type in the closed set of supported types.
type ID = ndt.ID

// Kind groups type IDs by value behavior.
type Kind = ndt.Kind

// ParseError reports a malformed datashape string.
type ParseError = ndt.ParseError

// Type IDs.
const (
	UninitializedID = ndt.UninitializedID
	BoolID          = ndt.BoolID
	Int8ID          = ndt.Int8ID
	Int16ID         = ndt.Int16ID
	Int32ID         = ndt.Int32ID
	Int64ID         = ndt.Int64ID
	Uint8ID         = ndt.Uint8ID
	Uint16ID        = ndt.Uint16ID
	Uint32ID        = ndt.Uint32ID
	Uint64ID        = ndt.Uint64ID
	Float16ID       = ndt.Float16ID
	Float32ID       = ndt.Float32ID
	Float64ID       = ndt.Float64ID
	Complex64ID     = ndt.Complex64ID
	Complex128ID    = ndt.Complex128ID
	StringID        = ndt.StringID
	StructID        = ndt.StructID
	FixedDimID      = ndt.FixedDimID
)

// Kinds.
const (
	InvalidKind = ndt.InvalidKind
	BoolKind    = ndt.BoolKind
	IntKind     = ndt.IntKind
	UintKind    = ndt.UintKind
	FloatKind   = ndt.FloatKind
	ComplexKind = ndt.ComplexKind
	StringKind  = ndt.StringKind
	StructKind  = ndt.StructKind
	DimKind     = ndt.DimKind
)

// Builtin scalar types.
var (
	Bool     = ndt.Bool
	Int8     = ndt.Int8
	Int16    = ndt.Int16
	Int32    = ndt.Int32
	Int64    = ndt.Int64
	Uint8    = ndt.Uint8
	Uint16   = ndt.Uint16
	Uint32   = ndt.Uint32
	Uint64   = ndt.Uint64
	Float16  = ndt.Float16
	Float32  = ndt.Float32
	Float64  = ndt.Float64
	CFloat32 = ndt.CFloat32
	CFloat64 = ndt.CFloat64
	String   = ndt.String
)

// Parse parses a datashape string.
//
// Example:
//
//	t, err := ndt.Parse("2 * 3 * float32")
func Parse(s string) (Type, error) {
	return ndt.Parse(s)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Type {
	return ndt.MustParse(s)
}

// MakeStruct builds a struct type from ordered fields.
//
// Example:
//
//	t, err := ndt.MakeStruct(
//	    ndt.Field{Name: "x", Type: ndt.String},
//	    ndt.Field{Name: "y", Type: ndt.Int32},
//	)
func MakeStruct(fields ...Field) (Type, error) {
	return ndt.MakeStruct(fields...)
}

// MustStruct is like MakeStruct but panics on error.
func MustStruct(fields ...Field) Type {
	return ndt.MustStruct(fields...)
}

// MakeFixedDim builds the type "n * elem". Panics if n is negative.
func MakeFixedDim(n int, elem Type) Type {
	return ndt.MakeFixedDim(n, elem)
}

// Promote returns the common type of two scalar types.
func Promote(a, b Type) (Type, error) {
	return ndt.Promote(a, b)
}
