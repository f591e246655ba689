// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nd

import (
	"io"
	"math"

	"go.uber.org/zap"

	"github.com/born-ml/dynd/internal/nd"
	"github.com/born-ml/dynd/internal/ndt"
	"github.com/born-ml/dynd/internal/parallel"
)

// Type aliases for public API

// Array is a dynamically typed n-dimensional array.
type Array = nd.Array

// Shape represents the dimensions of an array.
// Example: Shape{2, 3} is a 2×3 matrix, Shape{} a scalar.
type Shape = nd.Shape

// Access describes what may be done with an array's data.
type Access = nd.Access

// Access levels.
const (
	ReadWrite = nd.ReadWrite
	ReadOnly  = nd.ReadOnly
	Immutable = nd.Immutable
)

// Option configures array construction.
type Option = nd.Option

// MemmapOption configures Memmap.
type MemmapOption = nd.MemmapOption

// Groups is the result of Groupby.
type Groups = nd.Groups

// Record is one struct element handed to a computed field.
type Record = nd.Record

// ComputedField derives a new field from each record.
type ComputedField = nd.ComputedField

// ElwiseFunc computes one output element of ElwiseMap.
type ElwiseFunc = nd.ElwiseFunc

// Element is the set of Go types AsSlice can produce.
type Element = nd.Element

// KernelConfig controls how element-wise kernels use goroutines.
type KernelConfig = parallel.Config

// BroadcastError reports array shapes that cannot be broadcast together.
type BroadcastError = nd.BroadcastError

// Errors.
var (
	ErrIndexType       = nd.ErrIndexType
	ErrIndexOutOfRange = nd.ErrIndexOutOfRange
	ErrAmbiguousTruth  = nd.ErrAmbiguousTruth
	ErrInvalidCast     = nd.ErrInvalidCast
	ErrReadOnly        = nd.ErrReadOnly
	ErrShape           = nd.ErrShape
)

// Float constants for building arrays.
var (
	Inf = math.Inf(1)
	NaN = math.NaN()
)

// Options

// WithDType requests a specific type. Leading fixed dimensions of the type
// become the trailing dimensions of the array.
func WithDType(t ndt.Type) Option {
	return nd.WithDType(t)
}

// WithAccess sets the access level of the result.
func WithAccess(a Access) Option {
	return nd.WithAccess(a)
}

// MemmapDType sets the element type of a mapped file. Default uint8.
func MemmapDType(t ndt.Type) MemmapOption {
	return nd.MemmapDType(t)
}

// MemmapRange restricts the mapping to bytes [begin, end). Negative offsets
// count from the end of the file.
func MemmapRange(begin, end int64) MemmapOption {
	return nd.MemmapRange(begin, end)
}

// MemmapAccess sets the access level of a mapped file. Default ReadWrite.
func MemmapAccess(a Access) MemmapOption {
	return nd.MemmapAccess(a)
}

// Construction

// NewArray creates an array from a Go value, inferring the dtype unless
// WithDType is given.
//
// Example:
//
//	a, err := nd.NewArray([]any{"abc", 3}, nd.WithDType(ndt.MustParse("{x : string; y : int32}")))
func NewArray(v any, opts ...Option) (*Array, error) {
	return nd.NewArray(v, opts...)
}

// Must returns a or panics if err is non-nil.
//
// Example:
//
//	a := nd.Must(nd.NewArray([]int{1, 2, 3}))
func Must(a *Array, err error) *Array {
	if err != nil {
		panic(err)
	}
	return a
}

// Zeros creates an array filled with zeros. The dtype defaults to float64.
func Zeros(shape Shape, opts ...Option) (*Array, error) {
	return nd.Zeros(shape, opts...)
}

// Ones creates an array filled with ones. The dtype defaults to float64.
func Ones(shape Shape, opts ...Option) (*Array, error) {
	return nd.Ones(shape, opts...)
}

// Full creates an array filled with value, inferring the dtype from value
// unless WithDType is given.
func Full(shape Shape, value any, opts ...Option) (*Array, error) {
	return nd.Full(shape, value, opts...)
}

// Empty creates an array without meaningful initial values.
func Empty(shape Shape, opts ...Option) (*Array, error) {
	return nd.Empty(shape, opts...)
}

// EmptyLike creates an array with the shape and dtype of a.
func EmptyLike(a *Array, opts ...Option) (*Array, error) {
	return nd.EmptyLike(a, opts...)
}

// Range creates the 1-D array start, start+step, ... excluding stop.
//
// Example:
//
//	a, err := nd.Range(0, 10, 2) // [0, 2, 4, 6, 8]
func Range(start, stop, step any, opts ...Option) (*Array, error) {
	return nd.Range(start, stop, step, opts...)
}

// Linspace creates count evenly spaced values over [start, stop].
func Linspace(start, stop any, count int, opts ...Option) (*Array, error) {
	return nd.Linspace(start, stop, count, opts...)
}

// Memmap maps a file of raw little-endian elements as a 1-D array. Call
// Release on the array (and its views) to unmap it.
func Memmap(path string, opts ...MemmapOption) (*Array, error) {
	return nd.Memmap(path, opts...)
}

// WriteRaw writes the elements of a in the layout Memmap reads.
func WriteRaw(w io.Writer, a *Array) error {
	return nd.WriteRaw(w, a)
}

// AsArray returns v unchanged when it is an *Array matching the options,
// and otherwise converts it.
func AsArray(v any, opts ...Option) (*Array, error) {
	return nd.AsArray(v, opts...)
}

// Export

// AsGo converts the array to nested Go values.
func AsGo(a *Array) any {
	return nd.AsGo(a)
}

// AsSlice copies the elements of a in C order into a flat []T.
func AsSlice[T Element](a *Array) ([]T, error) {
	return nd.AsSlice[T](a)
}

// Introspection

// TypeOf returns the full type of a, dimensions included.
func TypeOf(a *Array) ndt.Type {
	return a.Type()
}

// DTypeOf returns the element type of a.
func DTypeOf(a *Array) ndt.Type {
	return a.DType()
}

// DShapeOf returns the datashape string of a, e.g. "3 * int32".
func DShapeOf(a *Array) string {
	return a.DShape()
}

// NDimOf returns the number of dimensions of a.
func NDimOf(a *Array) int {
	return a.NDim()
}

// ShapeOf returns the shape of a.
func ShapeOf(a *Array) Shape {
	return a.Shape()
}

// IsCContiguous reports whether a is laid out in row-major order.
func IsCContiguous(a *Array) bool {
	return a.IsCContiguous()
}

// IsFContiguous reports whether a is laid out in column-major order.
func IsFContiguous(a *Array) bool {
	return a.IsFContiguous()
}

// DebugRepr returns a multi-line description of a's layout and value.
func DebugRepr(a *Array) string {
	return nd.DebugRepr(a)
}

// Digest returns the BLAKE3 hash of a's type and C-order contents.
func Digest(a *Array) [32]byte {
	return nd.Digest(a)
}

// Views

// View returns an array sharing a's data, optionally with reduced access
// or reinterpreted bytes.
func View(a *Array, opts ...Option) (*Array, error) {
	return nd.View(a, opts...)
}

// Squeeze returns a view of a without its size-1 dimensions.
func Squeeze(a *Array) *Array {
	return nd.Squeeze(a)
}

// Transpose returns a view of a with the dimension order reversed.
func Transpose(a *Array) *Array {
	return nd.Transpose(a)
}

// BroadcastShapes returns the shape the given shapes broadcast to.
func BroadcastShapes(shapes ...Shape) (Shape, error) {
	return nd.BroadcastShapes(shapes...)
}

// Index protocol

// At indexes seq with an integer scalar array.
//
// Example:
//
//	v, err := nd.At([]int{1, 2, 3, 4, 5, 6}, nd.Must(nd.NewArray(-1))) // 6
func At[T any](seq []T, idx *Array) (T, error) {
	return nd.At(seq, idx)
}

// SliceOf slices seq with integer scalar array bounds; nil bounds are
// omitted.
func SliceOf[T any](seq []T, lo, hi *Array) ([]T, error) {
	return nd.SliceOf(seq, lo, hi)
}

// Records and element-wise maps

// Fields returns a struct array holding only the named fields of a.
func Fields(a *Array, names ...string) (*Array, error) {
	return nd.Fields(a, names...)
}

// AddComputedFields appends computed fields to the struct array a and drops
// the fields named in rm.
func AddComputedFields(a *Array, fields []ComputedField, rm ...string) (*Array, error) {
	return nd.AddComputedFields(a, fields, rm...)
}

// MakeComputedFields returns a struct array of only the computed fields.
func MakeComputedFields(a *Array, fields []ComputedField) (*Array, error) {
	return nd.MakeComputedFields(a, fields)
}

// Groupby splits data along its first dimension by the sorted values of by.
func Groupby(data, by *Array) (*Groups, error) {
	return nd.Groupby(data, by)
}

// ElwiseMap evaluates fn over the broadcast inputs into a new array of
// type dst.
//
// Example:
//
//	sum, err := nd.ElwiseMap([]*nd.Array{a, b}, func(args []any) (any, error) {
//	    return args[0].(float64) + args[1].(float64), nil
//	}, ndt.Float64)
func ElwiseMap(inputs []*Array, fn ElwiseFunc, dst ndt.Type) (*Array, error) {
	return nd.ElwiseMap(inputs, fn, dst)
}

// Formats

// ParseJSON parses JSON (comments and trailing commas allowed) into an array
// of type t, or of an inferred type when t is the zero Type.
func ParseJSON(t ndt.Type, data []byte) (*Array, error) {
	return nd.ParseJSON(t, data)
}

// FormatJSON formats a as compact JSON.
func FormatJSON(a *Array) ([]byte, error) {
	return nd.FormatJSON(a)
}

// FormatCBOR encodes a with its type as deterministic CBOR.
func FormatCBOR(a *Array) ([]byte, error) {
	return nd.FormatCBOR(a)
}

// ParseCBOR decodes an array written by FormatCBOR.
func ParseCBOR(data []byte) (*Array, error) {
	return nd.ParseCBOR(data)
}

// Configuration

// SetLogger sets the logger for debug events. nil restores the no-op
// logger.
func SetLogger(l *zap.Logger) {
	nd.SetLogger(l)
}

// SetKernelConfig sets how ElwiseMap spreads work over goroutines.
func SetKernelConfig(cfg KernelConfig) {
	nd.SetKernelConfig(cfg)
}

// DefaultKernelConfig returns the CPU-count based default configuration.
func DefaultKernelConfig() KernelConfig {
	return parallel.DefaultConfig()
}
