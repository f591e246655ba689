// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nd provides dynamically typed n-dimensional arrays.
//
// # Overview
//
// An Array is a strided view of typed elements in a shared, reference
// counted buffer. Its element type (dtype) comes from package ndt and is
// chosen at run time, so one Array type holds int32 matrices, float16
// vectors or arrays of {name : string, score : float64} records.
//
//   - Construction from Go values with dtype inference (NewArray)
//   - Creation helpers (Zeros, Ones, Full, Empty, Range, Linspace)
//   - Memory-mapped files (Memmap)
//   - Zero-copy views (View, Squeeze, Transpose, Index)
//   - Broadcasting element-wise maps (ElwiseMap)
//   - Record helpers (Fields, AddComputedFields, Groupby)
//   - JSON and CBOR formats (ParseJSON, FormatJSON, ParseCBOR, FormatCBOR)
//
// # Basic Usage
//
//	a, err := nd.NewArray([][]int{{1, 2, 3}, {4, 5, 6}})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(nd.DShapeOf(a)) // 2 * 3 * int64
//
//	row, _ := a.Index(-1)
//	fmt.Println(nd.AsGo(row)) // [4 5 6]
//
// # Scalars as indices and conditions
//
// A 0-d array of integer dtype can index Go slices through At and SliceOf.
// Bool, float, complex, string and struct scalars are rejected with
// ErrIndexType.
//
//	idx := nd.Must(nd.NewArray(-1, nd.WithDType(ndt.Int8)))
//	v, _ := nd.At([]string{"a", "b", "c"}, idx) // "c"
//
// (*Array).Bool gives the truth value of a scalar. Arrays with dimensions
// and struct scalars fail with ErrAmbiguousTruth.
//
// # Concurrency
//
// Arrays may be read from many goroutines. Writes (Assign) to overlapping
// views need external synchronization. ElwiseMap splits large inputs over
// goroutines according to SetKernelConfig.
package nd
