// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nd_test

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dynd/nd"
	"github.com/born-ml/dynd/ndt"
)

var intTypes = []ndt.Type{
	ndt.Int8, ndt.Int16, ndt.Int32, ndt.Int64,
	ndt.Uint8, ndt.Uint16, ndt.Uint32, ndt.Uint64,
}

func TestIndex(t *testing.T) {
	seq := []int{1, 2, 3, 4, 5, 6}

	// Every signed integer type works as a negative index.
	for _, typ := range intTypes[:4] {
		v, err := nd.At(seq, nd.Must(nd.NewArray(-1, nd.WithDType(typ))))
		require.NoError(t, err, typ.String())
		assert.Equal(t, 6, v, typ.String())
	}
	for _, typ := range intTypes {
		v, err := nd.At(seq, nd.Must(nd.NewArray(0, nd.WithDType(typ))))
		require.NoError(t, err, typ.String())
		assert.Equal(t, 1, v, typ.String())
	}

	v, err := nd.At(seq, nd.Must(nd.NewArray(0)))
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	s, err := nd.SliceOf(seq, nd.Must(nd.NewArray(1)), nd.Must(nd.NewArray(3)))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, s)
}

func TestIndexErrors(t *testing.T) {
	seq := []int{1, 2, 3, 4, 5, 6}

	for _, v := range []any{true, false} {
		_, err := nd.At(seq, nd.Must(nd.NewArray(v)))
		assert.ErrorIs(t, err, nd.ErrIndexType)
	}
	for _, typ := range []ndt.Type{ndt.Float32, ndt.Float64} {
		_, err := nd.At(seq, nd.Must(nd.NewArray(0, nd.WithDType(typ))))
		assert.ErrorIs(t, err, nd.ErrIndexType, typ.String())
	}
	_, err := nd.At(seq, nd.Must(nd.NewArray(10)))
	assert.ErrorIs(t, err, nd.ErrIndexOutOfRange)
}

func TestNonzero(t *testing.T) {
	truth := func(v any, typ ndt.Type) bool {
		t.Helper()
		b, err := nd.Must(nd.NewArray(v, nd.WithDType(typ))).Bool()
		require.NoError(t, err)
		return b
	}

	assert.False(t, truth(false, ndt.Bool))
	assert.True(t, truth(true, ndt.Bool))
	for _, typ := range intTypes {
		assert.False(t, truth(0, typ), typ.String())
		assert.True(t, truth(1, typ), typ.String())
	}
	assert.False(t, truth(0, ndt.Int64))
	assert.True(t, truth(100, ndt.Uint8))
	for _, typ := range []ndt.Type{ndt.Float32, ndt.Float64} {
		assert.False(t, truth(0.0, typ), typ.String())
		assert.True(t, truth(1.0, typ), typ.String())
	}
	for _, typ := range []ndt.Type{ndt.CFloat32, ndt.CFloat64} {
		assert.False(t, truth(complex(0, 0), typ), typ.String())
		assert.True(t, truth(complex(100, 10), typ), typ.String())
		assert.True(t, truth(complex(0, 1), typ), typ.String())
	}
	assert.False(t, truth("", ndt.String))
	assert.True(t, truth(" ", ndt.String))
	assert.True(t, truth("test", ndt.String))
}

func TestNonzeroErrors(t *testing.T) {
	rec := ndt.MustParse("{x : string; y : int32}")
	for name, a := range map[string]*nd.Array{
		"one element":   nd.Must(nd.NewArray([]int{0})),
		"three ints":    nd.Must(nd.NewArray([]int{1, 2, 3})),
		"struct scalar": nd.Must(nd.NewArray([]any{"abc", 3}, nd.WithDType(rec))),
	} {
		_, err := a.Bool()
		assert.ErrorIs(t, err, nd.ErrAmbiguousTruth, name)
	}
}

func TestIntrospection(t *testing.T) {
	a := nd.Must(nd.NewArray([][]float32{{1, 2, 3}, {4, 5, 6}}))
	assert.Equal(t, "2 * 3 * float32", nd.DShapeOf(a))
	assert.True(t, ndt.Float32.Equal(nd.DTypeOf(a)))
	assert.True(t, ndt.MustParse("2 * 3 * float32").Equal(nd.TypeOf(a)))
	assert.Equal(t, 2, nd.NDimOf(a))
	assert.Equal(t, nd.Shape{2, 3}, nd.ShapeOf(a))
	assert.True(t, nd.IsCContiguous(a))
	assert.True(t, nd.IsFContiguous(nd.Transpose(a)))
}

func TestJSONRoundTrip(t *testing.T) {
	typ := ndt.MustParse("2 * {name : string, score : float64}")
	a, err := nd.ParseJSON(typ, []byte(`[{"name": "x", "score": 1}, {"name": "y", "score": "inf"}]`))
	require.NoError(t, err)

	out, err := nd.FormatJSON(a)
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"x","score":1},{"name":"y","score":"inf"}]`, string(out))

	cb, err := nd.FormatCBOR(a)
	require.NoError(t, err)
	back, err := nd.ParseCBOR(cb)
	require.NoError(t, err)
	assert.Equal(t, nd.Digest(a), nd.Digest(back))
}

func TestElwiseMapAndGroupby(t *testing.T) {
	prev := nd.DefaultKernelConfig()
	t.Cleanup(func() { nd.SetKernelConfig(prev) })
	nd.SetKernelConfig(nd.KernelConfig{Enabled: true, NumWorkers: runtime.NumCPU(), MinChunkSize: 1})

	x := nd.Must(nd.Linspace(0, 1, 3))
	scaled, err := nd.ElwiseMap([]*nd.Array{x, nd.Must(nd.NewArray(2.0))}, func(args []any) (any, error) {
		return args[0].(float64) * args[1].(float64), nil
	}, ndt.Float64)
	require.NoError(t, err)
	assert.Equal(t, []any{0.0, 1.0, 2.0}, nd.AsGo(scaled))

	g, err := nd.Groupby(nd.Must(nd.Range(0, 4, 1)), nd.Must(nd.NewArray([]bool{true, false, true, false})))
	require.NoError(t, err)
	assert.Equal(t, []any{false, true}, nd.AsGo(g.Keys))
	assert.Equal(t, []any{int64(1), int64(3)}, nd.AsGo(g.Groups[0]))
}

func TestMemmap(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("memory mapping is implemented for unix only")
	}
	var buf bytes.Buffer
	require.NoError(t, nd.WriteRaw(&buf, nd.Must(nd.NewArray([]float64{1, nd.Inf, -2}))))
	path := filepath.Join(t.TempDir(), "f64.bin")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	a, err := nd.Memmap(path, nd.MemmapDType(ndt.Float64), nd.MemmapAccess(nd.ReadOnly))
	require.NoError(t, err)
	got, err := nd.AsSlice[float64](a)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got[0])
	assert.True(t, math.IsInf(got[1], 1))
	assert.Equal(t, -2.0, got[2])
	require.NoError(t, a.Release())
}

func TestMustPanics(t *testing.T) {
	assert.Panics(t, func() {
		nd.Must(nd.NewArray(1.5, nd.WithDType(ndt.Int8)))
	})
}
