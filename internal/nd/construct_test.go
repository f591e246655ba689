package nd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dynd/internal/ndt"
)

func TestNewArrayInference(t *testing.T) {
	tests := []struct {
		name  string
		value any
		dtype ndt.Type
		shape Shape
	}{
		{"int", 3, ndt.Int64, Shape{}},
		{"int32", int32(3), ndt.Int32, Shape{}},
		{"bool", true, ndt.Bool, Shape{}},
		{"float", 1.5, ndt.Float64, Shape{}},
		{"string", "abc", ndt.String, Shape{}},
		{"complex", complex(1, 2), ndt.CFloat64, Shape{}},
		{"ints", []int{1, 2, 3}, ndt.Int64, Shape{3}},
		{"mixed ints and floats", []any{1, 2.5}, ndt.Float64, Shape{2}},
		{"bool and int", []any{true, int8(3)}, ndt.Int8, Shape{2}},
		{"nested", [][]float32{{1, 2}, {3, 4}, {5, 6}}, ndt.Float32, Shape{3, 2}},
		{"empty", []any{}, ndt.Float64, Shape{0}},
		{"strings", []string{"a", "bc"}, ndt.String, Shape{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustArray(t, tt.value)
			assert.True(t, tt.dtype.Equal(a.DType()), "dtype %s, want %s", a.DType(), tt.dtype)
			assert.Equal(t, tt.shape, a.Shape())
		})
	}
}

func TestNewArrayExplicitDType(t *testing.T) {
	a := mustArray(t, []int{1, 2, 3}, WithDType(ndt.Int16))
	assert.Equal(t, "3 * int16", a.DShape())
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, AsGo(a))

	// Trailing dimensions may come from the dtype.
	b := mustArray(t, [][]int{{1, 2}, {3, 4}}, WithDType(ndt.MustParse("2 * int32")))
	assert.Equal(t, Shape{2, 2}, b.Shape())
	assert.True(t, ndt.Int32.Equal(b.DType()))

	_, err := NewArray([][]int{{1, 2, 3}}, WithDType(ndt.MustParse("2 * int32")))
	assert.ErrorIs(t, err, ErrShape)
}

func TestNewArrayStruct(t *testing.T) {
	rec := ndt.MustParse("{x : string, y : int32}")

	scalar := mustArray(t, []any{"abc", 3}, WithDType(rec))
	assert.Equal(t, 0, scalar.NDim())
	assert.Equal(t, map[string]any{"x": "abc", "y": int64(3)}, AsGo(scalar))

	rows := mustArray(t, []any{
		[]any{"a", 1},
		map[string]any{"y": 2, "x": "b"},
	}, WithDType(rec))
	assert.Equal(t, Shape{2}, rows.Shape())
	assert.Equal(t, []any{
		map[string]any{"x": "a", "y": int64(1)},
		map[string]any{"x": "b", "y": int64(2)},
	}, AsGo(rows))

	_, err := NewArray(map[string]any{"x": "a"}, WithDType(rec))
	assert.ErrorIs(t, err, ErrInvalidCast)
}

func TestNewArrayErrors(t *testing.T) {
	_, err := NewArray([]any{[]int{1, 2}, []int{3}})
	assert.ErrorIs(t, err, ErrShape, "ragged")

	_, err = NewArray([]any{"a", 1})
	assert.ErrorIs(t, err, ErrInvalidCast, "no common type")

	_, err = NewArray(300, WithDType(ndt.Uint8))
	assert.ErrorIs(t, err, ErrInvalidCast, "out of range")

	_, err = NewArray(1.5, WithDType(ndt.Int32))
	assert.ErrorIs(t, err, ErrInvalidCast, "fractional")

	_, err = NewArray(-1, WithDType(ndt.Uint32))
	assert.ErrorIs(t, err, ErrInvalidCast, "negative unsigned")

	_, err = NewArray(struct{}{})
	assert.ErrorIs(t, err, ErrInvalidCast, "unsupported Go type")
}

func TestNewArrayCopiesArrays(t *testing.T) {
	src := mustArray(t, []int{1, 2, 3})
	dst := mustArray(t, src, WithDType(ndt.Float32))
	require.NoError(t, src.Assign(0))

	got, err := AsSlice[float32](dst)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, got)
}

func TestAssign(t *testing.T) {
	a, err := Zeros(Shape{2, 3}, WithDType(ndt.Int32))
	require.NoError(t, err)

	require.NoError(t, a.Assign([]int{1, 2, 3}))
	assert.Equal(t, []any{
		[]any{int64(1), int64(2), int64(3)},
		[]any{int64(1), int64(2), int64(3)},
	}, AsGo(a))

	row, err := a.Index(1)
	require.NoError(t, err)
	require.NoError(t, row.Assign(7))
	got, err := AsSlice[int32](a)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3, 7, 7, 7}, got)

	var berr *BroadcastError
	err = a.Assign([]int{1, 2})
	assert.ErrorAs(t, err, &berr)

	ro := mustArray(t, 1, WithAccess(ReadOnly))
	assert.ErrorIs(t, ro.Assign(2), ErrReadOnly)
}

func TestIndex(t *testing.T) {
	a := mustArray(t, [][]int{{1, 2, 3}, {4, 5, 6}})

	x, err := a.Index(-1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), x.Value())

	row, err := a.Index(0)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, AsGo(row))

	_, err = a.Index(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = a.Index(0, 0, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestRelease(t *testing.T) {
	a := mustArray(t, []int{1, 2})
	v, err := a.Index(0)
	require.NoError(t, err)
	assert.True(t, a.buf.isShared())

	require.NoError(t, v.Release())
	assert.False(t, a.buf.isShared())
	require.NoError(t, v.Release(), "second release is a no-op")
	require.NoError(t, a.Release())
}
