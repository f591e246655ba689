package nd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dynd/internal/ndt"
)

func TestGroupby(t *testing.T) {
	data := mustArray(t, []int{10, 20, 30, 40, 50})
	by := mustArray(t, []string{"b", "a", "b", "c", "a"})

	g, err := Groupby(data, by)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, AsGo(g.Keys))
	require.Len(t, g.Groups, 3)
	assert.Equal(t, []any{int64(20), int64(50)}, AsGo(g.Groups[0]))
	assert.Equal(t, []any{int64(10), int64(30)}, AsGo(g.Groups[1]))
	assert.Equal(t, []any{int64(40)}, AsGo(g.Groups[2]))
}

func TestGroupbyRows(t *testing.T) {
	data := mustArray(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	by := mustArray(t, []int{2, -1, 2})

	g, err := Groupby(data, by)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(-1), int64(2)}, AsGo(g.Keys))
	assert.Equal(t, []any{[]any{3.0, 4.0}}, AsGo(g.Groups[0]))
	assert.Equal(t, []any{[]any{1.0, 2.0}, []any{5.0, 6.0}}, AsGo(g.Groups[1]))
}

func TestGroupbyNaNLast(t *testing.T) {
	data := mustArray(t, []int{1, 2, 3})
	by := mustArray(t, []float64{math.NaN(), 0.5, math.NaN()})

	g, err := Groupby(data, by)
	require.NoError(t, err)
	keys, err := AsSlice[float64](g.Keys)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, 0.5, keys[0])
	assert.True(t, math.IsNaN(keys[1]))
	assert.Equal(t, []any{int64(1), int64(3)}, AsGo(g.Groups[1]))
}

func TestGroupbyStructKeys(t *testing.T) {
	rec := ndt.MustParse("{a : string, b : string}")
	by, err := NewArray([]any{
		map[string]any{"a": "p q", "b": "r"},
		map[string]any{"a": "p", "b": "q r"},
		map[string]any{"a": "p q", "b": "r"},
	}, WithDType(rec))
	require.NoError(t, err)

	g, err := Groupby(mustArray(t, []int{10, 20, 30}), by)
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[string]any{"a": "p", "b": "q r"},
		map[string]any{"a": "p q", "b": "r"},
	}, AsGo(g.Keys))
	require.Len(t, g.Groups, 2)
	assert.Equal(t, []any{int64(20)}, AsGo(g.Groups[0]))
	assert.Equal(t, []any{int64(10), int64(30)}, AsGo(g.Groups[1]))
}

func TestGroupbySignedZero(t *testing.T) {
	g, err := Groupby(mustArray(t, []int{1, 2, 3}), mustArray(t, []float64{0, math.Copysign(0, -1), 1}))
	require.NoError(t, err)
	require.Len(t, g.Groups, 2)
	assert.Equal(t, []any{int64(1), int64(2)}, AsGo(g.Groups[0]))

	c := mustArray(t, []complex128{complex(math.Copysign(0, -1), 1), complex(0, 1)})
	g, err = Groupby(mustArray(t, []int{1, 2}), c)
	require.NoError(t, err)
	assert.Len(t, g.Groups, 1)
}

func TestGroupbyErrors(t *testing.T) {
	data := mustArray(t, []int{1, 2, 3})

	_, err := Groupby(data, mustArray(t, []int{1, 2}))
	assert.ErrorIs(t, err, ErrShape)

	_, err = Groupby(data, mustArray(t, [][]int{{1, 2, 3}}))
	assert.ErrorIs(t, err, ErrShape)

	_, err = Groupby(mustArray(t, 1), mustArray(t, []int{1}))
	assert.ErrorIs(t, err, ErrShape)
}
