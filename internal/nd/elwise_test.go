package nd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dynd/internal/ndt"
	"github.com/born-ml/dynd/internal/parallel"
)

func TestElwiseMapBroadcast(t *testing.T) {
	a := mustArray(t, [][]float64{{1}, {2}, {3}})
	b := mustArray(t, []float64{10, 20})

	sum, err := ElwiseMap([]*Array{a, b}, func(args []any) (any, error) {
		return args[0].(float64) + args[1].(float64), nil
	}, ndt.Float32)
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, sum.Shape())
	got, err := AsSlice[float32](sum)
	require.NoError(t, err)
	assert.Equal(t, []float32{11, 21, 12, 22, 13, 23}, got)
}

func TestElwiseMapStrings(t *testing.T) {
	a := mustArray(t, []string{"a", "b", "c"})
	n := mustArray(t, []int{1, 2, 3})

	out, err := ElwiseMap([]*Array{a, n}, func(args []any) (any, error) {
		return fmt.Sprintf("%s%d", args[0], args[1]), nil
	}, ndt.String)
	require.NoError(t, err)
	assert.Equal(t, []any{"a1", "b2", "c3"}, AsGo(out))
}

func TestElwiseMapParallel(t *testing.T) {
	prev := KernelConfig()
	t.Cleanup(func() { SetKernelConfig(prev) })
	SetKernelConfig(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8})

	a, err := Range(0, 1000, 1)
	require.NoError(t, err)
	sq, err := ElwiseMap([]*Array{a}, func(args []any) (any, error) {
		v := args[0].(int64)
		return v * v, nil
	}, ndt.Int64)
	require.NoError(t, err)

	got, err := AsSlice[int64](sq)
	require.NoError(t, err)
	for i, v := range got {
		require.Equal(t, int64(i*i), v)
	}
}

func TestElwiseMapErrors(t *testing.T) {
	a := mustArray(t, []int{1, 2, 3})
	b := mustArray(t, []int{1, 2})
	identity := func(args []any) (any, error) { return args[0], nil }

	_, err := ElwiseMap([]*Array{a, b}, identity, ndt.Int64)
	var berr *BroadcastError
	assert.ErrorAs(t, err, &berr)

	_, err = ElwiseMap(nil, identity, ndt.Int64)
	assert.Error(t, err)

	boom := errors.New("boom")
	_, err = ElwiseMap([]*Array{a}, func(args []any) (any, error) {
		if args[0].(int64) == 2 {
			return nil, boom
		}
		return args[0], nil
	}, ndt.Int64)
	assert.ErrorIs(t, err, boom)

	_, err = ElwiseMap([]*Array{a}, identity, ndt.Int8)
	require.NoError(t, err)
	_, err = ElwiseMap([]*Array{mustArray(t, []int{1000})}, identity, ndt.Int8)
	assert.ErrorIs(t, err, ErrInvalidCast)

	_, err = ElwiseMap([]*Array{a}, identity, ndt.MustParse("2 * int64"))
	assert.ErrorIs(t, err, ErrShape)
}
