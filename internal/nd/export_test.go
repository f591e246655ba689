package nd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/born-ml/dynd/internal/ndt"
)

func TestAsGo(t *testing.T) {
	assert.Equal(t, int64(3), AsGo(mustArray(t, 3)))
	assert.Equal(t, "s", AsGo(mustArray(t, "s")))
	assert.Equal(t, []any{uint64(1), uint64(2)}, AsGo(mustArray(t, []uint16{1, 2})))
	assert.Equal(t, []any{[]any{true}, []any{false}}, AsGo(mustArray(t, [][]bool{{true}, {false}})))
}

func TestAsSlice(t *testing.T) {
	i8, err := AsSlice[int8](mustArray(t, []int8{-1, 2}))
	require.NoError(t, err)
	assert.Equal(t, []int8{-1, 2}, i8)

	h, err := AsSlice[float16.Float16](mustArray(t, []float64{0.5, 2}, WithDType(ndt.MustParse("2 * float16"))))
	require.NoError(t, err)
	assert.Equal(t, []float16.Float16{float16.Fromfloat32(0.5), float16.Fromfloat32(2)}, h)

	c, err := AsSlice[complex64](mustArray(t, []complex64{complex(1, 2)}))
	require.NoError(t, err)
	assert.Equal(t, []complex64{complex(1, 2)}, c)

	s, err := AsSlice[string](mustArray(t, [][]string{{"a", "b"}, {"c", "d"}}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, s)

	_, err = AsSlice[int32](mustArray(t, []int64{1}))
	assert.ErrorIs(t, err, ErrInvalidCast)
}

func TestDigest(t *testing.T) {
	a := mustArray(t, [][]int32{{1, 2}, {3, 4}})
	b := mustArray(t, [][]int32{{1, 2}, {3, 4}})
	assert.Equal(t, Digest(a), Digest(b))

	// Layout does not matter, only C-order content.
	ft := Transpose(mustArray(t, [][]int32{{1, 3}, {2, 4}}))
	assert.Equal(t, Digest(a), Digest(ft))

	c := mustArray(t, [][]int32{{1, 2}, {3, 5}})
	assert.NotEqual(t, Digest(a), Digest(c))

	// Same bytes, different type.
	d := mustArray(t, []int32{1, 2, 3, 4})
	assert.NotEqual(t, Digest(a), Digest(d))

	s1 := mustArray(t, []string{"ab", "c"})
	s2 := mustArray(t, []string{"a", "bc"})
	assert.NotEqual(t, Digest(s1), Digest(s2))
}

func TestDebugRepr(t *testing.T) {
	a := mustArray(t, []int16{1, 2, 3})
	repr := DebugRepr(a)

	assert.True(t, strings.HasPrefix(repr, "------ array\n"))
	for _, want := range []string{
		" type: 3 * int16\n",
		" dtype: int16 (int, 2 bytes)\n",
		" shape: (3,)\n",
		" strides: [2]\n",
		" offset: 0\n",
		" access: readwrite\n",
		" contiguous: c=true f=true\n",
		" buffer: heap, 6 bytes, 0 strings, shared=false\n",
		" value: [1,2,3]\n",
	} {
		assert.Contains(t, repr, want)
	}

	require.NoError(t, a.Release())
	assert.Contains(t, DebugRepr(a), " buffer: released\n")
}
