//go:build unix

package nd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dynd/internal/ndt"
)

// writeRawFile writes a's bytes to a new file in a temp dir.
func writeRawFile(t *testing.T, a *Array) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteRaw(&buf, a))
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestMemmapRead(t *testing.T) {
	src := mustArray(t, []int32{1, 2, 3, 4, 5})
	path := writeRawFile(t, src)

	a, err := Memmap(path, MemmapDType(ndt.Int32), MemmapAccess(ReadOnly))
	require.NoError(t, err)
	defer func() { require.NoError(t, a.Release()) }()

	assert.Equal(t, "5 * int32", a.DShape())
	assert.Equal(t, ReadOnly, a.Access())
	got, err := AsSlice[int32](a)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3, 4, 5}, got)
	assert.Contains(t, DebugRepr(a), "memmap "+path)
}

func TestMemmapDefaultUint8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bytes.bin")
	require.NoError(t, os.WriteFile(path, []byte{7, 8, 9}, 0o600))

	a, err := Memmap(path)
	require.NoError(t, err)
	assert.Equal(t, "3 * uint8", a.DShape())
	assert.Equal(t, ReadWrite, a.Access())
	require.NoError(t, a.Release())
}

func TestMemmapRange(t *testing.T) {
	src := mustArray(t, []int16{10, 20, 30, 40})
	path := writeRawFile(t, src)

	a, err := Memmap(path, MemmapDType(ndt.Int16), MemmapRange(2, -2), MemmapAccess(ReadOnly))
	require.NoError(t, err)
	got, err := AsSlice[int16](a)
	require.NoError(t, err)
	assert.Equal(t, []int16{20, 30}, got)
	require.NoError(t, a.Release())

	_, err = Memmap(path, MemmapDType(ndt.Int16), MemmapRange(1, 8))
	assert.ErrorIs(t, err, ErrShape, "odd byte count")

	_, err = Memmap(path, MemmapRange(0, 100))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = Memmap(path, MemmapRange(6, 2))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestMemmapWriteThrough(t *testing.T) {
	src, err := Zeros(Shape{4}, WithDType(ndt.Float32))
	require.NoError(t, err)
	path := writeRawFile(t, src)

	a, err := Memmap(path, MemmapDType(ndt.Float32))
	require.NoError(t, err)
	require.NoError(t, a.Assign([]float32{1, 2, 3, 4}))
	require.NoError(t, a.Release())

	b, err := Memmap(path, MemmapDType(ndt.Float32), MemmapAccess(ReadOnly))
	require.NoError(t, err)
	got, err := AsSlice[float32](b)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4}, got)
	assert.ErrorIs(t, b.Assign(0), ErrReadOnly)
	require.NoError(t, b.Release())
}

func TestMemmapViewKeepsMapping(t *testing.T) {
	path := writeRawFile(t, mustArray(t, []uint8{1, 2, 3}))
	a, err := Memmap(path, MemmapAccess(ReadOnly))
	require.NoError(t, err)

	v, err := a.Index(2)
	require.NoError(t, err)
	require.NoError(t, a.Release())
	assert.Equal(t, uint64(3), v.Value())
	require.NoError(t, v.Release())
}

func TestMemmapNestedCopyReleases(t *testing.T) {
	path := writeRawFile(t, mustArray(t, []int32{1, 2, 3}))
	m, err := Memmap(path, MemmapDType(ndt.Int32))
	require.NoError(t, err)
	buf := m.buf

	c, err := NewArray([]any{m, m}, WithDType(ndt.Int64))
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 3}, c.Shape())
	assert.Equal(t, []any{
		[]any{int64(1), int64(2), int64(3)},
		[]any{int64(1), int64(2), int64(3)},
	}, AsGo(c))

	assert.Equal(t, int32(1), buf.refCount.Load())
	require.NoError(t, m.Release())
	assert.Equal(t, int32(0), buf.refCount.Load())
	assert.Nil(t, buf.mapping)
}

func TestMemmapEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	a, err := Memmap(path, MemmapDType(ndt.Float64))
	require.NoError(t, err)
	assert.Equal(t, Shape{0}, a.Shape())
	require.NoError(t, a.Release())
}

func TestMemmapErrors(t *testing.T) {
	_, err := Memmap(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)

	path := writeRawFile(t, mustArray(t, []uint8{1}))
	_, err = Memmap(path, MemmapDType(ndt.String))
	assert.ErrorIs(t, err, ErrInvalidCast)
}

func TestWriteRawStrided(t *testing.T) {
	a := mustArray(t, [][]uint8{{1, 2}, {3, 4}})
	var buf bytes.Buffer
	require.NoError(t, WriteRaw(&buf, Transpose(a)))
	assert.Equal(t, []byte{1, 3, 2, 4}, buf.Bytes())

	assert.ErrorIs(t, WriteRaw(&buf, mustArray(t, "s")), ErrInvalidCast)
}
