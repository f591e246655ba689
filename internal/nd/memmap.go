package nd

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/born-ml/dynd/internal/ndt"
)

// mapping is a memory-mapped file region backing a buffer.
type mapping struct {
	path   string
	file   *os.File
	mapped []byte // Whole mapped file
	region []byte // Bytes visible to the array
}

func (m *mapping) close() error {
	var err error
	if m.mapped != nil {
		err = munmapFile(m.mapped)
		m.mapped = nil
	}
	if cerr := m.file.Close(); err == nil {
		err = cerr
	}
	m.region = nil
	return err
}

// MemmapOption configures Memmap.
type MemmapOption func(*memmapOptions)

type memmapOptions struct {
	dtype      ndt.Type
	begin, end int64
	endSet     bool
	access     Access
}

// MemmapDType sets the element type. Default uint8.
func MemmapDType(t ndt.Type) MemmapOption {
	return func(o *memmapOptions) { o.dtype = t }
}

// MemmapRange restricts the mapping to bytes [begin, end) of the file.
// Negative offsets count from the end of the file.
func MemmapRange(begin, end int64) MemmapOption {
	return func(o *memmapOptions) {
		o.begin, o.end, o.endSet = begin, end, true
	}
}

// MemmapAccess sets the access level. Default ReadWrite, which writes
// through to the file.
func MemmapAccess(a Access) MemmapOption {
	return func(o *memmapOptions) { o.access = a }
}

// Memmap maps a file of raw little-endian elements as a 1-D array.
// The mapping is released when the last array referencing it is released.
//
// Example:
//
//	a, err := nd.Memmap("weights.bin", nd.MemmapDType(ndt.Float32), nd.MemmapAccess(nd.ReadOnly))
//	defer a.Release()
func Memmap(path string, opts ...MemmapOption) (*Array, error) {
	o := memmapOptions{dtype: ndt.Uint8, access: ReadWrite}
	for _, opt := range opts {
		opt(&o)
	}
	if o.dtype.IsZero() || o.dtype.HasStrings() {
		return nil, fmt.Errorf("%w: cannot memory-map dtype %s", ErrInvalidCast, o.dtype)
	}

	flag := os.O_RDWR
	if o.access != ReadWrite {
		flag = os.O_RDONLY
	}
	//nolint:gosec // G304: mapping a caller-chosen file is the point
	file, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	size := stat.Size()
	begin, end := o.begin, size
	if o.endSet {
		end = o.end
	}
	if begin < 0 {
		begin += size
	}
	if end < 0 {
		end += size
	}
	if begin < 0 || end > size || begin > end {
		_ = file.Close()
		return nil, fmt.Errorf("%w: byte range [%d, %d) outside file of %d bytes", ErrIndexOutOfRange, o.begin, o.end, size)
	}
	itemSize := int64(o.dtype.Size())
	if (end-begin)%itemSize != 0 {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %s size %d", ErrShape, end-begin, o.dtype, itemSize)
	}

	m := &mapping{path: path, file: file}
	if size > 0 {
		m.mapped, err = mmapFile(file, size, o.access == ReadWrite)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("mmap failed: %w", err)
		}
		m.region = m.mapped[begin:end]
	}
	logger().Debug("mapped file",
		zap.String("path", path),
		zap.Int64("begin", begin),
		zap.Int64("end", end),
		zap.Stringer("dtype", o.dtype),
		zap.Stringer("access", o.access))

	n := int((end - begin) / itemSize)
	dims, elem := o.dtype.Split()
	shape := append(Shape{n}, dims...)
	buf := &buffer{data: m.region, mapping: m}
	buf.refCount.Store(1)
	return &Array{
		buf:     buf,
		dtype:   elem,
		shape:   shape,
		strides: shape.cStrides(elem.Size()),
		access:  o.access,
	}, nil
}

// WriteRaw writes the array's elements to w as C-order little-endian bytes,
// the layout Memmap reads.
func WriteRaw(w io.Writer, a *Array) error {
	if a.dtype.HasStrings() {
		return fmt.Errorf("%w: cannot write raw %s", ErrInvalidCast, a.dtype)
	}
	if a.IsCContiguous() {
		start := a.offset
		_, err := w.Write(a.buf.data[start : start+a.NumElements()*a.dtype.Size()])
		return err
	}
	size := a.dtype.Size()
	n := a.NumElements()
	for k := 0; k < n; k++ {
		off := a.offsetOf(k)
		if _, err := w.Write(a.buf.data[off : off+size]); err != nil {
			return err
		}
	}
	return nil
}
