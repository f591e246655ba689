package nd

import (
	"encoding/binary"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/born-ml/dynd/internal/ndt"
)

// buffer is the reference-counted storage shared by an array and its views.
//
// Fixed-size element bytes live in data. A string slot in data holds a
// little-endian uint64 handle into strs; handles are assigned once at
// allocation, so writers never append to strs and distinct elements never
// share a handle.
type buffer struct {
	data     []byte
	strs     []string
	refCount atomic.Int32
	mu       sync.Mutex // For safe deallocation
	mapping  *mapping   // Non-nil when data is a memory map
}

// newBuffer allocates a zeroed buffer for n values of dtype and assigns
// string handles in C order.
func newBuffer(n int, dtype ndt.Type) *buffer {
	buf := &buffer{
		data: make([]byte, n*dtype.Size()),
	}
	if slots := dtype.StringSlots(); slots > 0 {
		buf.strs = make([]string, n*slots)
		next := uint64(0)
		for i := 0; i < n; i++ {
			next = buf.assignHandles(i*dtype.Size(), dtype, next)
		}
	}
	buf.refCount.Store(1)
	return buf
}

// assignHandles writes sequential string handles into every string slot of
// the value at off and returns the next free handle.
func (b *buffer) assignHandles(off int, t ndt.Type, next uint64) uint64 {
	switch t.Kind() {
	case ndt.StringKind:
		binary.LittleEndian.PutUint64(b.data[off:], next)
		return next + 1
	case ndt.StructKind:
		for i := 0; i < t.NumFields(); i++ {
			f := t.Field(i)
			next = b.assignHandles(off+f.Offset, f.Type, next)
		}
		return next
	case ndt.DimKind:
		elem := t.Elem()
		for i := 0; i < t.Dim(); i++ {
			next = b.assignHandles(off+i*elem.Size(), elem, next)
		}
		return next
	default:
		return next
	}
}

// addRef increments the reference count (for views).
func (b *buffer) addRef() {
	b.refCount.Add(1)
}

// release decrements the reference count and frees the storage at zero.
func (b *buffer) release() error {
	if b.refCount.Add(-1) != 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	var err error
	if b.mapping != nil {
		logger().Debug("unmapping array buffer", zap.String("path", b.mapping.path), zap.Int("bytes", len(b.mapping.region)))
		err = b.mapping.close()
		b.mapping = nil
	}
	b.data = nil
	b.strs = nil
	return err
}

// isShared returns true if more than one array references this buffer.
func (b *buffer) isShared() bool {
	return b.refCount.Load() > 1
}
