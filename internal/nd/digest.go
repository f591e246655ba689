package nd

import (
	"encoding/binary"

	"github.com/zeebo/blake3"

	"github.com/born-ml/dynd/internal/ndt"
)

// Digest returns the BLAKE3 hash of the array's dtype, shape and elements
// in C order. Two arrays with equal type and values hash equally whatever
// their memory layout.
func Digest(a *Array) [32]byte {
	h := blake3.New()
	_, _ = h.Write([]byte(a.DShape()))
	_, _ = h.Write([]byte{0})

	enc := newElementEncoder(a.dtype)
	var b []byte
	n := a.NumElements()
	for k := 0; k < n; k++ {
		b = enc.append(b[:0], a.at(k))
		_, _ = h.Write(b)
	}

	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// elementEncoder produces the canonical bytes of one element: its fixed-size
// slot followed by every string it holds, each prefixed by its length.
// Distinct values of one dtype never encode alike.
type elementEncoder struct {
	dtype   ndt.Type
	scratch *buffer
}

func newElementEncoder(t ndt.Type) *elementEncoder {
	// One scratch element, re-encoded per value so strings encode by content.
	scratch := &buffer{data: make([]byte, t.Size())}
	if slots := t.StringSlots(); slots > 0 {
		scratch.strs = make([]string, slots)
		scratch.assignHandles(0, t, 0)
	}
	return &elementEncoder{dtype: t, scratch: scratch}
}

// append appends the encoding of the canonical value v to dst.
func (e *elementEncoder) append(dst []byte, v any) []byte {
	e.scratch.store(0, e.dtype, v)
	dst = append(dst, e.scratch.data...)
	for _, s := range e.scratch.strs {
		dst = binary.LittleEndian.AppendUint64(dst, uint64(len(s)))
		dst = append(dst, s...)
	}
	return dst
}
