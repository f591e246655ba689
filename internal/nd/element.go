package nd

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/x448/float16"

	"github.com/born-ml/dynd/internal/ndt"
)

// Canonical Go representations of element values, one per kind:
//
//	bool    → bool
//	int     → int64
//	uint    → uint64
//	float   → float64
//	complex → complex128
//	string  → string
//	struct  → []any (field order)
//	dim     → []any
//
// load and store only ever see canonical values; convertValue produces them.

// load decodes the value of type t stored at byte offset off.
//
//nolint:gocyclo,cyclop // One case per type ID
func (b *buffer) load(off int, t ndt.Type) any {
	d := b.data[off:]
	le := binary.LittleEndian
	switch t.ID() {
	case ndt.BoolID:
		return d[0] != 0
	case ndt.Int8ID:
		return int64(int8(d[0]))
	case ndt.Int16ID:
		return int64(int16(le.Uint16(d)))
	case ndt.Int32ID:
		return int64(int32(le.Uint32(d)))
	case ndt.Int64ID:
		return int64(le.Uint64(d))
	case ndt.Uint8ID:
		return uint64(d[0])
	case ndt.Uint16ID:
		return uint64(le.Uint16(d))
	case ndt.Uint32ID:
		return uint64(le.Uint32(d))
	case ndt.Uint64ID:
		return le.Uint64(d)
	case ndt.Float16ID:
		return float64(float16.Frombits(le.Uint16(d)).Float32())
	case ndt.Float32ID:
		return float64(math.Float32frombits(le.Uint32(d)))
	case ndt.Float64ID:
		return math.Float64frombits(le.Uint64(d))
	case ndt.Complex64ID:
		re := math.Float32frombits(le.Uint32(d))
		im := math.Float32frombits(le.Uint32(d[4:]))
		return complex(float64(re), float64(im))
	case ndt.Complex128ID:
		re := math.Float64frombits(le.Uint64(d))
		im := math.Float64frombits(le.Uint64(d[8:]))
		return complex(re, im)
	case ndt.StringID:
		return b.strs[le.Uint64(d)]
	case ndt.StructID:
		out := make([]any, t.NumFields())
		for i := range out {
			f := t.Field(i)
			out[i] = b.load(off+f.Offset, f.Type)
		}
		return out
	case ndt.FixedDimID:
		elem := t.Elem()
		out := make([]any, t.Dim())
		for i := range out {
			out[i] = b.load(off+i*elem.Size(), elem)
		}
		return out
	default:
		panic(fmt.Sprintf("nd: load of unsupported type %s", t))
	}
}

// store encodes the canonical value v of type t at byte offset off.
//
//nolint:gocyclo,cyclop // One case per type ID
func (b *buffer) store(off int, t ndt.Type, v any) {
	d := b.data[off:]
	le := binary.LittleEndian
	switch t.ID() {
	case ndt.BoolID:
		if v.(bool) {
			d[0] = 1
		} else {
			d[0] = 0
		}
	case ndt.Int8ID:
		d[0] = byte(int8(v.(int64)))
	case ndt.Int16ID:
		le.PutUint16(d, uint16(int16(v.(int64))))
	case ndt.Int32ID:
		le.PutUint32(d, uint32(int32(v.(int64))))
	case ndt.Int64ID:
		le.PutUint64(d, uint64(v.(int64)))
	case ndt.Uint8ID:
		d[0] = byte(v.(uint64))
	case ndt.Uint16ID:
		le.PutUint16(d, uint16(v.(uint64)))
	case ndt.Uint32ID:
		le.PutUint32(d, uint32(v.(uint64)))
	case ndt.Uint64ID:
		le.PutUint64(d, v.(uint64))
	case ndt.Float16ID:
		le.PutUint16(d, float16.Fromfloat32(float32(v.(float64))).Bits())
	case ndt.Float32ID:
		le.PutUint32(d, math.Float32bits(float32(v.(float64))))
	case ndt.Float64ID:
		le.PutUint64(d, math.Float64bits(v.(float64)))
	case ndt.Complex64ID:
		c := v.(complex128)
		le.PutUint32(d, math.Float32bits(float32(real(c))))
		le.PutUint32(d[4:], math.Float32bits(float32(imag(c))))
	case ndt.Complex128ID:
		c := v.(complex128)
		le.PutUint64(d, math.Float64bits(real(c)))
		le.PutUint64(d[8:], math.Float64bits(imag(c)))
	case ndt.StringID:
		b.strs[le.Uint64(d)] = v.(string)
	case ndt.StructID:
		vals := v.([]any)
		for i := 0; i < t.NumFields(); i++ {
			f := t.Field(i)
			b.store(off+f.Offset, f.Type, vals[i])
		}
	case ndt.FixedDimID:
		elem := t.Elem()
		vals := v.([]any)
		for i := 0; i < t.Dim(); i++ {
			b.store(off+i*elem.Size(), elem, vals[i])
		}
	default:
		panic(fmt.Sprintf("nd: store of unsupported type %s", t))
	}
}
