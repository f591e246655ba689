package nd

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/fxamacker/cbor/v2"

	"github.com/born-ml/dynd/internal/ndt"
)

// encMode uses Core Deterministic Encoding: the same array always produces
// identical bytes.
var encMode cbor.EncMode

// decMode decodes untyped maps as map[string]any so records convert like
// JSON objects.
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("nd: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("nd: CBOR decoder initialization failed: " + err.Error())
	}
}

// cborEnvelope is the self-describing CBOR form of an array.
type cborEnvelope struct {
	Type string `cbor:"type"`
	Data any    `cbor:"data"`
}

// FormatCBOR encodes the array with its full type as a CBOR map
// {"type": datashape, "data": nested values}. Complex values are encoded as
// strings like "(1+2i)"; struct records as maps.
func FormatCBOR(a *Array) ([]byte, error) {
	env := cborEnvelope{
		Type: a.DShape(),
		Data: a.cborTree(0, a.offset),
	}
	return encMode.Marshal(env)
}

// ParseCBOR decodes an array written by FormatCBOR.
func ParseCBOR(data []byte) (*Array, error) {
	var env cborEnvelope
	if err := decMode.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parsing cbor: %w", err)
	}
	t, err := ndt.Parse(env.Type)
	if err != nil {
		return nil, fmt.Errorf("parsing cbor: %w", err)
	}
	a, err := fromValue(env.Data, options{dtype: t})
	if err != nil {
		return nil, fmt.Errorf("parsing cbor as %s: %w", t, err)
	}
	return a, nil
}

func (a *Array) cborTree(level, off int) any {
	if level == len(a.shape) {
		return cborValue(a.buf.load(off, a.dtype), a.dtype)
	}
	out := make([]any, a.shape[level])
	for i := range out {
		out[i] = a.cborTree(level+1, off+i*a.strides[level])
	}
	return out
}

func cborValue(v any, t ndt.Type) any {
	switch t.Kind() {
	case ndt.ComplexKind:
		return strconv.FormatComplex(v.(complex128), 'g', -1, 128)
	case ndt.StructKind:
		vals := v.([]any)
		m := make(map[string]any, len(vals))
		for i, fv := range vals {
			f := t.Field(i)
			m[f.Name] = cborValue(fv, f.Type)
		}
		return m
	case ndt.DimKind:
		vals := v.([]any)
		out := make([]any, len(vals))
		for i, ev := range vals {
			out[i] = cborValue(ev, t.Elem())
		}
		return out
	default:
		return v
	}
}
