package nd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/tidwall/jsonc"
	"go.uber.org/zap"

	"github.com/born-ml/dynd/internal/ndt"
)

// ParseJSON parses JSON (or JSONC: comments and trailing commas are
// allowed) into an array of type t. When t is the zero Type the dtype is
// inferred as in NewArray. Complex values are strings like "(1+2i)" and
// floats may be given as "nan", "inf" or "-inf".
//
// Example:
//
//	a, err := nd.ParseJSON(ndt.MustParse("3 * int32"), []byte(`[1, 2, 3] // ids`))
func ParseJSON(t ndt.Type, data []byte) (*Array, error) {
	stripped := jsonc.ToJSON(data)

	dec := json.NewDecoder(bytes.NewReader(stripped))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		logger().Debug("json parse failed", zap.Error(err))
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing json: unexpected data after the top-level value")
	}

	a, err := fromValue(v, options{dtype: t})
	if err != nil {
		logger().Debug("json does not fit type", zap.Stringer("type", t), zap.Error(err))
		return nil, fmt.Errorf("parsing json as %s: %w", t, err)
	}
	return a, nil
}

// FormatJSON formats the array as compact JSON. Struct fields keep their
// declared order. The output parses back with ParseJSON(TypeOf(a), ...).
func FormatJSON(a *Array) ([]byte, error) {
	var buf bytes.Buffer
	if err := a.writeJSON(&buf, 0, a.offset); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a *Array) writeJSON(buf *bytes.Buffer, level, off int) error {
	if level == len(a.shape) {
		return writeJSONValue(buf, a.buf.load(off, a.dtype), a.dtype)
	}
	buf.WriteByte('[')
	for i := 0; i < a.shape[level]; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := a.writeJSON(buf, level+1, off+i*a.strides[level]); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeJSONValue(buf *bytes.Buffer, v any, t ndt.Type) error {
	switch t.Kind() {
	case ndt.BoolKind:
		buf.WriteString(strconv.FormatBool(v.(bool)))
	case ndt.IntKind:
		buf.WriteString(strconv.FormatInt(v.(int64), 10))
	case ndt.UintKind:
		buf.WriteString(strconv.FormatUint(v.(uint64), 10))
	case ndt.FloatKind:
		buf.WriteString(formatFloatJSON(v.(float64), floatBits(t)))
	case ndt.ComplexKind:
		bits := 128
		if t.ID() == ndt.Complex64ID {
			bits = 64
		}
		buf.WriteString(strconv.Quote(strconv.FormatComplex(v.(complex128), 'g', -1, bits)))
	case ndt.StringKind:
		enc, err := json.Marshal(v.(string))
		if err != nil {
			return err
		}
		buf.Write(enc)
	case ndt.StructKind:
		vals := v.([]any)
		buf.WriteByte('{')
		for i, fv := range vals {
			if i > 0 {
				buf.WriteByte(',')
			}
			f := t.Field(i)
			name, err := json.Marshal(f.Name)
			if err != nil {
				return err
			}
			buf.Write(name)
			buf.WriteByte(':')
			if err := writeJSONValue(buf, fv, f.Type); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case ndt.DimKind:
		vals := v.([]any)
		buf.WriteByte('[')
		for i, ev := range vals {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONValue(buf, ev, t.Elem()); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("%w: cannot format %s as json", ErrInvalidCast, t)
	}
	return nil
}

// floatBits returns the precision used to print a float dtype.
func floatBits(t ndt.Type) int {
	if t.ID() == ndt.Float64ID {
		return 64
	}
	return 32
}

func formatFloatJSON(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return `"nan"`
	case math.IsInf(f, 1):
		return `"inf"`
	case math.IsInf(f, -1):
		return `"-inf"`
	default:
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
}
