package nd

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/born-ml/dynd/internal/ndt"
)

// Groups is the result of Groupby.
type Groups struct {
	Keys   *Array   // 1-D, sorted ascending, one entry per group
	Groups []*Array // Rows of data for the key at the same position
}

// Groupby splits data along its first dimension by the values of by.
// by must be 1-D with one entry per row of data. Each group keeps its rows
// in their original order.
func Groupby(data, by *Array) (*Groups, error) {
	if len(by.shape) != 1 {
		return nil, fmt.Errorf("%w: groupby keys must be 1-D, got shape %v", ErrShape, by.shape)
	}
	if len(data.shape) == 0 || data.shape[0] != by.shape[0] {
		return nil, fmt.Errorf("%w: groupby data shape %v does not match %d keys", ErrShape, data.shape, by.shape[0])
	}

	type group struct {
		key  any
		rows []int
	}
	byKey := make(map[string]*group)
	enc := newElementEncoder(by.dtype)
	for i := 0; i < by.shape[0]; i++ {
		k := by.at(i)
		id := string(enc.append(nil, keyValue(k, by.dtype)))
		g, ok := byKey[id]
		if !ok {
			g = &group{key: k}
			byKey[id] = g
		}
		g.rows = append(g.rows, i)
	}

	ordered := make([]*group, 0, len(byKey))
	for _, g := range byKey {
		ordered = append(ordered, g)
	}
	slices.SortFunc(ordered, func(x, y *group) int {
		return compareValues(x.key, y.key, by.dtype)
	})

	keyVals := make([]any, len(ordered))
	out := &Groups{Groups: make([]*Array, len(ordered))}
	rowShape := data.shape[1:]
	for gi, g := range ordered {
		keyVals[gi] = g.key
		grp, err := newArray(append(Shape{len(g.rows)}, rowShape...), data.dtype, ReadWrite)
		if err != nil {
			return nil, err
		}
		per := rowShape.NumElements()
		size := data.dtype.Size()
		k := 0
		for _, r := range g.rows {
			row, err := data.Index(r)
			if err != nil {
				return nil, err
			}
			for j := 0; j < per; j++ {
				grp.buf.store(k*size, grp.dtype, row.at(j))
				k++
			}
			_ = row.Release()
		}
		out.Groups[gi] = grp
	}

	keys, err := newArray(Shape{len(keyVals)}, by.dtype, ReadWrite)
	if err != nil {
		return nil, err
	}
	if err := keys.fill(keyVals, 1); err != nil {
		return nil, err
	}
	out.Keys = keys
	return out, nil
}

// keyValue maps values that compare equal to one representative: -0 becomes
// +0 and every NaN the same NaN.
func keyValue(v any, t ndt.Type) any {
	switch t.Kind() {
	case ndt.FloatKind:
		return keyFloat(v.(float64))
	case ndt.ComplexKind:
		c := v.(complex128)
		return complex(keyFloat(real(c)), keyFloat(imag(c)))
	case ndt.StructKind:
		vals := v.([]any)
		out := make([]any, len(vals))
		for i, fv := range vals {
			out[i] = keyValue(fv, t.Field(i).Type)
		}
		return out
	case ndt.DimKind:
		vals := v.([]any)
		out := make([]any, len(vals))
		for i, ev := range vals {
			out[i] = keyValue(ev, t.Elem())
		}
		return out
	default:
		return v
	}
}

func keyFloat(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return math.NaN()
	case f == 0:
		return 0
	default:
		return f
	}
}

// compareValues orders canonical values of type t.
func compareValues(x, y any, t ndt.Type) int {
	switch t.Kind() {
	case ndt.BoolKind:
		xb, yb := x.(bool), y.(bool)
		switch {
		case xb == yb:
			return 0
		case !xb:
			return -1
		default:
			return 1
		}
	case ndt.IntKind:
		return cmp.Compare(x.(int64), y.(int64))
	case ndt.UintKind:
		return cmp.Compare(x.(uint64), y.(uint64))
	case ndt.FloatKind:
		return compareFloat(x.(float64), y.(float64))
	case ndt.ComplexKind:
		xc, yc := x.(complex128), y.(complex128)
		if c := compareFloat(real(xc), real(yc)); c != 0 {
			return c
		}
		return compareFloat(imag(xc), imag(yc))
	case ndt.StringKind:
		return cmp.Compare(x.(string), y.(string))
	case ndt.StructKind, ndt.DimKind:
		xs, ys := x.([]any), y.([]any)
		for i := range xs {
			et := t.Elem()
			if t.Kind() == ndt.StructKind {
				et = t.Field(i).Type
			}
			if c := compareValues(xs[i], ys[i], et); c != 0 {
				return c
			}
		}
		return 0
	default:
		panic(fmt.Sprintf("nd: cannot order values of type %s", t))
	}
}

// compareFloat orders floats with NaN last.
func compareFloat(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	default:
		return cmp.Compare(a, b)
	}
}
