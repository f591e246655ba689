package nd

import (
	"fmt"

	"github.com/born-ml/dynd/internal/ndt"
)

// Fields returns a new struct array holding only the named fields of a, in
// the order given.
func Fields(a *Array, names ...string) (*Array, error) {
	if a.dtype.Kind() != ndt.StructKind {
		return nil, fmt.Errorf("%w: fields needs a struct array, got %s", ErrInvalidCast, a.dtype)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("fields needs at least one field name")
	}
	idx := make([]int, len(names))
	selected := make([]ndt.Field, len(names))
	for i, name := range names {
		j := a.dtype.FieldIndex(name)
		if j < 0 {
			return nil, fmt.Errorf("%w: %s has no field %q", ErrInvalidCast, a.dtype, name)
		}
		idx[i] = j
		f := a.dtype.Field(j)
		selected[i] = ndt.Field{Name: f.Name, Type: f.Type}
	}
	dtype, err := ndt.MakeStruct(selected...)
	if err != nil {
		return nil, err
	}
	return mapRecords(a, dtype, func(rec []any) ([]any, error) {
		out := make([]any, len(idx))
		for i, j := range idx {
			out[i] = rec[j]
		}
		return out, nil
	})
}

// Record is one struct element handed to a computed field.
type Record struct {
	dtype  ndt.Type
	values []any
}

// Get returns the canonical value of the named field.
func (r Record) Get(name string) (any, bool) {
	i := r.dtype.FieldIndex(name)
	if i < 0 {
		return nil, false
	}
	return r.values[i], true
}

// Map returns the record as a map, like AsGo does for struct elements.
func (r Record) Map() map[string]any {
	return goValue(r.values, r.dtype).(map[string]any)
}

// ComputedField derives a new field from each record.
type ComputedField struct {
	Name string
	Type ndt.Type
	Func func(Record) (any, error)
}

// AddComputedFields returns a copy of the struct array a with the computed
// fields appended and the fields named in rm removed.
//
// Example:
//
//	b, err := nd.AddComputedFields(a, []nd.ComputedField{{
//	    Name: "sum", Type: ndt.Int64,
//	    Func: func(r nd.Record) (any, error) {
//	        x, _ := r.Get("x")
//	        y, _ := r.Get("y")
//	        return x.(int64) + y.(int64), nil
//	    },
//	}}, "y")
func AddComputedFields(a *Array, fields []ComputedField, rm ...string) (*Array, error) {
	return computeFields(a, fields, rm, true)
}

// MakeComputedFields returns a struct array holding only the computed fields.
func MakeComputedFields(a *Array, fields []ComputedField) (*Array, error) {
	return computeFields(a, fields, nil, false)
}

func computeFields(a *Array, fields []ComputedField, rm []string, keep bool) (*Array, error) {
	if a.dtype.Kind() != ndt.StructKind {
		return nil, fmt.Errorf("%w: computed fields need a struct array, got %s", ErrInvalidCast, a.dtype)
	}
	removed := make(map[string]bool, len(rm))
	for _, name := range rm {
		if a.dtype.FieldIndex(name) < 0 {
			return nil, fmt.Errorf("%w: %s has no field %q to remove", ErrInvalidCast, a.dtype, name)
		}
		removed[name] = true
	}

	var kept []int
	var out []ndt.Field
	if keep {
		for i := 0; i < a.dtype.NumFields(); i++ {
			f := a.dtype.Field(i)
			if !removed[f.Name] {
				kept = append(kept, i)
				out = append(out, ndt.Field{Name: f.Name, Type: f.Type})
			}
		}
	}
	for _, cf := range fields {
		if cf.Func == nil {
			return nil, fmt.Errorf("computed field %q has no function", cf.Name)
		}
		out = append(out, ndt.Field{Name: cf.Name, Type: cf.Type})
	}
	dtype, err := ndt.MakeStruct(out...)
	if err != nil {
		return nil, err
	}

	return mapRecords(a, dtype, func(rec []any) ([]any, error) {
		vals := make([]any, 0, dtype.NumFields())
		for _, i := range kept {
			vals = append(vals, rec[i])
		}
		r := Record{dtype: a.dtype, values: rec}
		for _, cf := range fields {
			v, err := cf.Func(r)
			if err != nil {
				return nil, fmt.Errorf("computed field %q: %w", cf.Name, err)
			}
			c, err := convertValue(v, cf.Type)
			if err != nil {
				return nil, fmt.Errorf("computed field %q: %w", cf.Name, err)
			}
			vals = append(vals, c)
		}
		return vals, nil
	})
}

// mapRecords builds a new array of struct type dtype by transforming every
// record of the struct array a.
func mapRecords(a *Array, dtype ndt.Type, fn func(rec []any) ([]any, error)) (*Array, error) {
	inner := func(args []any) (any, error) {
		return fn(args[0].([]any))
	}
	return ElwiseMap([]*Array{a}, inner, dtype)
}
