package nd

import (
	"fmt"
	"strings"
)

// DebugRepr returns a multi-line description of the array's type, layout,
// storage and value, for debugging.
func DebugRepr(a *Array) string {
	var sb strings.Builder
	sb.WriteString("------ array\n")
	fmt.Fprintf(&sb, " type: %s\n", a.Type())
	fmt.Fprintf(&sb, " dtype: %s (%s, %d bytes)\n", a.dtype, a.dtype.Kind(), a.dtype.Size())
	fmt.Fprintf(&sb, " shape: %s\n", a.shape)
	fmt.Fprintf(&sb, " strides: %v\n", a.strides)
	fmt.Fprintf(&sb, " offset: %d\n", a.offset)
	fmt.Fprintf(&sb, " access: %s\n", a.access)
	fmt.Fprintf(&sb, " contiguous: c=%t f=%t\n", a.IsCContiguous(), a.IsFContiguous())
	if a.buf == nil {
		sb.WriteString(" buffer: released\n")
	} else {
		kind := "heap"
		if a.buf.mapping != nil {
			kind = "memmap " + a.buf.mapping.path
		}
		fmt.Fprintf(&sb, " buffer: %s, %d bytes, %d strings, shared=%t\n",
			kind, len(a.buf.data), len(a.buf.strs), a.buf.isShared())
		fmt.Fprintf(&sb, " value: %s\n", a.reprValue())
	}
	sb.WriteString("------\n")
	return sb.String()
}

// reprValue formats the array's value as JSON for messages.
func (a *Array) reprValue() string {
	out, err := FormatJSON(a)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return string(out)
}
