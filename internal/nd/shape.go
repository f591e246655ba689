package nd

import (
	"fmt"
	"strconv"
	"strings"
)

// Shape represents the dimensions of an array.
type Shape []int

// NumElements returns the total number of elements in the array.
func (s Shape) NumElements() int {
	n := 1 // Scalar has 1 element
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that no dimension is negative.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("%w: dimension %d is %d (must be >= 0)", ErrShape, i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// String formats the shape like a tuple, e.g. "(3, 4)".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}
	if len(s) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// cStrides calculates row-major byte strides for the shape.
func (s Shape) cStrides(itemSize int) []int {
	strides := make([]int, len(s))
	acc := itemSize
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= s[i]
	}
	return strides
}

// BroadcastShapes implements NumPy-style broadcasting rules over any number
// of shapes.
//
// Rules:
// 1. Compare shapes element-wise from right to left
// 2. Dimensions are compatible if they are equal or one of them is 1
// 3. Missing dimensions are treated as 1
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5)
//	(5,) + (2, 1)   → (2, 5)
//	(3, 4) + (3, 5) → *BroadcastError
func BroadcastShapes(shapes ...Shape) (Shape, error) {
	maxLen := 0
	for _, s := range shapes {
		maxLen = max(maxLen, len(s))
	}
	result := make(Shape, maxLen)
	for i := range result {
		result[i] = 1
	}

	for _, s := range shapes {
		for i := 0; i < len(s); i++ {
			ri := maxLen - len(s) + i
			dim := s[i]
			switch {
			case dim == result[ri]:
			case result[ri] == 1:
				result[ri] = dim
			case dim == 1:
			default:
				return nil, &BroadcastError{Shapes: cloneShapes(shapes)}
			}
		}
	}
	return result, nil
}

// broadcastStrides returns the byte strides that read an array of shape
// `from` with strides `strides` as if it had shape `to`.
// Broadcast dimensions get stride 0.
func broadcastStrides(from Shape, strides []int, to Shape) []int {
	out := make([]int, len(to))
	lead := len(to) - len(from)
	for i := range from {
		if from[i] != 1 || to[lead+i] == 1 {
			out[lead+i] = strides[i]
		}
	}
	return out
}

func cloneShapes(shapes []Shape) []Shape {
	out := make([]Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}
