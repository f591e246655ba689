package nd

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors.
var (
	ErrIndexType       = errors.New("only integer scalar arrays can be used as an index")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrAmbiguousTruth  = errors.New("the truth value of an array with more than one element is ambiguous")
	ErrInvalidCast     = errors.New("invalid value conversion")
	ErrReadOnly        = errors.New("array is not writable")
	ErrShape           = errors.New("invalid shape")
)

// BroadcastError reports array shapes that cannot be broadcast together.
type BroadcastError struct {
	Shapes []Shape
}

// Error implements the error interface.
func (e *BroadcastError) Error() string {
	parts := make([]string, len(e.Shapes))
	for i, s := range e.Shapes {
		parts[i] = s.String()
	}
	return fmt.Sprintf("cannot broadcast input shapes %s together", strings.Join(parts, " "))
}
