package shared

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidRank      = errors.New("invalid rank")
	ErrInvalidSuit      = errors.New("invalid suit")
	ErrIndexOutOfBounds = errors.New("index out of bounds")
	ErrEmptySequence    = errors.New("empty sequence")
	ErrInvalidCount     = errors.New("invalid sample count")
	ErrInvalidStep      = errors.New("invalid stride step")
)

// ValidationError is returned by NewCard and by Set when the rank or suit is not part of
// the Albastini enumerations. It matches ErrInvalidRank or ErrInvalidSuit
// with errors.Is.
type ValidationError struct {
	Field   string   // "rank" or "suit"
	Value   string   // offending input
	Allowed []string // permitted symbols
	err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v %q: should be one of %s", e.err, e.Value, strings.Join(e.Allowed, ", "))
}

func (e *ValidationError) Unwrap() error { return e.err }

// IndexError reports an index outside [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%v: index %d, length %d", ErrIndexOutOfBounds, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfBounds }

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return &IndexError{Index: i, Len: n}
	}
	return nil
}
