package action

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned when two terms of a SumAction disagree on
// the length of the field they act on.
var ErrShapeMismatch = errors.New("action: force length mismatch between summed terms")

// ErrNotAnAction is returned by UserAction when its wrapped callbacks
// are nil.
var ErrNotAnAction = errors.New("action: UserAction requires both Eval and Force callbacks")

func errShapeMismatch(want, got int) error {
	return fmt.Errorf("%w: want %d, got %d", ErrShapeMismatch, want, got)
}
