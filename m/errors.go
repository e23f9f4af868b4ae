package m

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSizes is returned by NewNetwork for a layer-size sequence
	// shorter than two or containing a non-positive width.
	ErrInvalidSizes = errors.New("invalid layer sizes")

	// ErrShapeMismatch is matched by every *ShapeError.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrEmptyBatch is returned when a mini-batch holds no examples.
	ErrEmptyBatch = errors.New("empty mini-batch")

	// ErrInvalidHyperparameter covers non-positive epochs, batch sizes and
	// learning rates, and an empty training set.
	ErrInvalidHyperparameter = errors.New("invalid hyperparameter")

	// ErrLabelOutOfRange is returned by Evaluate for a label outside
	// [0, number of output units).
	ErrLabelOutOfRange = errors.New("label out of range")
)

// ShapeError reports a vector whose length disagrees with the network.
type ShapeError struct {
	What string
	Got  int
	Want int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: expected length %d, got %d", e.What, e.Want, e.Got)
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrShapeMismatch
}
