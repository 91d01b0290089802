package maze

import "errors"

var (
	ErrInvalidDimensions = errors.New("invalid maze dimensions")
	ErrOutOfBounds       = errors.New("point out of bounds")
	ErrNoSuchAdjacency   = errors.New("no such adjacency")
	ErrUnreachable       = errors.New("target unreachable")
)

type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}
