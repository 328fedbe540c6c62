package field

import "errors"

var (
	// ErrInvalidSpec indicates a grid description with empty ranges or cell counts.
	ErrInvalidSpec = errors.New("field: invalid grid spec")

	// ErrTruncated indicates a field file shorter than the grid requires.
	ErrTruncated = errors.New("field: file shorter than grid size")

	// ErrUnknownPolicy indicates an unrecognized truncation policy name.
	ErrUnknownPolicy = errors.New("field: unknown truncation policy")
)
