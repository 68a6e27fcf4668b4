package core

import "errors"

var (
	// ErrMissingIdentification means the repository or pull request could not be determined.
	ErrMissingIdentification = errors.New("missing pull request identification")
	// ErrTimeout is returned when an external call exceeds its time budget.
	ErrTimeout = errors.New("operation timed out")
)
