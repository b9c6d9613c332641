package script

import "errors"

// Errors returned by script runs.
var (
	// ErrTimeout is returned when a run exceeds its time limit.
	ErrTimeout = errors.New("script timed out")

	// ErrInstructionLimit is returned when a script exceeds its seq call budget.
	ErrInstructionLimit = errors.New("script instruction limit exceeded")

	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")
)
