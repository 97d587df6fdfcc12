package orders

import "errors"

var (
	// ErrNotFound means no record exists for the order id.
	ErrNotFound = errors.New("order not found")

	// ErrAlreadyExists means a create collided with an existing order id.
	ErrAlreadyExists = errors.New("order already exists")

	// ErrValidation means required order input was missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrConflict means the requested transition is not legal from the
	// order's current status.
	ErrConflict = errors.New("illegal status transition")

	// ErrStatusMismatch means a conditional update observed a different
	// status than expected; callers re-read and re-decide.
	ErrStatusMismatch = errors.New("status mismatch/conditional failed")
)
