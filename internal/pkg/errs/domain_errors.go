package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Reservation errors
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReservationConflict = errors.New("reservation conflict")
	ErrInvalidTimeSpan     = errors.New("invalid time span")
	ErrInvalidTransition   = errors.New("invalid status transition")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
