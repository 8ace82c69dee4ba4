package booking

import "errors"

var (
	ErrValidation = errors.New("validation error")
	// ErrNotAvailable: the availability check found a conflicting booking.
	ErrNotAvailable = errors.New("listing not available for the selected dates")
	// ErrNoLongerAvailable: the availability race was lost between check and insert.
	ErrNoLongerAvailable = errors.New("listing no longer available")
	ErrNotFound          = errors.New("booking not found")
	ErrForbidden         = errors.New("forbidden")
	// ErrAlreadyResolved: a second confirm/decline on a settled booking.
	ErrAlreadyResolved = errors.New("booking already resolved")
)
