package search

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrSessionNotFound = errors.New("search session not found")
	ErrForbidden       = errors.New("forbidden")
	// ErrEndOfResults: the cursor is already at the edge of the result list.
	ErrEndOfResults = errors.New("no more results")
)
