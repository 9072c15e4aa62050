package domain

import "errors"

// Error categories. Packages wrap them with their own sentinels so handlers can map
// any failure to a response with errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("slot is no longer available")
	ErrNoEligibleOwner   = errors.New("no owner can receive bookings")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
)
