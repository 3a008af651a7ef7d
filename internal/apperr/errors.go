package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the whole service. Services return these (optionally
// wrapped with detail via fmt.Errorf and %w); handlers match with errors.Is
// and translate to HTTP status codes in one place. Nothing here is fatal to
// the process.
var (
	// ErrValidation covers malformed or conflicting input the user can fix.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound means a referenced entity is absent.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is an authorization failure; handlers surface it without
	// leaking what exists.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict marks a lost state race, e.g. a double-accept.
	ErrConflict = errors.New("conflict")

	// Verification code failures.
	ErrInvalidCode = errors.New("invalid verification code")
	ErrExpiredCode = errors.New("verification code expired")

	// Identity failures.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotActivated       = errors.New("account is not activated")
	ErrWrongPassword      = errors.New("old password is incorrect")
	ErrPasswordMismatch   = errors.New("passwords do not match")

	// Booking failures.
	ErrUnavailable      = errors.New("property is not available")
	ErrSelfBooking      = errors.New("cannot book your own property")
	ErrDuplicatePending = errors.New("a pending request for this property already exists")
	ErrInvalidGuests    = errors.New("guests must be at least 1")
	ErrPastDate         = errors.New("date must not be in the past")
)

// Validation wraps ErrValidation with a user-facing detail message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}
