package models

import (
	"errors"
	"fmt"
)

// Sentinel errors form the domain error taxonomy. Handlers map these to HTTP
// statuses (API) or redirect-with-flash (web); services and storage wrap them
// with context via fmt.Errorf("...: %w", ...).
var (
	// ErrNotFound indicates an absent resource, user, membership, or record.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the caller is authenticated but not allowed to
	// perform the operation on this resource.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthenticated indicates missing or invalid credentials or token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrAlreadyMember indicates a duplicate (resource, user) membership.
	ErrAlreadyMember = errors.New("user is already a participant")

	// ErrCannotRemoveCreator indicates an attempt to remove the resource
	// creator from its own membership set.
	ErrCannotRemoveCreator = errors.New("cannot remove the creator")

	// ErrUsernameTaken indicates a registration or update with a username
	// that already exists.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrEmailTaken indicates a registration or update with an email that
	// already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials indicates a failed username/password check.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrWeakPassword indicates a password below the minimum length.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)

// ValidationError reports a field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsConflict reports whether err is one of the duplicate-state errors.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyMember) ||
		errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrEmailTaken)
}

// IsValidation reports whether err is a field-level validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
