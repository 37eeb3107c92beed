package service

import "errors"

// Error kinds. Ownership failures are reported as ErrNotFound so callers
// cannot discover records they do not own.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// Error is a domain error with a user-facing message and a kind
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

var (
	ErrParentNotFound  = &Error{Kind: ErrNotFound, Message: "Parent account not found."}
	ErrChildNotFound   = &Error{Kind: ErrNotFound, Message: "Child not found."}
	ErrSessionNotFound = &Error{Kind: ErrNotFound, Message: "Session not found."}
	ErrConsentRequired = &Error{Kind: ErrForbidden, Message: "Parent consent is required before creating a child profile."}
)
