package domain

import (
	"errors"
	"strings"
)

// Error kinds. Every error returned by the core wraps exactly one of these so
// the transport layer can translate it without knowing the specific cause.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("not authorized")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrTooManyRequests = errors.New("too many requests")
)

var (
	ErrMissingToken       = kindError(ErrUnauthenticated, "no token provided")
	ErrTokenMalformed     = kindError(ErrUnauthenticated, "invalid token")
	ErrTokenExpired       = kindError(ErrUnauthenticated, "token expired")
	ErrInvalidCredentials = kindError(ErrUnauthenticated, "invalid credentials")
)

var (
	ErrUserNotFound        = kindError(ErrNotFound, "user not found")
	ErrClientNotFound      = kindError(ErrNotFound, "client not found")
	ErrDeputyNotFound      = kindError(ErrNotFound, "deputy not found")
	ErrDocumentNotFound    = kindError(ErrNotFound, "document not found")
	ErrInstructionNotFound = kindError(ErrNotFound, "instruction not found")
	ErrAttachmentNotFound  = kindError(ErrNotFound, "attachment not found")
)

var (
	ErrUsernameTaken       = kindError(ErrConflict, "username already exists")
	ErrEmailTaken          = kindError(ErrConflict, "email already in use")
	ErrDuplicateDocumentID = kindError(ErrConflict, "documentId already exists")
)

var ErrLoginThrottled = kindError(ErrTooManyRequests, "too many login attempts, try again later")

// classified is a specific error that belongs to one of the kinds above. Its
// message is safe to show to API callers.
type classified struct {
	kind error
	msg  string
}

func kindError(kind error, msg string) error { return &classified{kind: kind, msg: msg} }

func (e *classified) Error() string { return e.msg }
func (e *classified) Unwrap() error { return e.kind }

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned for malformed or missing input. It matches
// ErrValidation under errors.Is.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Message: field + " " + message,
		Fields:  []FieldError{{Field: field, Message: message}},
	}
}

// Forbidden returns an ErrForbidden carrying a specific reason.
func Forbidden(reason string) error {
	return kindError(ErrForbidden, reason)
}
