package lifecycle

import "fmt"

type ErrorKind string

const (
	PermissionDenied  ErrorKind = "PERMISSION_DENIED"
	InvalidTransition ErrorKind = "INVALID_TRANSITION"
	EntityNotFound    ErrorKind = "ENTITY_NOT_FOUND"
	EscalationBlocked ErrorKind = "ESCALATION_BLOCKED"
	ValidationError   ErrorKind = "VALIDATION_ERROR"
)

// Error is a rejected action. Business-rule violations are always returned as
// *Error values, never panics.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func denied(format string, args ...any) *Error {
	return &Error{Kind: PermissionDenied, Message: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) *Error {
	return &Error{Kind: InvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) *Error {
	return &Error{Kind: EntityNotFound, Message: fmt.Sprintf(format, args...)}
}

func blocked(format string, args ...any) *Error {
	return &Error{Kind: EscalationBlocked, Message: fmt.Sprintf(format, args...)}
}

func validation(format string, args ...any) *Error {
	return &Error{Kind: ValidationError, Message: fmt.Sprintf(format, args...)}
}
