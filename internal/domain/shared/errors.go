package shared

import "errors"

// ErrorKind classifies a DomainError so callers can react to the category
// without matching on individual codes.
type ErrorKind string

const (
	KindValidation        ErrorKind = "VALIDATION"
	KindInvalidTransition ErrorKind = "INVALID_STATE_TRANSITION"
	KindConfiguration     ErrorKind = "CONFIGURATION"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindConflict          ErrorKind = "CONFLICT"
	KindBusinessRule      ErrorKind = "BUSINESS_RULE"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Kind    ErrorKind `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code.
// It lets errors.Is match against the sentinel errors below.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new business-rule domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Kind:    KindBusinessRule,
	}
}

// NewValidationError creates an error for rejected input: bad amounts,
// mismatched references, references to records that do not exist.
func NewValidationError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: KindValidation}
}

// NewInvalidTransitionError creates an error for an operation that is not
// allowed from the current state. The operation must not have changed any data.
func NewInvalidTransitionError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: KindInvalidTransition}
}

// NewConfigurationError creates an error for malformed settings
func NewConfigurationError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: KindConfiguration}
}

// NewConflictError creates an error for a write that collides with existing data
func NewConflictError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: KindConflict}
}

// Common domain errors
var (
	ErrNotFound            = &DomainError{Code: "NOT_FOUND", Message: "Resource not found", Kind: KindNotFound}
	ErrAlreadyExists       = &DomainError{Code: "ALREADY_EXISTS", Message: "Resource already exists", Kind: KindConflict}
	ErrInvalidInput        = NewValidationError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = &DomainError{Code: "CONCURRENCY_CONFLICT", Message: "Resource was modified by another process", Kind: KindConflict}
	ErrInvalidState        = NewInvalidTransitionError("INVALID_STATE_TRANSITION", "Operation not allowed in current state")
)

// KindOf returns the kind of a DomainError anywhere in err's chain, or "" if
// err is not a DomainError.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsInvalidTransition reports whether err is an invalid state transition
func IsInvalidTransition(err error) bool {
	return KindOf(err) == KindInvalidTransition
}

// IsConfiguration reports whether err is a configuration error
func IsConfiguration(err error) bool {
	return KindOf(err) == KindConfiguration
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsConflict reports whether err is a conflict with existing data
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}
