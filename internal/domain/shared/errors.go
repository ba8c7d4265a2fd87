package shared

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound     = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden    = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
)

// Validation error codes
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeAlreadyExists  = "ALREADY_EXISTS"
	CodeTenantBoundary = "TENANT_BOUNDARY"
)

// Violation is a single failed check. An empty Field marks a form-level
// violation. Format and Args are kept apart so the message can be
// translated at the edge.
type Violation struct {
	Field  string
	Format string
	Args   []any
}

// Message renders the untranslated message.
func (v Violation) Message() string {
	if len(v.Args) == 0 {
		return v.Format
	}
	return fmt.Sprintf(v.Format, v.Args...)
}

// ValidationError aggregates violations of one operation. Code is the
// most significant category among them.
type ValidationError struct {
	Code       string
	Violations []Violation
}

// NewValidationError returns an empty validation error of the given code.
func NewValidationError(code string) *ValidationError {
	return &ValidationError{Code: code}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Field == "" {
			msgs = append(msgs, v.Message())
			continue
		}
		msgs = append(msgs, v.Field+": "+v.Message())
	}
	return strings.Join(msgs, "; ")
}

// Field records a violation on the named field.
func (e *ValidationError) Field(field, format string, args ...any) {
	e.Violations = append(e.Violations, Violation{Field: field, Format: format, Args: args})
}

// Form records a form-level violation.
func (e *ValidationError) Form(format string, args ...any) {
	e.Field("", format, args...)
}

// Escalate raises the error category. Boundary outranks conflicts,
// which outrank plain validation failures.
func (e *ValidationError) Escalate(code string) {
	if codeRank(code) > codeRank(e.Code) {
		e.Code = code
	}
}

// Merge appends the violations of other and escalates to its code.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	e.Violations = append(e.Violations, other.Violations...)
	e.Escalate(other.Code)
}

// Has reports whether a violation was recorded for field.
func (e *ValidationError) Has(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// Empty reports whether no violations were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Violations) == 0
}

// OrNil returns nil when no violations were recorded.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func codeRank(code string) int {
	switch code {
	case CodeTenantBoundary:
		return 3
	case CodeAlreadyExists:
		return 2
	case CodeValidation:
		return 1
	}
	return 0
}

// FieldError returns a validation error with a single field violation.
func FieldError(field, format string, args ...any) *ValidationError {
	e := NewValidationError(CodeValidation)
	e.Field(field, format, args...)
	return e
}

// FormError returns a validation error with a single form-level violation.
func FormError(format string, args ...any) *ValidationError {
	e := NewValidationError(CodeValidation)
	e.Form(format, args...)
	return e
}

// ConflictError reports a uniqueness violation on field.
func ConflictError(field, format string, args ...any) *ValidationError {
	e := NewValidationError(CodeAlreadyExists)
	e.Field(field, format, args...)
	return e
}

// BoundaryError reports a reference or operation crossing company boundaries.
func BoundaryError(field, format string, args ...any) *ValidationError {
	e := NewValidationError(CodeTenantBoundary)
	e.Field(field, format, args...)
	return e
}

// ErrNoCompany is returned when a company scoped write is attempted by a
// user without a company.
func ErrNoCompany() *ValidationError {
	return BoundaryError("", "Your account is not associated with any company.")
}

// AsValidation extracts a *ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsNotFound reports whether err is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
