package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Client-side input errors.
	ErrValidation = errors.New("validation error")

	// Authentication errors.
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	// Registration errors.
	ErrConflict = errors.New("email already registered")

	// Usage governance errors.
	ErrQuotaExceeded = errors.New("daily usage limit reached")
	ErrBusy          = errors.New("analysis already in progress")

	// Post-registration history transfer.
	ErrMigration = errors.New("history migration failed")
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned before any network call when user input is
// rejected. It matches ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add appends a field message.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Empty reports whether no field was rejected.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// Message returns the message of the given field or "".
func (e *ValidationError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// QuotaError is the locally computed gate result when the daily limit of the
// current tier is used up. It matches ErrQuotaExceeded.
type QuotaError struct {
	Registered bool
	Used       int
	Limit      int
}

func (e *QuotaError) Error() string {
	tier := "guest"
	if e.Registered {
		tier = "registered"
	}
	return fmt.Sprintf("daily usage limit reached (%s tier, %d/%d)", tier, e.Used, e.Limit)
}

func (e *QuotaError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// MigrationError wraps the cause of a failed history migration. It matches
// ErrMigration and unwraps to the cause.
type MigrationError struct {
	Items int
	Err   error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("history migration of %d items failed: %v", e.Items, e.Err)
}

func (e *MigrationError) Is(target error) bool {
	return target == ErrMigration
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}
