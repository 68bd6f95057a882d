package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeValidation        ErrorType = "VALIDATION"
	ErrTypeDataUnavailable   ErrorType = "DATA_UNAVAILABLE"
	ErrTypeUnknownPeriod     ErrorType = "UNKNOWN_PERIOD"
	ErrTypeNumericDegeneracy ErrorType = "NUMERIC_DEGENERACY"
	ErrTypeMissingColumn     ErrorType = "MISSING_COLUMN"
	ErrTypeParsing           ErrorType = "PARSING"
	ErrTypeNotFound          ErrorType = "NOT_FOUND"
	ErrTypeConfig            ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError of the same type, so sentinel values such as
// ErrValidation can be used with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.Message == ""
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Sentinels for errors.Is. They carry no message and match every AppError
// of their type.
var (
	ErrValidation        = &AppError{Type: ErrTypeValidation}
	ErrDataUnavailable   = &AppError{Type: ErrTypeDataUnavailable}
	ErrUnknownPeriod     = &AppError{Type: ErrTypeUnknownPeriod}
	ErrNumericDegeneracy = &AppError{Type: ErrTypeNumericDegeneracy}
	ErrMissingColumn     = &AppError{Type: ErrTypeMissingColumn}
)

// Helper functions for common error types

// NewValidationError reports an insufficient or malformed input selection.
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewDataUnavailableError reports that no input could be loaded at all.
func NewDataUnavailableError(message string, cause error) *AppError {
	return NewAppError(ErrTypeDataUnavailable, message, cause)
}

// NewUnknownPeriodError reports a period label outside the month taxonomy.
func NewUnknownPeriodError(label string) *AppError {
	return NewAppError(ErrTypeUnknownPeriod, fmt.Sprintf("unknown period label %q", label), nil).
		WithContext("label", label)
}

// NewNumericDegeneracyError reports a trend fit that cannot be computed.
func NewNumericDegeneracyError(entity string, reason string) *AppError {
	return NewAppError(ErrTypeNumericDegeneracy, fmt.Sprintf("cannot fit trend for %q: %s", entity, reason), nil).
		WithContext("entity", entity)
}

// NewMissingColumnError reports a required column that no accepted name matched.
func NewMissingColumnError(field string, accepted []string) *AppError {
	return NewAppError(ErrTypeMissingColumn,
		fmt.Sprintf("required column %q not found (accepted names: %s)", field, strings.Join(accepted, ", ")), nil).
		WithContext("field", field).
		WithContext("accepted", accepted)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the type of the first AppError in err's chain, or "".
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether err's chain holds an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	return TypeOf(err) == errType
}
