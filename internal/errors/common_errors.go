package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeDataLoad            ErrorType = "DATA_LOAD"
	ErrTypeDuplicateCoordinate ErrorType = "DUPLICATE_COORDINATE"
	ErrTypeRender              ErrorType = "RENDER"
	ErrTypeIO                  ErrorType = "IO"
	ErrTypeConfig              ErrorType = "CONFIG"
	ErrTypeValidation          ErrorType = "VALIDATION"
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

// Helper functions for common error types

// NewDataLoadError creates an error for a missing, unreadable or malformed input table
func NewDataLoadError(message string, cause error) *AppError {
	return NewAppError(ErrTypeDataLoad, message, cause)
}

// NewDuplicateCoordinateError creates an error for an (x, y) pair seen more than once
func NewDuplicateCoordinateError(x, y float64, firstLine, line int) *AppError {
	return NewAppError(ErrTypeDuplicateCoordinate,
		fmt.Sprintf("duplicate coordinate (%g, %g) on lines %d and %d", x, y, firstLine, line), nil).
		WithContext("x", x).
		WithContext("y", y).
		WithContext("first_line", firstLine).
		WithContext("line", line)
}

// NewRenderError creates an error for an unplottable grid or a failed drawing step
func NewRenderError(message string, cause error) *AppError {
	return NewAppError(ErrTypeRender, message, cause)
}

// NewIOError creates an error for an output path that cannot be written
func NewIOError(message string, cause error) *AppError {
	return NewAppError(ErrTypeIO, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// TypeOf returns the type of the first AppError in err's chain, or "" if there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether any AppError in err's chain has the given type.
func IsType(err error, errType ErrorType) bool {
	for err != nil {
		var appErr *AppError
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Type == errType {
			return true
		}
		err = appErr.Cause
	}
	return false
}
