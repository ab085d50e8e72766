package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "data load", errType: ErrTypeDataLoad, expected: "DATA_LOAD"},
		{name: "duplicate coordinate", errType: ErrTypeDuplicateCoordinate, expected: "DUPLICATE_COORDINATE"},
		{name: "render", errType: ErrTypeRender, expected: "RENDER"},
		{name: "io", errType: ErrTypeIO, expected: "IO"},
		{name: "config", errType: ErrTypeConfig, expected: "CONFIG"},
		{name: "validation", errType: ErrTypeValidation, expected: "VALIDATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeRender,
				Message: "grid has no plottable cells",
			},
			wantMessage: "[RENDER] grid has no plottable cells",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeDataLoad,
				Message: "failed to open table",
				Cause:   fmt.Errorf("no such file or directory"),
			},
			wantMessage: "[DATA_LOAD] failed to open table: no such file or directory",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type: ErrTypeValidation,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewIOError("cannot write image", cause)

	assert.Same(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
	assert.Nil(t, NewValidationError("bad").Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	t.Run("initializes nil context", func(t *testing.T) {
		appError := &AppError{Type: ErrTypeDataLoad, Message: "bad row"}

		result := appError.WithContext("line", 7)

		assert.Same(t, appError, result)
		require.NotNil(t, result.Context)
		assert.Equal(t, 7, result.Context["line"])
	})

	t.Run("keeps existing context", func(t *testing.T) {
		appError := &AppError{
			Type:    ErrTypeDataLoad,
			Message: "bad row",
			Context: map[string]interface{}{"path": "data/price_surface.csv"},
		}

		appError.WithContext("column", "price")

		assert.Equal(t, "data/price_surface.csv", appError.Context["path"])
		assert.Equal(t, "price", appError.Context["column"])
	})
}

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
	}{
		{name: "data load", err: NewDataLoadError("load", cause), wantType: ErrTypeDataLoad},
		{name: "render", err: NewRenderError("render", cause), wantType: ErrTypeRender},
		{name: "io", err: NewIOError("io", cause), wantType: ErrTypeIO},
		{name: "config", err: NewConfigError("config", cause), wantType: ErrTypeConfig},
		{name: "validation", err: NewValidationError("validation"), wantType: ErrTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.NotNil(t, tt.err.Context)
		})
	}
}

func TestNewDuplicateCoordinateError(t *testing.T) {
	err := NewDuplicateCoordinateError(50, 0.1, 2, 5)

	assert.Equal(t, ErrTypeDuplicateCoordinate, err.Type)
	assert.Contains(t, err.Error(), "(50, 0.1)")
	assert.Contains(t, err.Error(), "lines 2 and 5")
	assert.Equal(t, 50.0, err.Context["x"])
	assert.Equal(t, 0.1, err.Context["y"])
	assert.Equal(t, 2, err.Context["first_line"])
	assert.Equal(t, 5, err.Context["line"])
}

func TestTypeOfAndIsType(t *testing.T) {
	inner := NewDataLoadError("bad field", errors.New("strconv"))
	wrapped := fmt.Errorf("job price_surface: %w", NewRenderError("render aborted", inner))

	assert.Equal(t, ErrTypeRender, TypeOf(wrapped))
	assert.True(t, IsType(wrapped, ErrTypeRender))
	assert.True(t, IsType(wrapped, ErrTypeDataLoad))
	assert.False(t, IsType(wrapped, ErrTypeIO))

	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
	assert.False(t, IsType(nil, ErrTypeIO))
}
