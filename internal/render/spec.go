package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "surfviz/internal/errors"
)

// RenderSpec holds the text drawn on one surface image.
type RenderSpec struct {
	Title  string `json:"title" validate:"required,max=200"`
	XLabel string `json:"x_label" validate:"max=200"`
	YLabel string `json:"y_label" validate:"max=200"`
	ZLabel string `json:"z_label" validate:"max=200"`
}

var validate = validator.New()

// Validate checks the title and label lengths.
func (s RenderSpec) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return apperrors.NewValidationError("render spec: title is required")
	}

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperrors.NewValidationError(
			fmt.Sprintf("render spec: field %s failed %q", fieldErrs[0].Field(), fieldErrs[0].Tag()))
	}
	return apperrors.NewValidationError("render spec: " + err.Error())
}
