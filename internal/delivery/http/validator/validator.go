// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	domainerrors "gatehouse/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// requestValidator wraps a validator instance for request struct validation.
type requestValidator struct {
	validate *validator.Validate
}

// New creates an echo-compatible request validator.
func New() *requestValidator {
	return &requestValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate implements echo.Validator. Validation failures surface as the
// shared VALIDATION_FAILED AppError with the field detail attached.
func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
