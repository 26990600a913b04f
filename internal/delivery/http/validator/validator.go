// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	domainerrors "github.com/Shiki0138/sms-sub003/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps a validator.Validate instance for echo.
type CustomValidator struct {
	validate *validator.Validate
}

// New builds the validator echo uses for c.Validate calls.
func New() *CustomValidator {
	return &CustomValidator{validate: validator.New()}
}

// Validate checks the struct tags and converts violations into the domain's
// validation error so the error middleware renders them as a 400.
func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
