// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	"fmt"
	"strings"

	domainerrors "triplan/internal/domain/errors"
	"triplan/internal/errors"

	"github.com/go-playground/validator/v10"
)

type echoValidator struct {
	validate *validator.Validate
}

// New creates the request validator used by the Echo server.
func New() *echoValidator {
	return &echoValidator{validate: validator.New()}
}

// Validate implements echo.Validator. Struct tag violations surface as a
// single validation error carrying the offending fields.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			parts := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
			}
			return domainerrors.ErrValidationFailed.WithDetails(strings.Join(parts, "; "))
		}
		return errors.Wrap(err, "failed to validate request")
	}
	return nil
}
