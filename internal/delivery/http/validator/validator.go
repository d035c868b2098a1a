// Package validator adapts go-playground/validator to echo.Validator.
package validator

import (
	"fmt"
	"reflect"
	"strings"

	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// requestValidator validates request DTOs by their `validate` tags.
type requestValidator struct {
	validate *validator.Validate
}

// New returns an echo.Validator that reports failures as ErrValidationFailed
// with one "field: rule" entry per failed field, using JSON field names.
func New() echo.Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}

		return name
	})

	return &requestValidator{validate: validate}
}

// Validate implements echo.Validator.
func (v *requestValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return errors.Wrap(err, "failed to validate request")
	}

	problems := make([]string, 0, len(fieldErrors))
	for _, fieldErr := range fieldErrors {
		problems = append(problems, describe(fieldErr))
	}

	return domainerrors.ErrValidationFailed.WithDetails(strings.Join(problems, "; "))
}

func describe(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fieldErr.Field() + ": is required"
	case "email":
		return fieldErr.Field() + ": must be a valid e-mail address"
	case "uuid":
		return fieldErr.Field() + ": must be a UUID"
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s]", fieldErr.Field(), fieldErr.Param())
	case "min", "gte":
		return fmt.Sprintf("%s: must be at least %s", fieldErr.Field(), fieldErr.Param())
	case "max", "lte":
		return fmt.Sprintf("%s: must be at most %s", fieldErr.Field(), fieldErr.Param())
	default:
		return fmt.Sprintf("%s: failed %q", fieldErr.Field(), fieldErr.Tag())
	}
}
