package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes binding errors name fields after their json (or
// form) tag.
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// BindingError turns a request binding failure into a validation error so
// it renders like any other. ok is false for malformed bodies, which are
// not field errors.
func BindingError(err error) (*shared.ValidationError, bool) {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return nil, false
	}
	ve := shared.NewValidationError(shared.CodeValidation)
	for _, fe := range fields {
		format, args := violationOf(fe)
		ve.Field(fe.Field(), format, args...)
	}
	return ve, true
}

func violationOf(fe validator.FieldError) (string, []any) {
	switch fe.Tag() {
	case "required":
		return "This field is required.", nil
	case "email":
		return "Enter a valid email address.", nil
	case "min":
		if fe.Kind() == reflect.String {
			return "Ensure this value has at least %s characters.", []any{fe.Param()}
		}
	case "max":
		if fe.Kind() == reflect.String {
			return "Ensure this value has at most %s characters.", []any{fe.Param()}
		}
	case "len":
		return "Ensure this value has exactly %s characters.", []any{fe.Param()}
	case "oneof":
		return "Select a valid choice. %v is not one of the available choices.", []any{fe.Value()}
	}
	return "Enter a valid value.", nil
}
