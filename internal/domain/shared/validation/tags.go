package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/go-playground/validator/v10"
)

// Enum is implemented by closed string enumerations.
type Enum interface {
	IsValid() bool
}

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared struct validator. Field names in errors
// are the json names, and the "enum" tag calls IsValid.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
			e, ok := fl.Field().Interface().(Enum)
			return ok && e.IsValid()
		})
		instance = v
	})
	return instance
}

// Struct runs the struct tag checks of v and records them on errs.
func Struct(v any, errs *shared.ValidationError) {
	err := Validator().Struct(v)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Form("%s", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		format, args := tagMessage(fe)
		errs.Field(fe.Field(), format, args...)
	}
}

func tagMessage(fe validator.FieldError) (string, []any) {
	switch fe.Tag() {
	case "required":
		return MsgRequired, nil
	case "max":
		return "Ensure this value has at most %s characters.", []any{fe.Param()}
	case "min":
		return "Ensure this value has at least %s characters.", []any{fe.Param()}
	case "len":
		return "Ensure this value has exactly %s characters.", []any{fe.Param()}
	case "email":
		return MsgInvalidEmail, nil
	case "enum", "oneof":
		return "Select a valid choice. %v is not one of the available choices.", []any{fe.Value()}
	}
	return "Enter a valid value.", nil
}

// IsEmail reports whether s is a syntactically valid email address.
func IsEmail(s string) bool {
	return Validator().Var(s, "required,email") == nil
}
