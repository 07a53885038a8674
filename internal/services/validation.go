package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names so messages match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs struct-tag validation and converts the first failure
// into an ErrInvalidInput with a readable message.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, fe.Field())
	case "min":
		return fmt.Errorf("%w: %s must be at least %s characters", ErrInvalidInput, fe.Field(), fe.Param())
	case "max":
		return fmt.Errorf("%w: %s must be at most %s characters", ErrInvalidInput, fe.Field(), fe.Param())
	default:
		return fmt.Errorf("%w: %s is invalid", ErrInvalidInput, fe.Field())
	}
}
