package types

import (
	"github.com/go-playground/validator/v10"
)

// TypeValidation accepts fields holding a parsable type string.
func TypeValidation(fl validator.FieldLevel) bool {
	_, err := Parse(fl.Field().String())
	return err == nil
}

func RegisterTypeValidation(v *validator.Validate) {
	v.RegisterValidation("type", TypeValidation)
}
