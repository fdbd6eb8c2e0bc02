package middlewares

import (
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Field errors use json names so the form can highlight its own inputs.
	v.RegisterTagNameFunc(jsonTagName)
	// GST is a flat percentage per line.
	v.RegisterAlias("gstrate", "gte=0,lte=100")
	return v
}

// ValidateStruct validates v with the shared validator. Failures come back as
// validator.ValidationErrors, which ErrorHandler turns into a 422.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}
