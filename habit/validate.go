package habit

import (
	"github.com/go-playground/validator/v10"
)

// Package-level validator for input structs. Struct tags carry the numeric
// ranges and length limits; date strings and frequency variants have checks
// of their own (ParseDate, Frequency.Validate).
var validate = validator.New(validator.WithRequiredStructEnabled())

// checkInput runs struct-tag validation and converts the first failure into
// a ValidationError the caller can classify.
func checkInput(input any) error {
	if err := validate.Struct(input); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok || len(errs) == 0 {
			return &ValidationError{Reason: err.Error()}
		}
		first := errs[0]
		return &ValidationError{Field: first.Field(), Reason: "failed " + first.Tag() + " validation"}
	}
	return nil
}
