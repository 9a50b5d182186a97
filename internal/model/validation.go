package model

import (
	"github.com/go-playground/validator/v10"
)

// RegisterValidations installs the schedule format validators used by the
// request binding tags: "day" for dd/mm/yyyy and "clock" for 24-hour HH:MM.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("day", func(fl validator.FieldLevel) bool {
		return ValidDay(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return ValidClock(fl.Field().String())
	})
}
