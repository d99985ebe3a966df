// Package student defines the roster identity record and import validation.
package student

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Student is one roster entry. RegNo is the unique key.
type Student struct {
	Name  string `json:"name" validate:"required"`
	RegNo string `json:"regNo" validate:"required,len=8,number"`
	Phone string `json:"phone" validate:"required,len=10,number"`
}

var validate = validator.New()

// ValidateImport checks a roster batch before any extraction or sync is
// attempted. All violations are collected and reported together rather than
// failing on the first.
func ValidateImport(students []Student) error {
	if len(students) == 0 {
		return errors.New("no students to import")
	}

	var violations []error
	for i, s := range students {
		err := validate.Struct(s)
		if err == nil {
			continue
		}

		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			violations = append(violations, fmt.Errorf("student at index %d: %w", i, err))
			continue
		}
		for _, fe := range fieldErrs {
			violations = append(violations, fmt.Errorf("student at index %d: %s", i, describe(fe)))
		}
	}

	return errors.Join(violations...)
}

func describe(fe validator.FieldError) string {
	switch fe.Field() {
	case "RegNo":
		if fe.Tag() == "required" {
			return "regNo is required"
		}
		return "regNo must be exactly 8 digits"
	case "Phone":
		if fe.Tag() == "required" {
			return "phone is required"
		}
		return "phone must be exactly 10 digits"
	case "Name":
		return "name is required"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
