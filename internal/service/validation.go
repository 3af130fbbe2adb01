package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	customError "github.com/segyhp/loan-tracker/pkg/errors"
)

// validationError reports the first failed struct rule as a ValidationError.
func validationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return customError.NewValidationError("", err.Error())
	}

	fe := errs[0]
	field := strings.ToLower(fe.Field())
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", field)
	case "min":
		msg = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		msg = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "alphanum":
		msg = fmt.Sprintf("%s must contain only letters and digits", field)
	default:
		msg = fmt.Sprintf("%s is invalid", field)
	}
	return customError.NewValidationError(field, msg)
}
