package form

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ValidationError is an expected user-input problem. Its message is shown
// to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid returns a ValidationError for field.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Invalidf is Invalid with formatting.
func Invalidf(field, format string, args ...any) error {
	return Invalid(field, fmt.Sprintf(format, args...))
}

// Validator checks form values. It returns nil when the values are
// acceptable.
type Validator func(Values) error

// All runs every validator and combines the failures.
func All(validators ...Validator) Validator {
	return func(v Values) error {
		var err error
		for _, validate := range validators {
			if validate == nil {
				continue
			}
			err = multierr.Append(err, validate(v))
		}
		return err
	}
}

// Required fails when field is blank.
func Required(field, label string) Validator {
	return func(v Values) error {
		if v.Blank(field) {
			return Invalidf(field, "%s is required", label)
		}
		return nil
	}
}

// Integer fails when field is set but is not a whole number.
func Integer(field, label string) Validator {
	return func(v Values) error {
		if v.Blank(field) {
			return nil
		}
		if _, ok := v.Int(field); !ok {
			return Invalidf(field, "%s must be a whole number", label)
		}
		return nil
	}
}

// Number fails when field is set but is not numeric.
func Number(field, label string) Validator {
	return func(v Values) error {
		if v.Blank(field) {
			return nil
		}
		if _, ok := v.Float(field); !ok {
			return Invalidf(field, "%s must be a number", label)
		}
		return nil
	}
}

// Messages returns the user-facing messages of a validation result in
// order.
func Messages(err error) []string {
	errs := multierr.Errors(err)
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}

// FieldErrors maps field names to their first validation message.
func FieldErrors(err error) map[string]string {
	out := make(map[string]string)
	for _, e := range multierr.Errors(err) {
		var ve *ValidationError
		if errors.As(e, &ve) && ve.Field != "" {
			if _, seen := out[ve.Field]; !seen {
				out[ve.Field] = ve.Message
			}
		}
	}
	return out
}

// IsValidation reports whether err holds only validation errors.
func IsValidation(err error) bool {
	errs := multierr.Errors(err)
	if len(errs) == 0 {
		return false
	}
	for _, e := range errs {
		var ve *ValidationError
		if !errors.As(e, &ve) {
			return false
		}
	}
	return true
}
