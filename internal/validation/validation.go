// Package validation wraps go-playground/validator for struct-tag checks
// shared by domain inputs and configuration.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// get returns the shared validator instance.
func get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Struct validates s using its `validate` tags.
// PRE: s is a struct or pointer to struct
// POST: Returns nil or validator.ValidationErrors
func Struct(s any) error {
	return get().Struct(s)
}

// FieldErrors flattens a validation error into lower-cased field name -> message.
// Non-validation errors map to a single "error" key.
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "oneof":
			errs[field] = fmt.Sprintf("Must be one of: %s", e.Param())
		case "gte":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s characters", e.Param())
		case "hexadecimal":
			errs[field] = "Must be hex encoded"
		case "len":
			errs[field] = fmt.Sprintf("Must be exactly %s characters", e.Param())
		case "url":
			errs[field] = "Must be a valid URL"
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}
