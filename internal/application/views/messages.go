package views

import (
	"errors"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"kitbox/internal/adapters/api"
	"kitbox/internal/domain/gear"
	"kitbox/internal/domain/location"
	"kitbox/internal/validation"
)

// localMessages are the banner texts for failures caught before any request is sent.
var localMessages = map[error]string{
	gear.ErrNameAndWeightRequired: "Name and Weight are required.",
	location.ErrNameRequired:      "Location name is required.",
	location.ErrTypeRequired:      "Location type is required.",
}

// ErrorMessage turns any failure into the single banner line shown on a page.
// Field lists become "Validation Error: Field: msg; Field: msg".
// Server errors show their message with details in parentheses.
// Anything else is prefixed with what was being attempted.
func ErrorMessage(context string, err error) string {
	if err == nil {
		return ""
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch {
		case len(apiErr.Fields) > 0:
			parts := make([]string, 0, len(apiErr.Fields))
			for _, f := range apiErr.Fields {
				field := f.Field()
				if field == "" {
					field = "field"
				}
				parts = append(parts, capitalize(field)+": "+f.Msg)
			}
			return "Validation Error: " + strings.Join(parts, "; ")
		case apiErr.Status > 0 && apiErr.Message != "":
			return apiErr.DisplayMessage()
		default:
			return context + ": " + apiErr.Message
		}
	}

	for sentinel, msg := range localMessages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := validation.FieldErrors(err)
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, capitalize(name)+": "+fields[name])
		}
		return "Validation Error: " + strings.Join(parts, "; ")
	}

	return context + ": " + capitalize(err.Error()) + "."
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
