package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed call.
type Kind string

const (
	KindTransport    Kind = "transport"
	KindUnauthorized Kind = "unauthorized"
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindServer       Kind = "server"
)

// FieldError is one entry of a structured field-validation failure.
type FieldError struct {
	Loc []string
	Msg string
}

// Field returns the display name for the failing field:
// loc[1] when present (loc[0] is usually "body"), else loc[0], keeping the part after the last '.'.
func (f FieldError) Field() string {
	var name string
	switch {
	case len(f.Loc) > 1:
		name = f.Loc[1]
	case len(f.Loc) == 1:
		name = f.Loc[0]
	default:
		return ""
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Error is the single normalized failure produced at the client boundary.
// Consumers match it with errors.As.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details string
	Fields  []FieldError
	Raw     []byte
	Err     error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("Error %d: %s", e.Status, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match on kind: errors.Is(err, &api.Error{Kind: api.KindNotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// ErrUnauthorized matches any 401 from the API.
var ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}

// errorBody covers every error shape the inventory API emits.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Error   json.RawMessage `json:"error"`
	Details json.RawMessage `json:"details"`
	Message string          `json:"message"`
}

type rawFieldError struct {
	Loc []json.RawMessage `json:"loc"`
	Msg string            `json:"msg"`
}

// newResponseError builds an Error from a non-2xx, non-401 response body.
// Resolution order: field list, detail string, error object or string, message, status text.
func newResponseError(status int, raw []byte) *Error {
	e := &Error{Status: status, Raw: raw}

	trimmed := strings.TrimSpace(string(raw))
	switch {
	case strings.HasPrefix(trimmed, "["):
		var list []rawFieldError
		if json.Unmarshal(raw, &list) == nil {
			e.Fields = convertFields(list)
		}
	case strings.HasPrefix(trimmed, "{"):
		var body errorBody
		if json.Unmarshal(raw, &body) == nil {
			e.fromBody(body)
		}
	}

	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field()+": "+f.Msg)
		}
		e.Message = strings.Join(parts, "; ")
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
		if e.Message == "" {
			e.Message = fmt.Sprintf("status %d", status)
		}
	}

	switch {
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case len(e.Fields) > 0 || status == http.StatusUnprocessableEntity:
		e.Kind = KindValidation
	default:
		e.Kind = KindServer
	}
	return e
}

func (e *Error) fromBody(body errorBody) {
	if len(body.Detail) > 0 {
		var list []rawFieldError
		var s string
		switch {
		case json.Unmarshal(body.Detail, &list) == nil:
			e.Fields = convertFields(list)
		case json.Unmarshal(body.Detail, &s) == nil:
			e.Message = s
		default:
			e.Message = string(body.Detail)
		}
		if len(e.Fields) > 0 || e.Message != "" {
			return
		}
	}

	if len(body.Error) > 0 {
		var obj struct {
			Message string          `json:"message"`
			Details json.RawMessage `json:"details"`
		}
		var s string
		switch {
		case json.Unmarshal(body.Error, &s) == nil:
			e.Message = s
			e.Details = rawString(body.Details)
		case json.Unmarshal(body.Error, &obj) == nil:
			e.Message = obj.Message
			e.Details = rawString(obj.Details)
		}
		if e.Message != "" {
			return
		}
	}

	e.Message = body.Message
	e.Details = rawString(body.Details)
}

// DisplayMessage renders the message with details appended in parentheses.
func (e *Error) DisplayMessage() string {
	if e.Details != "" {
		return e.Message + " (" + e.Details + ")"
	}
	return e.Message
}

func convertFields(list []rawFieldError) []FieldError {
	out := make([]FieldError, 0, len(list))
	for _, r := range list {
		f := FieldError{Msg: r.Msg}
		for _, part := range r.Loc {
			f.Loc = append(f.Loc, rawString(part))
		}
		out = append(out, f)
	}
	return out
}

// rawString returns a JSON string's value, or the raw JSON text for any other value.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}
