package location

import (
	"errors"
	"strconv"
	"strings"

	"kitbox/internal/validation"
)

// Location types
const (
	TypeBodySlot  = "Body Slot"
	TypeContainer = "Container"
	TypeGeneric   = "Generic"
)

// ValidTypes lists the location types offered by the location form.
var ValidTypes = []string{TypeBodySlot, TypeContainer, TypeGeneric}

// Domain errors
var (
	ErrNameRequired    = errors.New("location name is required")
	ErrTypeRequired    = errors.New("location type is required")
	ErrInvalidParentID = errors.New("parent location must be a number")
)

// Location is either a fixed body-equipment slot or a storage container.
// Server-owned; the client only holds per-request copies.
type Location struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// IsBodySlot reports whether the location is an anatomical equipment slot.
func (l Location) IsBodySlot() bool {
	return l.Type == TypeBodySlot
}

// IsContainer reports whether the location is a storage container.
func (l Location) IsContainer() bool {
	return l.Type == TypeContainer
}

// Input is the create/update payload sent to the API.
type Input struct {
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type" validate:"required"`
	ParentID *int64 `json:"parent_id"`
}

// Form carries raw form values as submitted by the browser.
type Form struct {
	Name     string
	Type     string
	ParentID string
}

// ParseForm converts raw form values into an Input.
// PRE: none
// POST: Returns a validated Input or a domain error; empty parent maps to nil
func ParseForm(f Form) (Input, error) {
	in := Input{
		Name: strings.TrimSpace(f.Name),
		Type: strings.TrimSpace(f.Type),
	}
	if in.Name == "" {
		return Input{}, ErrNameRequired
	}
	if in.Type == "" {
		return Input{}, ErrTypeRequired
	}
	if p := strings.TrimSpace(f.ParentID); p != "" {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return Input{}, ErrInvalidParentID
		}
		in.ParentID = &id
	}
	if err := validation.Struct(in); err != nil {
		return Input{}, err
	}
	return in, nil
}

// FormFrom fills a Form from an existing location, for editing.
func FormFrom(l Location) Form {
	f := Form{Name: l.Name, Type: l.Type}
	if l.ParentID != nil {
		f.ParentID = strconv.FormatInt(*l.ParentID, 10)
	}
	return f
}
