package gear

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"kitbox/internal/domain/location"
	"kitbox/internal/validation"
)

// Legality values
const (
	LegalityLegal      = "Legal"
	LegalityRestricted = "Restricted"
	LegalityIllegal    = "Illegal"
)

// ValidLegalities lists the legality values offered by the gear form.
var ValidLegalities = []string{LegalityLegal, LegalityRestricted, LegalityIllegal}

// Domain errors
var (
	ErrNameAndWeightRequired = errors.New("name and weight are required")
	ErrInvalidCost           = errors.New("cost must be a number")
	ErrInvalidValue          = errors.New("value must be a number")
	ErrInvalidLocation       = errors.New("location must be a valid location id")
)

// Item is an inventoriable object with an optional location assignment.
// Location is the server's denormalized copy of LocationID on reads.
type Item struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description *string            `json:"description"`
	Weight      float64            `json:"weight"`
	Cost        *float64           `json:"cost"`
	Value       *float64           `json:"value"`
	Legality    *string            `json:"legality"`
	Category    *string            `json:"category"`
	LocationID  *int64             `json:"location_id"`
	Location    *location.Location `json:"location,omitempty"`
}

// InLocation reports whether the item is assigned to the given location.
func (i Item) InLocation(id int64) bool {
	return i.LocationID != nil && *i.LocationID == id
}

// Input is the create/update payload sent to the API.
// Optional fields are sent as null when absent.
type Input struct {
	Name        string   `json:"name" validate:"required"`
	Description *string  `json:"description"`
	Weight      *float64 `json:"weight" validate:"required"`
	Cost        *float64 `json:"cost"`
	Value       *float64 `json:"value"`
	Legality    *string  `json:"legality" validate:"omitempty,oneof=Legal Restricted Illegal"`
	Category    *string  `json:"category"`
	LocationID  *int64   `json:"location_id"`
}

// LocationPatch is a partial update that only touches the location reference.
// A nil LocationID marshals as null, which unassigns the item.
type LocationPatch struct {
	LocationID *int64 `json:"location_id"`
}

// Form carries raw form values as submitted by the browser.
type Form struct {
	Name        string
	Description string
	Weight      string
	Cost        string
	Value       string
	Legality    string
	Category    string
	LocationID  string
}

// ParseForm converts raw form values into an Input.
// PRE: none
// POST: Returns a validated Input, or a domain error without side effects
// INVARIANT: Name is non-empty and Weight is a finite number on success
func ParseForm(f Form) (Input, error) {
	name := strings.TrimSpace(f.Name)
	weight, ok := parseNumber(f.Weight)
	if name == "" || !ok {
		return Input{}, ErrNameAndWeightRequired
	}

	in := Input{
		Name:        name,
		Weight:      &weight,
		Description: optionalString(f.Description),
		Legality:    optionalString(f.Legality),
		Category:    optionalString(f.Category),
	}

	var err error
	if in.Cost, err = optionalNumber(f.Cost, ErrInvalidCost); err != nil {
		return Input{}, err
	}
	if in.Value, err = optionalNumber(f.Value, ErrInvalidValue); err != nil {
		return Input{}, err
	}
	if v := strings.TrimSpace(f.LocationID); v != "" {
		id, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			return Input{}, ErrInvalidLocation
		}
		in.LocationID = &id
	}

	if err := in.Validate(); err != nil {
		return Input{}, err
	}
	return in, nil
}

// Validate checks the struct tags on the payload.
func (in Input) Validate() error {
	return validation.Struct(in)
}

// FormFrom fills a Form from an existing item, for editing.
func FormFrom(i Item) Form {
	f := Form{
		Name:   i.Name,
		Weight: strconv.FormatFloat(i.Weight, 'f', -1, 64),
	}
	if i.Description != nil {
		f.Description = *i.Description
	}
	if i.Cost != nil {
		f.Cost = strconv.FormatFloat(*i.Cost, 'f', -1, 64)
	}
	if i.Value != nil {
		f.Value = strconv.FormatFloat(*i.Value, 'f', -1, 64)
	}
	if i.Legality != nil {
		f.Legality = *i.Legality
	}
	if i.Category != nil {
		f.Category = *i.Category
	}
	if i.LocationID != nil {
		f.LocationID = strconv.FormatInt(*i.LocationID, 10)
	}
	return f
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func optionalNumber(s string, invalid error) (*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, ok := parseNumber(s)
	if !ok {
		return nil, invalid
	}
	return &v, nil
}

func optionalString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
