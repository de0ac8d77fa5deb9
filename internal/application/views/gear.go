// Package views shapes API entities into the view-models the page templates render.
// Everything here is pure: no HTTP, no I/O.
package views

import (
	"fmt"
	"strconv"

	"kitbox/internal/domain/gear"
	"kitbox/internal/domain/location"
)

// Placeholder is shown for any absent optional value.
const Placeholder = "N/A"

// GearRow is one row of the master list.
type GearRow struct {
	ID            int64
	Name          string
	Description   string
	Weight        string
	Cost          string
	Value         string
	LegalityClass string
	LegalityLabel string
	Category      string
	Location      string
}

// LocationOption is one entry of the location selector.
type LocationOption struct {
	ID       string
	Label    string
	Selected bool
}

// BuildGearRows renders items in server order.
// Location names come from the embedded location, then from locs, else the placeholder.
func BuildGearRows(items []gear.Item, locs []location.Location) []GearRow {
	byID := indexLocations(locs)
	rows := make([]GearRow, 0, len(items))
	for _, it := range items {
		class, label := LegalityBadge(it.Legality)
		row := GearRow{
			ID:            it.ID,
			Name:          it.Name,
			Weight:        FormatWeight(it.Weight),
			Cost:          FormatMoney(it.Cost),
			Value:         FormatMoney(it.Value),
			LegalityClass: class,
			LegalityLabel: label,
			Category:      orPlaceholder(it.Category),
			Location:      LocationName(it, byID),
		}
		if it.Description != nil {
			row.Description = *it.Description
		}
		rows = append(rows, row)
	}
	return rows
}

// FormatWeight renders a weight as "<n> lbs" using the shortest exact decimal.
func FormatWeight(w float64) string {
	return FormatNumber(w) + " lbs"
}

// FormatNumber renders a float without trailing zeros: 5 -> "5", 2.5 -> "2.5".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatMoney renders an optional amount with two decimals, or the placeholder when null.
func FormatMoney(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return fmt.Sprintf("%.2f", *v)
}

// LegalityBadge returns the CSS modifier and label for a legality value.
// Unset values render as "Unknown"; unrecognised values keep their text but use the unknown style.
func LegalityBadge(l *string) (class, label string) {
	if l == nil || *l == "" {
		return "unknown", "Unknown"
	}
	switch *l {
	case gear.LegalityLegal:
		return "legal", *l
	case gear.LegalityRestricted:
		return "restricted", *l
	case gear.LegalityIllegal:
		return "illegal", *l
	default:
		return "unknown", *l
	}
}

// LocationName resolves the display name of an item's location.
func LocationName(it gear.Item, byID map[int64]location.Location) string {
	if it.Location != nil && it.Location.Name != "" {
		return it.Location.Name
	}
	if it.LocationID != nil {
		if loc, ok := byID[*it.LocationID]; ok {
			return loc.Name
		}
	}
	return Placeholder
}

// BuildLocationOptions labels each location "<name> (<type>)" and marks selected.
func BuildLocationOptions(locs []location.Location, selected string) []LocationOption {
	opts := make([]LocationOption, 0, len(locs))
	for _, l := range locs {
		id := strconv.FormatInt(l.ID, 10)
		opts = append(opts, LocationOption{
			ID:       id,
			Label:    fmt.Sprintf("%s (%s)", l.Name, l.Type),
			Selected: id == selected,
		})
	}
	return opts
}

func indexLocations(locs []location.Location) map[int64]location.Location {
	byID := make(map[int64]location.Location, len(locs))
	for _, l := range locs {
		byID[l.ID] = l
	}
	return byID
}

func orPlaceholder(s *string) string {
	if s == nil || *s == "" {
		return Placeholder
	}
	return *s
}
