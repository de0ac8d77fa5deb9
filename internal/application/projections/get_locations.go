package projections

import (
	"context"
	"errors"
	"sort"

	"kitbox/internal/application/views"
	"kitbox/internal/domain/location"
)

// ErrLocationUnavailable is returned when the API answers a lookup with no location.
var ErrLocationUnavailable = errors.New("could not fetch location details for editing")

// LocationRow is one row of the location admin table.
type LocationRow struct {
	ID     int64
	Name   string
	Type   string
	Parent string
}

// LocationsResult carries the admin table plus the raw list for the parent selector.
type LocationsResult struct {
	Rows      []LocationRow
	Locations []location.Location
}

// QueryLocations lists every location, body slots first, then by name.
func QueryLocations(ctx context.Context, reader LocationReader) (LocationsResult, error) {
	locs, err := reader.ListLocations(ctx, nil)
	if err != nil {
		return LocationsResult{}, err
	}

	byID := make(map[int64]string, len(locs))
	for _, l := range locs {
		byID[l.ID] = l.Name
	}

	sorted := append([]location.Location(nil), locs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if typeRank(sorted[i].Type) != typeRank(sorted[j].Type) {
			return typeRank(sorted[i].Type) < typeRank(sorted[j].Type)
		}
		return sorted[i].Name < sorted[j].Name
	})

	rows := make([]LocationRow, 0, len(sorted))
	for _, l := range sorted {
		parent := views.Placeholder
		if l.ParentID != nil {
			if name, ok := byID[*l.ParentID]; ok {
				parent = name
			}
		}
		rows = append(rows, LocationRow{ID: l.ID, Name: l.Name, Type: l.Type, Parent: parent})
	}
	return LocationsResult{Rows: rows, Locations: locs}, nil
}

// QueryLocationForEdit fetches one location and converts it to form values.
func QueryLocationForEdit(ctx context.Context, id int64, reader LocationReader) (location.Form, error) {
	loc, err := reader.GetLocation(ctx, id)
	if err != nil {
		return location.Form{}, err
	}
	if loc == nil {
		return location.Form{}, ErrLocationUnavailable
	}
	return location.FormFrom(*loc), nil
}

func typeRank(t string) int {
	switch t {
	case location.TypeBodySlot:
		return 0
	case location.TypeContainer:
		return 1
	default:
		return 2
	}
}
