package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"kitbox/internal/domain/gear"
	"kitbox/internal/domain/location"
)

func locationPath(id int64) string {
	return "/locations/" + strconv.FormatInt(id, 10)
}

// ListLocations returns all locations, optionally filtered server-side.
func (s *Session) ListLocations(ctx context.Context, filters url.Values) ([]location.Location, error) {
	var locs []location.Location
	if err := s.Call(ctx, http.MethodGet, withQuery("/locations", filters), nil, true, &locs); err != nil {
		return nil, err
	}
	return locs, nil
}

// GetLocation returns one location, or nil when the server answered with no body.
func (s *Session) GetLocation(ctx context.Context, id int64) (*location.Location, error) {
	var loc *location.Location
	if err := s.Call(ctx, http.MethodGet, locationPath(id), nil, true, &loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// CreateLocation posts a new location.
func (s *Session) CreateLocation(ctx context.Context, in location.Input) (*location.Location, error) {
	var loc *location.Location
	if err := s.Call(ctx, http.MethodPost, "/locations", in, true, &loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// UpdateLocation replaces a location's fields.
func (s *Session) UpdateLocation(ctx context.Context, id int64, in location.Input) (*location.Location, error) {
	var loc *location.Location
	if err := s.Call(ctx, http.MethodPut, locationPath(id), in, true, &loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// DeleteLocation removes a location.
func (s *Session) DeleteLocation(ctx context.Context, id int64) error {
	return s.Call(ctx, http.MethodDelete, locationPath(id), nil, true, nil)
}

// ListItemsInLocation returns the gear assigned to a location.
func (s *Session) ListItemsInLocation(ctx context.Context, id int64) ([]gear.Item, error) {
	var items []gear.Item
	if err := s.Call(ctx, http.MethodGet, locationPath(id)+"/items", nil, true, &items); err != nil {
		return nil, err
	}
	return items, nil
}
