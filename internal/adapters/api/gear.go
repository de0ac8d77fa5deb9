package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"kitbox/internal/domain/gear"
)

func gearPath(id int64) string {
	return "/gear/" + strconv.FormatInt(id, 10)
}

func withQuery(path string, filters url.Values) string {
	if len(filters) == 0 {
		return path
	}
	return path + "?" + filters.Encode()
}

// ListGear returns all gear items, optionally filtered server-side.
func (s *Session) ListGear(ctx context.Context, filters url.Values) ([]gear.Item, error) {
	var items []gear.Item
	if err := s.Call(ctx, http.MethodGet, withQuery("/gear", filters), nil, true, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetGear returns one item, or nil when the server answered with no body.
func (s *Session) GetGear(ctx context.Context, id int64) (*gear.Item, error) {
	var item *gear.Item
	if err := s.Call(ctx, http.MethodGet, gearPath(id), nil, true, &item); err != nil {
		return nil, err
	}
	return item, nil
}

// CreateGear posts a new item and returns the stored copy when the server sends one.
func (s *Session) CreateGear(ctx context.Context, in gear.Input) (*gear.Item, error) {
	var item *gear.Item
	if err := s.Call(ctx, http.MethodPost, "/gear", in, true, &item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateGear replaces an item's fields.
func (s *Session) UpdateGear(ctx context.Context, id int64, in gear.Input) (*gear.Item, error) {
	var item *gear.Item
	if err := s.Call(ctx, http.MethodPut, gearPath(id), in, true, &item); err != nil {
		return nil, err
	}
	return item, nil
}

// SetGearLocation moves an item. A nil locationID unassigns it; the item is never deleted.
func (s *Session) SetGearLocation(ctx context.Context, id int64, locationID *int64) error {
	return s.Call(ctx, http.MethodPut, gearPath(id), gear.LocationPatch{LocationID: locationID}, true, nil)
}

// DeleteGear removes an item permanently.
func (s *Session) DeleteGear(ctx context.Context, id int64) error {
	return s.Call(ctx, http.MethodDelete, gearPath(id), nil, true, nil)
}
