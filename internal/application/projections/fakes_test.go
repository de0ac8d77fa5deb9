package projections

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"

	"kitbox/internal/domain/gear"
	"kitbox/internal/domain/location"
)

// fakeInventory implements GearReader and LocationReader over fixed data.
type fakeInventory struct {
	items   []gear.Item
	locs    []location.Location
	gearErr error
	locErr  error

	calls       atomic.Int32
	mu          sync.Mutex
	lastFilters url.Values
}

func (f *fakeInventory) ListGear(_ context.Context, filters url.Values) ([]gear.Item, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastFilters = filters
	f.mu.Unlock()
	if f.gearErr != nil {
		return nil, f.gearErr
	}
	return append([]gear.Item(nil), f.items...), nil
}

func (f *fakeInventory) GetGear(_ context.Context, id int64) (*gear.Item, error) {
	f.calls.Add(1)
	if f.gearErr != nil {
		return nil, f.gearErr
	}
	for _, it := range f.items {
		if it.ID == id {
			return &it, nil
		}
	}
	return nil, nil
}

func (f *fakeInventory) ListLocations(_ context.Context, _ url.Values) ([]location.Location, error) {
	f.calls.Add(1)
	if f.locErr != nil {
		return nil, f.locErr
	}
	return f.locs, nil
}

func (f *fakeInventory) GetLocation(_ context.Context, id int64) (*location.Location, error) {
	f.calls.Add(1)
	if f.locErr != nil {
		return nil, f.locErr
	}
	for _, l := range f.locs {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, nil
}

func (f *fakeInventory) ListItemsInLocation(_ context.Context, id int64) ([]gear.Item, error) {
	f.calls.Add(1)
	if f.gearErr != nil {
		return nil, f.gearErr
	}
	var out []gear.Item
	for _, it := range f.items {
		if it.InLocation(id) {
			out = append(out, it)
		}
	}
	return out, nil
}

func ptr[T any](v T) *T { return &v }
