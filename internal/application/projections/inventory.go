package projections

import (
	"context"
	"net/url"

	"kitbox/internal/domain/gear"
	"kitbox/internal/domain/location"
)

// GearReader fetches gear from the inventory API.
type GearReader interface {
	ListGear(ctx context.Context, filters url.Values) ([]gear.Item, error)
	GetGear(ctx context.Context, id int64) (*gear.Item, error)
}

// LocationReader fetches locations and their contents from the inventory API.
type LocationReader interface {
	ListLocations(ctx context.Context, filters url.Values) ([]location.Location, error)
	GetLocation(ctx context.Context, id int64) (*location.Location, error)
	ListItemsInLocation(ctx context.Context, id int64) ([]gear.Item, error)
}
