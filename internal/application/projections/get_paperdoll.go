package projections

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"kitbox/internal/application/views"
	"kitbox/internal/domain/gear"
	"kitbox/internal/domain/location"
)

// GetPaperdollDeps holds dependencies for the paperdoll projection.
type GetPaperdollDeps struct {
	Gear      GearReader
	Locations LocationReader
	Slots     *views.SlotCatalog
}

// QueryPaperdoll fetches gear and locations together and joins them onto the slot catalog.
// PRE: deps.Slots is non-nil
// POST: Returns the view-model only when both fetches succeed
// INVARIANT: the first failure cancels the other fetch and aborts the render
func QueryPaperdoll(ctx context.Context, deps GetPaperdollDeps) (views.Paperdoll, error) {
	var (
		items []gear.Item
		locs  []location.Location
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = deps.Gear.ListGear(gctx, nil)
		if err != nil {
			return fmt.Errorf("list gear: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		locs, err = deps.Locations.ListLocations(gctx, nil)
		if err != nil {
			return fmt.Errorf("list locations: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return views.Paperdoll{}, err
	}

	return views.BuildPaperdoll(deps.Slots, items, locs), nil
}
