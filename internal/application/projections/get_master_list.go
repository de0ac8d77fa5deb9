package projections

import (
	"cmp"
	"context"
	"errors"
	"net/url"
	"slices"
	"strings"
	"sync"

	"kitbox/internal/application/listutil"
	"kitbox/internal/application/views"
	"kitbox/internal/domain/gear"
	"kitbox/internal/domain/location"
)

// ErrItemUnavailable is returned when the API answers a lookup with no item.
var ErrItemUnavailable = errors.New("could not fetch item details for editing")

// GearFilterKeys are the exact-match filters accepted by the master list.
var GearFilterKeys = []string{"category", "legality"}

// GearSortColumns are the master list columns that can be sorted.
var GearSortColumns = []string{"name", "weight", "cost", "value", "legality", "category", "location"}

// GetMasterListQuery carries input for the master list projection.
type GetMasterListQuery struct {
	List listutil.ListParams
}

// GetMasterListDeps holds dependencies for the master list projection.
type GetMasterListDeps struct {
	Gear      GearReader
	Locations LocationReader
}

// MasterListResult carries the table and the location selector.
// GearErr and LocationsErr are independent: one failing leaves the other's data intact.
type MasterListResult struct {
	Rows         []views.GearRow
	Locations    []location.Location
	GearErr      error
	LocationsErr error
}

// QueryMasterList fetches gear and locations concurrently and shapes the table.
// Filters are forwarded to the API and re-applied locally, since the API may ignore them.
// PRE: deps readers are non-nil
// POST: Rows is built from whatever gear was fetched; errors are reported per source, never returned
func QueryMasterList(ctx context.Context, query GetMasterListQuery, deps GetMasterListDeps) MasterListResult {
	var (
		wg     sync.WaitGroup
		items  []gear.Item
		result MasterListResult
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		items, result.GearErr = deps.Gear.ListGear(ctx, upstreamFilters(query.List.FilterParams))
	}()
	go func() {
		defer wg.Done()
		result.Locations, result.LocationsErr = deps.Locations.ListLocations(ctx, nil)
	}()
	wg.Wait()

	items = filterGear(items, query.List.FilterParams)
	byName := locationNames(items, result.Locations)
	sortGear(items, query.List.SortParams, byName)

	result.Rows = views.BuildGearRows(items, result.Locations)
	return result
}

// QueryGearForEdit fetches one item and converts it to form values.
// PRE: id > 0
// POST: Returns the form, ErrItemUnavailable for an empty answer, or the API error
func QueryGearForEdit(ctx context.Context, id int64, reader GearReader) (gear.Form, error) {
	item, err := reader.GetGear(ctx, id)
	if err != nil {
		return gear.Form{}, err
	}
	if item == nil {
		return gear.Form{}, ErrItemUnavailable
	}
	return gear.FormFrom(*item), nil
}

// upstreamFilters maps list filters to the API's query parameters.
func upstreamFilters(f listutil.FilterParams) url.Values {
	if !f.Active() {
		return nil
	}
	q := url.Values{}
	if f.Search != "" {
		q.Set("name", f.Search)
	}
	for k, v := range f.Filters {
		q.Set(k, v)
	}
	return q
}

func filterGear(items []gear.Item, f listutil.FilterParams) []gear.Item {
	if !f.Active() {
		return items
	}
	out := items[:0:0]
	for _, it := range items {
		if !f.Matches(it.Name) {
			continue
		}
		if v, ok := f.Filters["category"]; ok && !strings.EqualFold(deref(it.Category), v) {
			continue
		}
		if v, ok := f.Filters["legality"]; ok && !strings.EqualFold(deref(it.Legality), v) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func locationNames(items []gear.Item, locs []location.Location) map[int64]string {
	byID := make(map[int64]location.Location, len(locs))
	for _, l := range locs {
		byID[l.ID] = l
	}
	names := make(map[int64]string, len(items))
	for _, it := range items {
		names[it.ID] = views.LocationName(it, byID)
	}
	return names
}

// sortGear orders items in place; an empty column keeps server order.
func sortGear(items []gear.Item, s listutil.SortParams, locNames map[int64]string) {
	if s.Sort == "" {
		return
	}
	slices.SortStableFunc(items, func(a, b gear.Item) int {
		var c int
		switch s.Sort {
		case "name":
			c = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case "weight":
			c = cmp.Compare(a.Weight, b.Weight)
		case "cost":
			c = compareOptional(a.Cost, b.Cost)
		case "value":
			c = compareOptional(a.Value, b.Value)
		case "legality":
			c = strings.Compare(deref(a.Legality), deref(b.Legality))
		case "category":
			c = strings.Compare(deref(a.Category), deref(b.Category))
		case "location":
			c = strings.Compare(locNames[a.ID], locNames[b.ID])
		}
		return s.Apply(c)
	})
}

// compareOptional sorts nulls before any number.
func compareOptional(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
