// Package listutil parses the sort and filter query parameters shared by list pages.
package listutil

import (
	"net/url"
	"slices"
	"strings"
)

// SortParams carries sorting parameters parsed from a request.
type SortParams struct {
	Sort string // column name; empty keeps server order
	Dir  string // "asc" or "desc"
}

// FilterParams carries search and filter parameters.
type FilterParams struct {
	Search  string            // free-text name search
	Filters map[string]string // exact-match filters (e.g. category=Tools)
}

// ListParams combines all list view parameters.
type ListParams struct {
	SortParams
	FilterParams
}

// ParseSortParams extracts sort and dir from URL query values.
// PRE: none
// POST: returns SortParams; Dir is always "asc" or "desc"
func ParseSortParams(q url.Values, allowedColumns []string) SortParams {
	sort := q.Get("sort")
	dir := q.Get("dir")

	if !slices.Contains(allowedColumns, sort) {
		sort = ""
	}
	if dir != "asc" && dir != "desc" {
		dir = "asc"
	}
	return SortParams{Sort: sort, Dir: dir}
}

// ParseFilterParams extracts search and named filters from URL query values.
// PRE: filterKeys lists the allowed filter parameter names
// POST: returns FilterParams with only recognised, non-blank keys
func ParseFilterParams(q url.Values, filterKeys []string) FilterParams {
	fp := FilterParams{
		Search:  strings.TrimSpace(q.Get("q")),
		Filters: make(map[string]string),
	}
	for _, key := range filterKeys {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			fp.Filters[key] = v
		}
	}
	return fp
}

// ParseListParams parses all list parameters from URL query values.
func ParseListParams(q url.Values, allowedSortCols []string, filterKeys []string) ListParams {
	return ListParams{
		SortParams:   ParseSortParams(q, allowedSortCols),
		FilterParams: ParseFilterParams(q, filterKeys),
	}
}

// Desc reports whether the sort direction is descending.
func (s SortParams) Desc() bool {
	return s.Dir == "desc"
}

// Apply orients a three-way comparison result by the sort direction.
func (s SortParams) Apply(cmp int) int {
	if s.Desc() {
		return -cmp
	}
	return cmp
}

// Active reports whether any filter or search is set.
func (f FilterParams) Active() bool {
	return f.Search != "" || len(f.Filters) > 0
}

// Matches reports whether name contains the search text (case-insensitive).
func (f FilterParams) Matches(name string) bool {
	return f.Search == "" || strings.Contains(strings.ToLower(name), strings.ToLower(f.Search))
}

// Query encodes the parameters back into URL values, omitting defaults.
func (p ListParams) Query() url.Values {
	q := url.Values{}
	if p.Search != "" {
		q.Set("q", p.Search)
	}
	for k, v := range p.Filters {
		q.Set(k, v)
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
		q.Set("dir", p.Dir)
	}
	return q
}

// SortLink returns the query string for a column header link:
// clicking the active column flips direction, any other column sorts ascending.
func (p ListParams) SortLink(col string) string {
	next := p
	next.Sort, next.Dir = col, "asc"
	if p.Sort == col && !p.Desc() {
		next.Dir = "desc"
	}
	return next.Query().Encode()
}
