package projections

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"kitbox/internal/application/views"
)

var (
	ErrNoContainer      = errors.New("container not specified")
	ErrInvalidContainer = errors.New("container id must be a number")
)

// GetContainerQuery carries the container page's navigation parameters.
type GetContainerQuery struct {
	LocationID string
	Name       string
	Search     string
}

// GetContainerDeps holds dependencies for the container projections.
type GetContainerDeps struct {
	Gear      GearReader
	Locations LocationReader
}

// ContainerResult carries the container table.
type ContainerResult struct {
	ID       int64
	Name     string
	Contents views.ContainerContents
}

// ParseContainer validates the navigation parameters without fetching anything.
// POST: Name defaults to "Container"; a blank id is ErrNoContainer
func ParseContainer(query GetContainerQuery) (int64, string, error) {
	name := strings.TrimSpace(query.Name)
	if name == "" {
		name = views.DefaultContainerName
	}
	raw := strings.TrimSpace(query.LocationID)
	if raw == "" {
		return 0, name, ErrNoContainer
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, name, ErrInvalidContainer
	}
	return id, name, nil
}

// QueryContainer fetches the items stored in one container.
// PRE: none
// POST: An absent or malformed id returns an error before any request is made
func QueryContainer(ctx context.Context, query GetContainerQuery, deps GetContainerDeps) (ContainerResult, error) {
	id, name, err := ParseContainer(query)
	result := ContainerResult{ID: id, Name: name}
	if err != nil {
		return result, err
	}

	items, err := deps.Locations.ListItemsInLocation(ctx, id)
	if err != nil {
		return result, err
	}
	result.Contents = views.BuildContainerContents(items)
	return result, nil
}

// QueryAddCandidates lists the items that can be moved into the container, filtered by name.
// PRE: none
// POST: Items already in the container never appear
func QueryAddCandidates(ctx context.Context, query GetContainerQuery, deps GetContainerDeps) ([]views.Candidate, error) {
	id, _, err := ParseContainer(query)
	if err != nil {
		return nil, err
	}
	items, err := deps.Gear.ListGear(ctx, nil)
	if err != nil {
		return nil, err
	}
	return views.BuildCandidates(items, nil, id, query.Search), nil
}
