package views

import (
	"fmt"
	"strings"

	"kitbox/internal/domain/gear"
	"kitbox/internal/domain/location"
)

// DefaultContainerName labels a container page opened without a name parameter.
const DefaultContainerName = "Container"

// ContainerRow is one item listed inside a container.
type ContainerRow struct {
	ID       int64
	Name     string
	Weight   string
	Value    string
	Category string
}

// ContainerContents is the item table and its running totals.
type ContainerContents struct {
	Rows        []ContainerRow
	TotalWeight string
	TotalValue  string
}

// BuildContainerContents renders the items and sums weight and value.
// Null values count as zero toward the total but render as the placeholder.
func BuildContainerContents(items []gear.Item) ContainerContents {
	var c ContainerContents
	var weight, value float64
	for _, it := range items {
		c.Rows = append(c.Rows, ContainerRow{
			ID:       it.ID,
			Name:     it.Name,
			Weight:   FormatWeight(it.Weight),
			Value:    FormatMoney(it.Value),
			Category: orPlaceholder(it.Category),
		})
		weight += it.Weight
		if it.Value != nil {
			value += *it.Value
		}
	}
	c.TotalWeight = fmt.Sprintf("%.2f", weight)
	c.TotalValue = fmt.Sprintf("%.2f", value)
	return c
}

// Candidate is an item that can be moved into the current container.
type Candidate struct {
	ID    int64
	Label string
}

// FilterCandidates keeps items whose name contains query (case-insensitive)
// and that are not already in the container.
func FilterCandidates(items []gear.Item, containerID int64, query string) []gear.Item {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []gear.Item
	for _, it := range items {
		if it.InLocation(containerID) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(it.Name), q) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// BuildCandidates filters items and labels each "<name> (W: <w>, V: <v>)",
// adding " - In: <location>" for items currently assigned elsewhere.
func BuildCandidates(items []gear.Item, locs []location.Location, containerID int64, query string) []Candidate {
	byID := indexLocations(locs)
	filtered := FilterCandidates(items, containerID, query)
	out := make([]Candidate, 0, len(filtered))
	for _, it := range filtered {
		v := 0.0
		if it.Value != nil {
			v = *it.Value
		}
		label := fmt.Sprintf("%s (W: %s, V: %s)", it.Name, FormatNumber(it.Weight), FormatNumber(v))
		if name := LocationName(it, byID); name != Placeholder {
			label += " - In: " + name
		}
		out = append(out, Candidate{ID: it.ID, Label: label})
	}
	return out
}
