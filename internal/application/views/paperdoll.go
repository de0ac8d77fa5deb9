package views

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"kitbox/internal/domain/gear"
	"kitbox/internal/domain/location"
)

// slotLabelRunes is how much of an item name fits inside a visual slot.
const slotLabelRunes = 12

// SlotDef maps a body-slot location name to the visual position it occupies.
type SlotDef struct {
	Name string `yaml:"name"`
	Key  string `yaml:"key"`
}

// SlotCatalog is the ordered table of visual slots drawn on the paperdoll.
type SlotCatalog struct {
	slots  []SlotDef
	byName map[string]SlotDef
}

var (
	ErrEmptyCatalog   = errors.New("slot catalog has no slots")
	ErrSlotIncomplete = errors.New("slot needs both a name and a key")
	ErrDuplicateSlot  = errors.New("duplicate slot name or key")
)

// NewSlotCatalog validates defs and indexes them by name.
// PRE: none
// POST: Returns a catalog preserving the order of defs, or an error on an empty, incomplete or duplicated entry
func NewSlotCatalog(defs []SlotDef) (*SlotCatalog, error) {
	if len(defs) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &SlotCatalog{byName: make(map[string]SlotDef, len(defs))}
	keys := make(map[string]bool, len(defs))
	for _, d := range defs {
		d.Name, d.Key = strings.TrimSpace(d.Name), strings.TrimSpace(d.Key)
		if d.Name == "" || d.Key == "" {
			return nil, fmt.Errorf("%w: %+v", ErrSlotIncomplete, d)
		}
		if _, dup := c.byName[d.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSlot, d.Name)
		}
		if keys[d.Key] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSlot, d.Key)
		}
		keys[d.Key] = true
		c.slots = append(c.slots, d)
		c.byName[d.Name] = d
	}
	return c, nil
}

// DefaultSlotCatalog is the built-in seventeen-slot body layout.
func DefaultSlotCatalog() *SlotCatalog {
	c, err := NewSlotCatalog([]SlotDef{
		{Name: "Head", Key: "Head"},
		{Name: "Neck", Key: "Neck"},
		{Name: "Shoulders", Key: "Shoulders"},
		{Name: "Shoulder L", Key: "Shoulder_L"},
		{Name: "Shoulder R", Key: "Shoulder_R"},
		{Name: "Arms", Key: "Arms"},
		{Name: "Arms L", Key: "Arms_L"},
		{Name: "Arms R", Key: "Arms_R"},
		{Name: "Hands", Key: "Hands"},
		{Name: "Hand L", Key: "Hand_L"},
		{Name: "Hand R", Key: "Hand_R"},
		{Name: "Torso", Key: "Torso"},
		{Name: "Waist", Key: "Waist"},
		{Name: "Legs", Key: "Legs"},
		{Name: "Feet", Key: "Feet"},
		{Name: "Foot L", Key: "Foot_L"},
		{Name: "Foot R", Key: "Foot_R"},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// LoadSlotCatalog reads a YAML list of {name, key} entries.
// An empty path returns the default catalog.
func LoadSlotCatalog(path string) (*SlotCatalog, error) {
	if path == "" {
		return DefaultSlotCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read slot catalog: %w", err)
	}
	var doc struct {
		Slots []SlotDef `yaml:"slots"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse slot catalog %s: %w", path, err)
	}
	return NewSlotCatalog(doc.Slots)
}

// Slots returns the catalog in display order.
func (c *SlotCatalog) Slots() []SlotDef {
	return append([]SlotDef(nil), c.slots...)
}

// Lookup finds the visual slot for a location name.
func (c *SlotCatalog) Lookup(name string) (SlotDef, bool) {
	d, ok := c.byName[name]
	return d, ok
}

// VisualSlot is one positioned box on the paperdoll diagram.
type VisualSlot struct {
	Name    string
	Key     string
	Label   string
	Tooltip string
	Filled  bool
}

// SlotSummary is one line of the equipped-items text list.
type SlotSummary struct {
	Name  string
	Items string
}

// ContainerLink points at a container's detail page.
type ContainerLink struct {
	ID   int64
	Name string
	Href string
}

// Paperdoll is the full view-model of the equipment page.
type Paperdoll struct {
	Slots      []VisualSlot
	Summary    []SlotSummary
	Containers []ContainerLink
}

// BuildPaperdoll joins gear to body-slot and container locations.
// PRE: catalog is non-nil
// POST: Slots has one entry per catalog slot, in catalog order
// INVARIANT: body-slot locations missing from the catalog appear in Summary but not in Slots
func BuildPaperdoll(catalog *SlotCatalog, items []gear.Item, locs []location.Location) Paperdoll {
	var p Paperdoll

	slots := catalog.Slots()
	position := make(map[string]int, len(slots))
	for i, d := range slots {
		p.Slots = append(p.Slots, VisualSlot{Name: d.Name, Key: d.Key, Label: d.Name, Tooltip: d.Name})
		position[d.Key] = i
	}

	for _, loc := range locs {
		switch {
		case loc.IsBodySlot():
			names := itemNamesIn(items, loc.ID)
			text := "Empty"
			if len(names) > 0 {
				text = strings.Join(names, ", ")
			}
			p.Summary = append(p.Summary, SlotSummary{Name: loc.Name, Items: text})

			d, ok := catalog.Lookup(loc.Name)
			if !ok {
				continue
			}
			vs := &p.Slots[position[d.Key]]
			if len(names) > 0 {
				vs.Label = TruncateName(names[0])
				vs.Tooltip = text
				vs.Filled = true
			} else {
				vs.Label, vs.Tooltip, vs.Filled = loc.Name, loc.Name, false
			}
		case loc.IsContainer():
			p.Containers = append(p.Containers, ContainerLink{
				ID:   loc.ID,
				Name: loc.Name,
				Href: ContainerHref(loc.ID, loc.Name),
			})
		}
	}
	return p
}

// TruncateName shortens a name to the slot width, appending "..." when cut.
func TruncateName(name string) string {
	r := []rune(name)
	if len(r) <= slotLabelRunes {
		return name
	}
	return string(r[:slotLabelRunes]) + "..."
}

// ContainerHref builds the container page URL for a location.
func ContainerHref(id int64, name string) string {
	q := url.Values{}
	q.Set("location_id", strconv.FormatInt(id, 10))
	q.Set("name", name)
	return "/containers?" + q.Encode()
}

func itemNamesIn(items []gear.Item, locationID int64) []string {
	var names []string
	for _, it := range items {
		if it.InLocation(locationID) {
			names = append(names, it.Name)
		}
	}
	return names
}
