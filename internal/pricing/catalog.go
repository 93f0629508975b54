package pricing

import (
	"fmt"

	"github.com/pkordes/hotel-offers/internal/domain"
)

// Catalog is the closed set of room categories known to a pricing run.
// It rejects unnamed and duplicate categories so that matching works
// against a validated list rather than arbitrary free text.
type Catalog struct {
	rooms  []domain.RoomCategory
	byNorm map[string]domain.RoomCategory
}

// NewCatalog validates rooms and builds a Catalog preserving their order.
// Two names that normalise to the same string are duplicates.
func NewCatalog(rooms []domain.RoomCategory) (*Catalog, error) {
	c := &Catalog{
		rooms:  make([]domain.RoomCategory, 0, len(rooms)),
		byNorm: make(map[string]domain.RoomCategory, len(rooms)),
	}
	for _, r := range rooms {
		key := NormalizeCategory(r.Name)
		if key == "" {
			return nil, fmt.Errorf("%w: room category with empty name", domain.ErrValidation)
		}
		if r.BedCapacity < 0 {
			return nil, fmt.Errorf("%w: room category %q has negative bed capacity", domain.ErrValidation, r.Name)
		}
		if prev, ok := c.byNorm[key]; ok {
			return nil, fmt.Errorf("%w: room categories %q and %q collide", domain.ErrValidation, prev.Name, r.Name)
		}
		c.byNorm[key] = r
		c.rooms = append(c.rooms, r)
	}
	return c, nil
}

// Rooms returns the categories in load order.
func (c *Catalog) Rooms() []domain.RoomCategory {
	return c.rooms
}

// Lookup finds a category by name, comparing normalised forms.
func (c *Catalog) Lookup(name string) (domain.RoomCategory, bool) {
	r, ok := c.byNorm[NormalizeCategory(name)]
	return r, ok
}

// UnknownPreferences returns the guest preferences that select no category
// in the catalog under m's policy, regardless of capacity.
func (c *Catalog) UnknownPreferences(m *Matcher, prefs []string) []string {
	var unknown []string
	for _, p := range prefs {
		if NormalizeCategory(p) == "" {
			continue
		}
		found := false
		for _, r := range c.rooms {
			if m.Prefers(p, r.Name) {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, p)
		}
	}
	return unknown
}

// FilterPrices drops price rows that belong to a catalog category the guest
// was not matched to. Rows whose category is not in the catalog at all are
// kept, since price sources may spell categories differently; those were
// already selected by containment of a matched name.
func (c *Catalog) FilterPrices(prices []domain.RegularPrice, matched []string) []domain.RegularPrice {
	allowed := make(map[string]bool, len(matched))
	for _, m := range matched {
		allowed[NormalizeCategory(m)] = true
	}
	out := make([]domain.RegularPrice, 0, len(prices))
	for _, p := range prices {
		key := NormalizeCategory(p.Category)
		if _, known := c.byNorm[key]; known && !allowed[key] {
			continue
		}
		out = append(out, p)
	}
	return out
}
