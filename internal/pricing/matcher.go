package pricing

import (
	"fmt"
	"strings"

	"github.com/pkordes/hotel-offers/internal/domain"
)

// MatchPolicy selects how guest preferences are compared to category names.
type MatchPolicy string

const (
	// MatchSubstring accepts a category when a preference is a substring of
	// the category name or the name is a substring of the preference.
	MatchSubstring MatchPolicy = "substring"

	// MatchExact accepts a category when a preference equals its name, with
	// alias families (villas, the shogun estate) matched by marker instead.
	MatchExact MatchPolicy = "exact"
)

// ParseMatchPolicy converts a configuration value into a MatchPolicy.
func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch p := MatchPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case MatchSubstring, MatchExact:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown category match policy %q", domain.ErrValidation, s)
	}
}

// AliasFamily groups categories that a single preference should select
// under MatchExact, e.g. "villa" selecting every villa.
type AliasFamily struct {
	// Markers identify members: a category whose normalised name contains
	// any marker belongs to the family.
	Markers []string

	// ExactTrigger requires the preference to equal a marker. Otherwise a
	// preference containing any marker selects the family.
	ExactTrigger bool
}

func (f AliasFamily) triggeredBy(pref string) bool {
	if f.ExactTrigger {
		return equalsAny(pref, f.Markers)
	}
	return containsAny(pref, f.Markers)
}

// DefaultAliasFamilies are the two families the hotel names loosely.
var DefaultAliasFamilies = []AliasFamily{
	{Markers: []string{"вилла", "villa"}, ExactTrigger: true},
	{Markers: []string{"имение сегуна", "сегуна", "shogun"}},
}

// Matcher selects the room categories a guest may book.
type Matcher struct {
	policy  MatchPolicy
	aliases []AliasFamily
}

// NewMatcher returns a Matcher for policy. An empty policy means MatchSubstring.
func NewMatcher(policy MatchPolicy, aliases []AliasFamily) *Matcher {
	if policy == "" {
		policy = MatchSubstring
	}
	normalized := make([]AliasFamily, 0, len(aliases))
	for _, f := range aliases {
		normalized = append(normalized, AliasFamily{Markers: normalizeAll(f.Markers), ExactTrigger: f.ExactTrigger})
	}
	return &Matcher{policy: policy, aliases: normalized}
}

// Policy returns the configured match policy.
func (m *Matcher) Policy() MatchPolicy {
	return m.policy
}

// Match returns the names of the rooms the guest may book, in room order.
//
// A room is accepted when the guest stated no preferences or at least one
// preference matches it under the policy, and when adults + teens fit in
// its main beds. Infants never count against capacity.
func (m *Matcher) Match(guest domain.Guest, rooms []domain.RoomCategory) []string {
	prefs := normalizeAll(guest.PreferredCategories)
	occupants := guest.Occupants()

	var matched []string
	for _, room := range rooms {
		if len(prefs) > 0 && !m.anyPrefers(prefs, NormalizeCategory(room.Name)) {
			continue
		}
		if occupants > room.BedCapacity {
			continue
		}
		matched = append(matched, room.Name)
	}
	return matched
}

// Prefers reports whether a single preference selects the category name.
func (m *Matcher) Prefers(pref, category string) bool {
	p := NormalizeCategory(pref)
	if p == "" {
		return false
	}
	return m.prefers(p, NormalizeCategory(category))
}

func (m *Matcher) anyPrefers(prefs []string, room string) bool {
	for _, p := range prefs {
		if m.prefers(p, room) {
			return true
		}
	}
	return false
}

func (m *Matcher) prefers(pref, room string) bool {
	if room == "" {
		return false
	}
	if m.policy == MatchExact {
		for _, f := range m.aliases {
			if f.triggeredBy(pref) {
				return containsAny(room, f.Markers)
			}
		}
		return pref == room
	}
	return strings.Contains(room, pref) || strings.Contains(pref, room)
}
