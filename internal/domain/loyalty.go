package domain

import "strings"

// LoyaltyTable maps a normalised loyalty tier label to a discount percentage (0-100).
type LoyaltyTable map[string]int

// NormalizeLoyalty trims and lowercases a loyalty label.
func NormalizeLoyalty(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Percent returns the discount percentage for label, or 0 when the label is
// empty or unknown.
func (t LoyaltyTable) Percent(label string) int {
	key := NormalizeLoyalty(label)
	if key == "" {
		return 0
	}
	return t[key]
}
