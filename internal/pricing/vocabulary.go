package pricing

// Vocabulary holds the literal markers the engine recognises in offer
// scopes and category names. Entries are compared after NormalizeCategory.
type Vocabulary struct {
	// AllCategories are offer scope entries that match every category.
	AllCategories []string

	// AllVillas are offer scope entries that match every villa category.
	AllVillas []string

	// VillaMarkers identify a villa: a category whose normalised name
	// contains any marker is a villa.
	VillaMarkers []string
}

// DefaultVocabulary covers the hotel's Russian vocabulary and its English
// equivalents.
var DefaultVocabulary = Vocabulary{
	AllCategories: []string{"все категории", "all categories"},
	AllVillas:     []string{"все виллы", "all villas"},
	VillaMarkers:  []string{"вилла", "villa"},
}

func (v Vocabulary) normalized() Vocabulary {
	return Vocabulary{
		AllCategories: normalizeAll(v.AllCategories),
		AllVillas:     normalizeAll(v.AllVillas),
		VillaMarkers:  normalizeAll(v.VillaMarkers),
	}
}

// IsVilla reports whether the normalised category name denotes a villa.
func (v Vocabulary) IsVilla(normalizedCategory string) bool {
	return containsAny(normalizedCategory, v.VillaMarkers)
}
