package pricing

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// categoryReplacer removes array/quote punctuation that leaks in from
// scraped text and Postgres array literals, unifies curly apostrophes and
// folds "ё" into "е" (the two are used interchangeably in category names).
var categoryReplacer = strings.NewReplacer(
	"{", "",
	"}", "",
	`"`, "",
	"‘", "'",
	"’", "'",
	"ё", "е",
)

// NormalizeCategory returns the comparison form of a category name or
// preference: NFC-composed, lowercased, punctuation-stripped and trimmed.
//
// NFC composition runs first so that a decomposed "е"+U+0308 is folded
// the same way as a precomposed "ё".
func NormalizeCategory(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	s = categoryReplacer.Replace(s)
	return strings.TrimSpace(s)
}

// normalizeAll normalises every entry of values, dropping entries that
// normalise to the empty string.
func normalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := NormalizeCategory(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func equalsAny(s string, candidates []string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
