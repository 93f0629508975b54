package pricing

import (
	"time"

	"github.com/pkordes/hotel-offers/internal/domain"
)

// OfferResolver finds the special offer that applies to a category on a
// stay date. It is built once per run, with "today" fixed for booking
// window checks.
//
// Selection is first-match in load order: the first offer passing every
// predicate wins, even if a later one would give a bigger discount.
type OfferResolver struct {
	offers  []preparedOffer
	windows domain.StayWindows
	today   time.Time
	vocab   Vocabulary
}

type preparedOffer struct {
	offer     domain.SpecialOffer
	scope     []string // normalised Categories
	all       bool
	allVillas bool
}

// NewOfferResolver prepares offers for repeated resolution.
func NewOfferResolver(offers []domain.SpecialOffer, windows domain.StayWindows, today time.Time, vocab Vocabulary) *OfferResolver {
	vocab = vocab.normalized()
	r := &OfferResolver{
		offers:  make([]preparedOffer, 0, len(offers)),
		windows: windows,
		today:   domain.Day(today),
		vocab:   vocab,
	}
	for _, o := range offers {
		scope := normalizeAll(o.Categories)
		r.offers = append(r.offers, preparedOffer{
			offer:     o,
			scope:     scope,
			all:       anyEqualsAny(scope, vocab.AllCategories),
			allVillas: anyEqualsAny(scope, vocab.AllVillas),
		})
	}
	return r
}

// Resolve returns the first offer valid for category on date, given the
// length in nights of the enclosing price block.
func (r *OfferResolver) Resolve(category string, date time.Time, nights int) (domain.SpecialOffer, bool) {
	room := NormalizeCategory(category)
	for _, p := range r.offers {
		if !MatchesMinStay(p.offer, nights) {
			continue
		}
		if !p.matchesCategory(room, r.vocab) {
			continue
		}
		if !MatchesStayDate(r.windows[p.offer.ID], date) {
			continue
		}
		if !MatchesBookingWindow(p.offer, r.today) {
			continue
		}
		return p.offer, true
	}
	return domain.SpecialOffer{}, false
}

func (p preparedOffer) matchesCategory(room string, vocab Vocabulary) bool {
	if p.all {
		return true
	}
	if p.allVillas && vocab.IsVilla(room) {
		return true
	}
	return equalsAny(room, p.scope)
}

// MatchesCategory reports whether the offer's scope covers category.
// The scope matches on an "all categories" entry, on an "all villas" entry
// when the category is a villa, or on an entry equal to the category.
func MatchesCategory(offer domain.SpecialOffer, category string, vocab Vocabulary) bool {
	vocab = vocab.normalized()
	scope := normalizeAll(offer.Categories)
	p := preparedOffer{
		offer:     offer,
		scope:     scope,
		all:       anyEqualsAny(scope, vocab.AllCategories),
		allVillas: anyEqualsAny(scope, vocab.AllVillas),
	}
	return p.matchesCategory(NormalizeCategory(category), vocab)
}

// MatchesStayDate reports whether date falls in any window, inclusive.
// No windows means no match.
func MatchesStayDate(windows []domain.StayWindow, date time.Time) bool {
	for _, w := range windows {
		if w.Contains(date) {
			return true
		}
	}
	return false
}

// MatchesBookingWindow reports whether a booking made today is inside the
// offer's booking window. Unset bounds are open.
func MatchesBookingWindow(offer domain.SpecialOffer, today time.Time) bool {
	if offer.BookingStart != nil && offer.BookingStart.After(today) {
		return false
	}
	if offer.BookingEnd != nil && today.After(*offer.BookingEnd) {
		return false
	}
	return true
}

// MatchesMinStay reports whether a stay of nights satisfies the offer's
// minimum. An unset minimum is zero.
func MatchesMinStay(offer domain.SpecialOffer, nights int) bool {
	return nights >= offer.MinDays
}

func anyEqualsAny(values, candidates []string) bool {
	for _, v := range values {
		if equalsAny(v, candidates) {
			return true
		}
	}
	return false
}
