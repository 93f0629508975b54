package pricing

import (
	"time"

	"github.com/pkordes/hotel-offers/internal/domain"
)

// Engine bundles the configurable parts of the pricing pipeline.
// It is safe for concurrent use: all methods are read-only.
type Engine struct {
	matcher *Matcher
	vocab   Vocabulary
}

// NewEngine builds an Engine using the default vocabulary and alias families.
func NewEngine(policy MatchPolicy) *Engine {
	return &Engine{
		matcher: NewMatcher(policy, DefaultAliasFamilies),
		vocab:   DefaultVocabulary,
	}
}

// Matcher exposes the engine's category matcher.
func (e *Engine) Matcher() *Matcher {
	return e.matcher
}

// MatchCategories returns the categories the guest may book.
func (e *Engine) MatchCategories(guest domain.Guest, rooms []domain.RoomCategory) []string {
	return e.matcher.Match(guest, rooms)
}

// NewResolver builds an OfferResolver for one run.
func (e *Engine) NewResolver(offers []domain.SpecialOffer, windows domain.StayWindows, today time.Time) *OfferResolver {
	return NewOfferResolver(offers, windows, today, e.vocab)
}

// PriceStays produces one PricedStay per price row of the guest.
//
// Rows are grouped into blocks first; the block length drives the
// minimum-stay check, while the offer itself is resolved per date. Both
// tariffs are priced against the same resolved offer. The recorded
// provenance prefers the breakfast result and falls back to full board.
func (e *Engine) PriceStays(guest domain.Guest, prices []domain.RegularPrice, loyalty domain.LoyaltyTable, resolver *OfferResolver) []domain.PricedStay {
	blocks := GroupPrices(prices)
	stays := make([]domain.PricedStay, 0, len(prices))

	for _, b := range blocks {
		nights := b.Nights()
		for _, dt := range b.Dates {
			var offer *domain.SpecialOffer
			if o, ok := resolver.Resolve(b.Category, dt, nights); ok {
				offer = &o
			}

			bf := CalculateDiscount(b.BreakfastPrice, guest.LoyaltyStatus, loyalty, offer)
			fb := CalculateDiscount(b.FullBoardPrice, guest.LoyaltyStatus, loyalty, offer)

			stay := domain.PricedStay{
				GuestID:             guest.ID,
				Category:            b.Category,
				Date:                dt,
				RegularBreakfast:    b.BreakfastPrice,
				DiscountedBreakfast: bf.Price,
				RegularFullBoard:    b.FullBoardPrice,
				DiscountedFullBoard: fb.Price,
				AppliedOffer:        bf.AppliedOffer,
				AppliedLoyalty:      bf.AppliedLoyalty,
				FormulaUsed:         bf.FormulaUsed,
				IsLastRoom:          b.IsLastRoom(dt),
			}
			if !stay.AppliedOffer.Valid {
				stay.AppliedOffer = fb.AppliedOffer
			}
			if stay.AppliedLoyalty == "" {
				stay.AppliedLoyalty = fb.AppliedLoyalty
			}
			stays = append(stays, stay)
		}
	}
	return stays
}
