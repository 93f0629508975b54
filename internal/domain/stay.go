package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PricedStay is the computed price of one category on one date for one guest.
// It is produced by the pricing engine and consumed immediately by the
// period aggregator.
type PricedStay struct {
	GuestID  int64
	Category string
	Date     time.Time

	RegularBreakfast    int
	DiscountedBreakfast int
	RegularFullBoard    int
	DiscountedFullBoard int

	// Provenance. Empty strings and an invalid NullUUID mean "not applied".
	AppliedOffer   uuid.NullUUID
	AppliedLoyalty string
	FormulaUsed    string

	IsLastRoom bool
}

// AggregatedRow is a run of contiguous dates sharing identical guest, category,
// prices and provenance. It is the unit persisted to guest_prices.
type AggregatedRow struct {
	GuestID  int64
	Category string

	// Period is "YYYY-MM-DD" for a single date or "YYYY-MM-DD..YYYY-MM-DD".
	Period string

	RegularBreakfast    int
	DiscountedBreakfast int
	RegularFullBoard    int
	DiscountedFullBoard int

	AppliedOffer   uuid.NullUUID
	AppliedLoyalty string
	FormulaUsed    string

	// LastRoomDates is the comma-joined, sorted, de-duplicated list of ISO
	// dates in the period flagged "last room"; empty when none are.
	LastRoomDates string
}

// IsLastRoom reports whether any date in the period was flagged "last room".
func (r AggregatedRow) IsLastRoom() bool {
	return r.LastRoomDates != ""
}

// LastRoomDateList splits LastRoomDates into individual ISO dates.
func (r AggregatedRow) LastRoomDateList() []string {
	if r.LastRoomDates == "" {
		return nil
	}
	return strings.Split(r.LastRoomDates, ",")
}

// GuestPrice is a persisted AggregatedRow enriched with the details the
// notification layer shows next to it.
type GuestPrice struct {
	ID int64
	AggregatedRow

	OfferTitle     string
	OfferText      string
	OfferMinDays   int
	LoyaltyPercent int

	CreatedAt time.Time
}

// CategoryOffers groups a guest's persisted prices by category.
type CategoryOffers struct {
	Category string
	Items    []GuestPrice
}
