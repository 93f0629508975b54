package domain

import (
	"time"

	"github.com/google/uuid"
)

// SpecialOffer is a promotional rule loaded fresh for every pricing run.
// Stay-date windows are kept separately in StayWindows, keyed by offer ID.
type SpecialOffer struct {
	ID    uuid.UUID
	Title string
	Text  string

	// Categories is the category scope. It may contain the wildcards
	// "all categories" / "all villas" (or their Russian equivalents).
	Categories []string

	// Formula is the price transformation, e.g. "N = (C * 3) / 4".
	// Empty means the offer does not change the price.
	Formula string

	// MinDays is the minimum contiguous stay length in nights. Zero means no minimum.
	MinDays int

	// LoyaltyCompatible reports whether a loyalty discount may stack on top.
	LoyaltyCompatible bool

	// BookingStart and BookingEnd bound the date on which the booking is made.
	// Nil means unbounded on that side.
	BookingStart *time.Time
	BookingEnd   *time.Time

	CreatedAt time.Time
}

// StayWindow is an inclusive stay-date range during which an offer is valid.
type StayWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls within the window, inclusive of both ends.
func (w StayWindow) Contains(d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// StayWindows maps an offer ID to its stay-date windows.
type StayWindows map[uuid.UUID][]StayWindow
