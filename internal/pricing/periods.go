package pricing

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/hotel-offers/internal/domain"
)

// PeriodDelimiter separates the start and end dates of a range period.
const PeriodDelimiter = ".."

// FormatPeriod renders a period as a single ISO date when start equals end,
// or as "start..end" otherwise.
func FormatPeriod(start, end time.Time) string {
	if start.Equal(end) {
		return start.Format(domain.DateLayout)
	}
	return start.Format(domain.DateLayout) + PeriodDelimiter + end.Format(domain.DateLayout)
}

// ParsePeriod reverses FormatPeriod.
func ParsePeriod(period string) (start, end time.Time, err error) {
	first, last, isRange := strings.Cut(period, PeriodDelimiter)
	start, err = time.Parse(domain.DateLayout, first)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: period %q: %v", domain.ErrValidation, period, err)
	}
	if !isRange {
		return start, start, nil
	}
	end, err = time.Parse(domain.DateLayout, last)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: period %q: %v", domain.ErrValidation, period, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: period %q ends before it starts", domain.ErrValidation, period)
	}
	return start, end, nil
}

// Aggregate collapses priced stays into the minimal number of period rows.
//
// Stays are sorted by guest, category, offer, loyalty, formula, the four
// prices and finally date, so the output does not depend on input order.
// A stay extends the current run when every one of those keys except the
// date is equal and its date is the day after the run's last date.
func Aggregate(stays []domain.PricedStay) []domain.AggregatedRow {
	if len(stays) == 0 {
		return nil
	}

	sorted := slices.Clone(stays)
	slices.SortStableFunc(sorted, compareStays)

	var rows []domain.AggregatedRow
	run := newRun(sorted[0])
	for _, s := range sorted[1:] {
		if sameGroup(run.first, s) && domain.IsNextDay(run.end, s.Date) {
			run.extend(s)
			continue
		}
		rows = append(rows, run.row())
		run = newRun(s)
	}
	return append(rows, run.row())
}

type stayRun struct {
	first     domain.PricedStay
	start     time.Time
	end       time.Time
	lastRooms []string
}

func newRun(s domain.PricedStay) *stayRun {
	r := &stayRun{first: s, start: s.Date, end: s.Date}
	if s.IsLastRoom {
		r.lastRooms = append(r.lastRooms, s.Date.Format(domain.DateLayout))
	}
	return r
}

func (r *stayRun) extend(s domain.PricedStay) {
	r.end = s.Date
	if s.IsLastRoom {
		r.lastRooms = append(r.lastRooms, s.Date.Format(domain.DateLayout))
	}
}

func (r *stayRun) row() domain.AggregatedRow {
	lastRooms := slices.Clone(r.lastRooms)
	slices.Sort(lastRooms)
	lastRooms = slices.Compact(lastRooms)

	s := r.first
	return domain.AggregatedRow{
		GuestID:             s.GuestID,
		Category:            s.Category,
		Period:              FormatPeriod(r.start, r.end),
		RegularBreakfast:    s.RegularBreakfast,
		DiscountedBreakfast: s.DiscountedBreakfast,
		RegularFullBoard:    s.RegularFullBoard,
		DiscountedFullBoard: s.DiscountedFullBoard,
		AppliedOffer:        s.AppliedOffer,
		AppliedLoyalty:      s.AppliedLoyalty,
		FormulaUsed:         s.FormulaUsed,
		LastRoomDates:       strings.Join(lastRooms, ","),
	}
}

func sameGroup(a, b domain.PricedStay) bool {
	return a.GuestID == b.GuestID &&
		a.Category == b.Category &&
		a.RegularBreakfast == b.RegularBreakfast &&
		a.DiscountedBreakfast == b.DiscountedBreakfast &&
		a.RegularFullBoard == b.RegularFullBoard &&
		a.DiscountedFullBoard == b.DiscountedFullBoard &&
		a.AppliedOffer == b.AppliedOffer &&
		a.AppliedLoyalty == b.AppliedLoyalty &&
		a.FormulaUsed == b.FormulaUsed
}

func compareStays(a, b domain.PricedStay) int {
	return cmp.Or(
		cmp.Compare(a.GuestID, b.GuestID),
		cmp.Compare(a.Category, b.Category),
		cmp.Compare(offerKey(a.AppliedOffer), offerKey(b.AppliedOffer)),
		cmp.Compare(a.AppliedLoyalty, b.AppliedLoyalty),
		cmp.Compare(a.FormulaUsed, b.FormulaUsed),
		cmp.Compare(a.RegularBreakfast, b.RegularBreakfast),
		cmp.Compare(a.DiscountedBreakfast, b.DiscountedBreakfast),
		cmp.Compare(a.RegularFullBoard, b.RegularFullBoard),
		cmp.Compare(a.DiscountedFullBoard, b.DiscountedFullBoard),
		a.Date.Compare(b.Date),
	)
}

// offerKey sorts "no offer" before any offer ID.
func offerKey(id uuid.NullUUID) string {
	if !id.Valid {
		return ""
	}
	return id.UUID.String()
}
