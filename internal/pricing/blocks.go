package pricing

import (
	"cmp"
	"slices"
	"time"

	"github.com/pkordes/hotel-offers/internal/domain"
)

// PriceBlock is a run of consecutive dates of one category with identical
// breakfast and full-board prices.
type PriceBlock struct {
	Category       string
	BreakfastPrice int
	FullBoardPrice int
	Start          time.Time
	End            time.Time

	// Dates lists every member date; offer validity is still checked per
	// day because stay windows can end inside a uniform price block.
	Dates []time.Time

	// LastRoomDates is the subset of Dates flagged "last room".
	LastRoomDates []time.Time
}

// Nights returns the block length used for minimum-stay checks.
func (b PriceBlock) Nights() int {
	return len(b.Dates)
}

// IsLastRoom reports whether d was flagged "last room" within the block.
func (b PriceBlock) IsLastRoom(d time.Time) bool {
	for _, lr := range b.LastRoomDates {
		if lr.Equal(d) {
			return true
		}
	}
	return false
}

// GroupPrices collapses price rows into contiguous blocks.
//
// Rows are sorted by (category, breakfast price, full-board price, date)
// and walked once: a row extends the current block only when its category
// and both prices are equal and its date is the day after the block's last
// date. The "last room" flag does not split blocks.
func GroupPrices(prices []domain.RegularPrice) []PriceBlock {
	if len(prices) == 0 {
		return nil
	}

	sorted := slices.Clone(prices)
	slices.SortStableFunc(sorted, func(a, b domain.RegularPrice) int {
		return cmp.Or(
			cmp.Compare(a.Category, b.Category),
			cmp.Compare(a.BreakfastPrice, b.BreakfastPrice),
			cmp.Compare(a.FullBoardPrice, b.FullBoardPrice),
			a.Date.Compare(b.Date),
		)
	})

	var blocks []PriceBlock
	cur := newBlock(sorted[0])
	for _, p := range sorted[1:] {
		sameKey := p.Category == cur.Category &&
			p.BreakfastPrice == cur.BreakfastPrice &&
			p.FullBoardPrice == cur.FullBoardPrice
		if sameKey && domain.IsNextDay(cur.End, p.Date) {
			cur.End = p.Date
			cur.Dates = append(cur.Dates, p.Date)
			if p.IsLastRoom {
				cur.LastRoomDates = append(cur.LastRoomDates, p.Date)
			}
			continue
		}
		blocks = append(blocks, cur)
		cur = newBlock(p)
	}
	return append(blocks, cur)
}

func newBlock(p domain.RegularPrice) PriceBlock {
	b := PriceBlock{
		Category:       p.Category,
		BreakfastPrice: p.BreakfastPrice,
		FullBoardPrice: p.FullBoardPrice,
		Start:          p.Date,
		End:            p.Date,
		Dates:          []time.Time{p.Date},
	}
	if p.IsLastRoom {
		b.LastRoomDates = []time.Time{p.Date}
	}
	return b
}
