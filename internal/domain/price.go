package domain

import "time"

// RegularPrice is the undiscounted nightly price of a category on one date,
// for both tariffs. There is one row per category per date.
type RegularPrice struct {
	Category       string
	Date           time.Time // UTC midnight
	BreakfastPrice int
	FullBoardPrice int
	IsLastRoom     bool
}
