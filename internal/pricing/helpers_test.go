package pricing_test

import (
	"time"

	"github.com/pkordes/hotel-offers/internal/domain"
)

// june returns 2025-06-<day> as UTC midnight.
func june(day int) time.Time {
	return time.Date(2025, time.June, day, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

// priceRun returns one RegularPrice per day from first to last inclusive.
func priceRun(category string, first, last, breakfast, fullBoard int) []domain.RegularPrice {
	var out []domain.RegularPrice
	for d := first; d <= last; d++ {
		out = append(out, domain.RegularPrice{
			Category:       category,
			Date:           june(d),
			BreakfastPrice: breakfast,
			FullBoardPrice: fullBoard,
		})
	}
	return out
}

func hotelRooms() []domain.RoomCategory {
	return []domain.RoomCategory{
		{Name: "Делюкс", BedCapacity: 2},
		{Name: "Семейный люкс", BedCapacity: 4},
		{Name: "Коннект делюкс", BedCapacity: 4},
		{Name: "Апартаменты в японском саду «имение Сёгуна»", BedCapacity: 3},
		{Name: "Вилла Премьер", BedCapacity: 6},
	}
}
