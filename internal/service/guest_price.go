package service

import (
	"context"
	"fmt"

	"github.com/pkordes/hotel-offers/internal/domain"
	"github.com/pkordes/hotel-offers/internal/repo"
)

// GuestPriceService answers queries over the prices computed for a guest.
type GuestPriceService struct {
	guests repo.GuestRepo
	prices repo.GuestPriceRepo
}

// NewGuestPriceService constructs a GuestPriceService.
func NewGuestPriceService(guests repo.GuestRepo, prices repo.GuestPriceRepo) *GuestPriceService {
	return &GuestPriceService{guests: guests, prices: prices}
}

// List returns the guest's stored rows, optionally restricted to one category.
// Returns domain.ErrNotFound if the guest does not exist.
func (s *GuestPriceService) List(ctx context.Context, guestID int64, category string) ([]domain.GuestPrice, error) {
	if _, err := s.guests.GetByID(ctx, guestID); err != nil {
		return nil, fmt.Errorf("service.GuestPriceService.List: %w", err)
	}
	prices, err := s.prices.ListByGuest(ctx, guestID, category)
	if err != nil {
		return nil, fmt.Errorf("service.GuestPriceService.List: %w", err)
	}
	return prices, nil
}

// Offers returns the categories the guest can afford, each with all of its
// rows, in category order.
func (s *GuestPriceService) Offers(ctx context.Context, guestID int64) ([]domain.CategoryOffers, error) {
	if _, err := s.guests.GetByID(ctx, guestID); err != nil {
		return nil, fmt.Errorf("service.GuestPriceService.Offers: %w", err)
	}
	prices, err := s.prices.ListAffordable(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("service.GuestPriceService.Offers: %w", err)
	}
	return groupByCategory(prices), nil
}

// groupByCategory groups rows already ordered by category.
func groupByCategory(prices []domain.GuestPrice) []domain.CategoryOffers {
	out := []domain.CategoryOffers{}
	for _, p := range prices {
		if n := len(out); n > 0 && out[n-1].Category == p.Category {
			out[n-1].Items = append(out[n-1].Items, p)
			continue
		}
		out = append(out, domain.CategoryOffers{Category: p.Category, Items: []domain.GuestPrice{p}})
	}
	return out
}
