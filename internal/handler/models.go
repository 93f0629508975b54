package handler

import (
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/hotel-offers/internal/domain"
	"github.com/pkordes/hotel-offers/internal/pricing"
)

// Wire types for the JSON API. Field names follow spec/openapi.yaml.

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type RunSummary struct {
	RunID      uuid.UUID          `json:"run_id"`
	Today      openapi_types.Date `json:"today"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	DurationMS int64              `json:"duration_ms"`
	Guests     int                `json:"guests"`
	Priced     int                `json:"priced"`
	Skipped    int                `json:"skipped"`
	Failed     int                `json:"failed"`
	Rows       int                `json:"rows"`
}

type Event struct {
	ID         int64          `json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	Level      string         `json:"level"`
	Source     string         `json:"source"`
	Event      string         `json:"event"`
	Message    string         `json:"message"`
	RunID      *string        `json:"run_id,omitempty"`
	DurationMS *int64         `json:"duration_ms,omitempty"`
	Meta       map[string]any `json:"meta"`
}

type EventList struct {
	Data       []Event    `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// AppliedOffer is the special offer a price row was computed with.
type AppliedOffer struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Text    string    `json:"text,omitempty"`
	MinDays int       `json:"min_days"`
}

// AppliedLoyalty is the loyalty tier discount a price row was computed with.
type AppliedLoyalty struct {
	Level   string `json:"level"`
	Percent int    `json:"percent"`
}

type GuestPrice struct {
	ID                  int64               `json:"id"`
	Category            string              `json:"category"`
	Period              string              `json:"period"`
	Start               *openapi_types.Date `json:"start,omitempty"`
	End                 *openapi_types.Date `json:"end,omitempty"`
	RegularBreakfast    int                 `json:"regular_breakfast"`
	DiscountedBreakfast int                 `json:"discounted_breakfast"`
	RegularFullBoard    int                 `json:"regular_full_board"`
	DiscountedFullBoard int                 `json:"discounted_full_board"`
	Offer               *AppliedOffer       `json:"offer,omitempty"`
	Loyalty             *AppliedLoyalty     `json:"loyalty,omitempty"`
	FormulaUsed         *string             `json:"formula_used,omitempty"`
	LastRoomDates       []string            `json:"last_room_dates"`
	CreatedAt           time.Time           `json:"created_at"`
}

type GuestPriceList struct {
	Data []GuestPrice `json:"data"`
}

type CategoryOffers struct {
	Category string       `json:"category"`
	Items    []GuestPrice `json:"items"`
}

type GuestOffersList struct {
	Data []CategoryOffers `json:"data"`
}

// ---- mapping ------------------------------------------------------------------

func toRunSummary(s domain.RunSummary) RunSummary {
	return RunSummary{
		RunID:      s.RunID,
		Today:      openapi_types.Date{Time: s.Today},
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		DurationMS: s.Duration().Milliseconds(),
		Guests:     s.Guests,
		Priced:     s.Priced,
		Skipped:    s.Skipped,
		Failed:     s.Failed,
		Rows:       s.Rows,
	}
}

func toEvent(e domain.Event) Event {
	out := Event{
		ID:         e.ID,
		CreatedAt:  e.CreatedAt,
		Level:      e.Level,
		Source:     e.Source,
		Event:      e.Event,
		Message:    e.Message,
		DurationMS: e.DurationMS,
		Meta:       e.Meta,
	}
	if e.RunID != "" {
		runID := e.RunID
		out.RunID = &runID
	}
	if out.Meta == nil {
		out.Meta = map[string]any{}
	}
	return out
}

func toEvents(events []domain.Event) []Event {
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = toEvent(e)
	}
	return out
}

func toGuestPrice(p domain.GuestPrice) GuestPrice {
	out := GuestPrice{
		ID:                  p.ID,
		Category:            p.Category,
		Period:              p.Period,
		RegularBreakfast:    p.RegularBreakfast,
		DiscountedBreakfast: p.DiscountedBreakfast,
		RegularFullBoard:    p.RegularFullBoard,
		DiscountedFullBoard: p.DiscountedFullBoard,
		LastRoomDates:       p.LastRoomDateList(),
		CreatedAt:           p.CreatedAt,
	}
	// Rows written before the period format settled may not parse; the raw
	// period string is still returned.
	if start, end, err := pricing.ParsePeriod(p.Period); err == nil {
		out.Start = &openapi_types.Date{Time: start}
		out.End = &openapi_types.Date{Time: end}
	}
	if p.AppliedOffer.Valid {
		out.Offer = &AppliedOffer{
			ID:      p.AppliedOffer.UUID,
			Title:   p.OfferTitle,
			Text:    p.OfferText,
			MinDays: p.OfferMinDays,
		}
	}
	if p.AppliedLoyalty != "" {
		out.Loyalty = &AppliedLoyalty{Level: p.AppliedLoyalty, Percent: p.LoyaltyPercent}
	}
	if p.FormulaUsed != "" {
		formula := p.FormulaUsed
		out.FormulaUsed = &formula
	}
	if out.LastRoomDates == nil {
		out.LastRoomDates = []string{}
	}
	return out
}

func toGuestPrices(prices []domain.GuestPrice) []GuestPrice {
	out := make([]GuestPrice, len(prices))
	for i, p := range prices {
		out[i] = toGuestPrice(p)
	}
	return out
}

func toCategoryOffers(groups []domain.CategoryOffers) []CategoryOffers {
	out := make([]CategoryOffers, len(groups))
	for i, g := range groups {
		out[i] = CategoryOffers{Category: g.Category, Items: toGuestPrices(g.Items)}
	}
	return out
}
