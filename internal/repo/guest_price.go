package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/hotel-offers/internal/domain"
)

// GuestPriceRepo defines the persistence operations for a guest's computed prices.
type GuestPriceRepo interface {
	// Replace deletes every stored row of the guest and inserts rows, in one
	// transaction. Readers never observe a partially replaced set.
	// Passing no rows clears the guest. Returns the number of rows inserted.
	Replace(ctx context.Context, guestID int64, rows []domain.AggregatedRow) (int64, error)

	// ListByGuest returns the guest's rows ordered by category then period.
	// A non-empty category restricts the result to that category.
	ListByGuest(ctx context.Context, guestID int64, category string) ([]domain.GuestPrice, error)

	// ListAffordable returns all rows of every category in which at least one
	// row has a discounted tariff within the guest's desired price per night.
	// Guests without a desired price get nothing.
	ListAffordable(ctx context.Context, guestID int64) ([]domain.GuestPrice, error)
}

type pgGuestPriceRepo struct {
	db db
}

// NewGuestPriceRepo constructs a GuestPriceRepo backed by the provided db connection.
func NewGuestPriceRepo(db db) GuestPriceRepo {
	return &pgGuestPriceRepo{db: db}
}

var guestPriceCopyColumns = []string{
	"guest_id", "category", "period",
	"regular_breakfast_price", "new_breakfast_price",
	"regular_full_board_price", "new_full_board_price",
	"applied_special_offer", "applied_loyalty", "formula_used", "is_last_room",
}

func (r *pgGuestPriceRepo) Replace(ctx context.Context, guestID int64, rows []domain.AggregatedRow) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repo.GuestPriceRepo.Replace: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM guest_prices WHERE guest_id = @guest_id`,
		pgx.NamedArgs{"guest_id": guestID}); err != nil {
		return 0, fmt.Errorf("repo.GuestPriceRepo.Replace: delete: %w", err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"guest_prices"}, guestPriceCopyColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			row := rows[i]
			return []any{
				guestID, row.Category, row.Period,
				row.RegularBreakfast, row.DiscountedBreakfast,
				row.RegularFullBoard, row.DiscountedFullBoard,
				pgtype.UUID{Bytes: row.AppliedOffer.UUID, Valid: row.AppliedOffer.Valid},
				row.AppliedLoyalty, row.FormulaUsed, row.LastRoomDates,
			}, nil
		}))
	if err != nil {
		return 0, fmt.Errorf("repo.GuestPriceRepo.Replace: copy: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repo.GuestPriceRepo.Replace: commit: %w", err)
	}
	return n, nil
}

// guestPriceSelect joins the offer and loyalty details shown next to a price.
const guestPriceSelect = `
	SELECT gp.id, gp.guest_id, gp.category, gp.period,
	       gp.regular_breakfast_price, gp.new_breakfast_price,
	       gp.regular_full_board_price, gp.new_full_board_price,
	       gp.applied_special_offer, gp.applied_loyalty, gp.formula_used, gp.is_last_room,
	       COALESCE(so.title, ''), COALESCE(so.text, ''), COALESCE(so.min_days, 0),
	       COALESCE(ld.discount_percent, 0), gp.created_at
	FROM guest_prices gp
	LEFT JOIN special_offers so ON so.id = gp.applied_special_offer
	LEFT JOIN loyalty_discounts ld
	       ON gp.applied_loyalty <> '' AND lower(trim(ld.level)) = lower(trim(gp.applied_loyalty))`

func (r *pgGuestPriceRepo) ListByGuest(ctx context.Context, guestID int64, category string) ([]domain.GuestPrice, error) {
	const q = guestPriceSelect + `
		WHERE gp.guest_id = @guest_id
		  AND (@category = '' OR gp.category = @category)
		ORDER BY gp.category, gp.period, gp.id`

	prices, err := r.list(ctx, q, pgx.NamedArgs{"guest_id": guestID, "category": category})
	if err != nil {
		return nil, fmt.Errorf("repo.GuestPriceRepo.ListByGuest: %w", err)
	}
	return prices, nil
}

func (r *pgGuestPriceRepo) ListAffordable(ctx context.Context, guestID int64) ([]domain.GuestPrice, error) {
	const q = guestPriceSelect + `
		WHERE gp.guest_id = @guest_id
		  AND gp.category IN (
		      SELECT p.category
		      FROM guest_prices p
		      JOIN guest_details g ON g.id = p.guest_id
		      WHERE p.guest_id = @guest_id
		        AND g.desired_price_per_night > 0
		        AND LEAST(p.new_breakfast_price, p.new_full_board_price) <= g.desired_price_per_night)
		ORDER BY gp.category, gp.period, gp.id`

	prices, err := r.list(ctx, q, pgx.NamedArgs{"guest_id": guestID})
	if err != nil {
		return nil, fmt.Errorf("repo.GuestPriceRepo.ListAffordable: %w", err)
	}
	return prices, nil
}

func (r *pgGuestPriceRepo) list(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.GuestPrice, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := []domain.GuestPrice{}
	for rows.Next() {
		p, err := scanGuestPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return prices, nil
}

func scanGuestPrice(s scanner) (domain.GuestPrice, error) {
	var (
		p     domain.GuestPrice
		offer pgtype.UUID
	)
	err := s.Scan(
		&p.ID, &p.GuestID, &p.Category, &p.Period,
		&p.RegularBreakfast, &p.DiscountedBreakfast,
		&p.RegularFullBoard, &p.DiscountedFullBoard,
		&offer, &p.AppliedLoyalty, &p.FormulaUsed, &p.LastRoomDates,
		&p.OfferTitle, &p.OfferText, &p.OfferMinDays,
		&p.LoyaltyPercent, &p.CreatedAt,
	)
	if err != nil {
		return domain.GuestPrice{}, err
	}
	if offer.Valid {
		p.AppliedOffer = uuid.NullUUID{UUID: uuid.UUID(offer.Bytes), Valid: true}
	}
	return p, nil
}
