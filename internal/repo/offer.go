package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/hotel-offers/internal/domain"
)

// OfferRepo defines the persistence operations for special offers.
type OfferRepo interface {
	// List returns every offer in load order (created_at, then id) together
	// with the stay windows of each offer. The order is the order in which
	// the resolver tries offers, so it must be stable across runs.
	List(ctx context.Context) ([]domain.SpecialOffer, domain.StayWindows, error)

	// Save inserts an offer and its stay windows. An offer whose title is
	// already stored is left untouched and returned as stored, with inserted
	// set to false.
	Save(ctx context.Context, offer domain.SpecialOffer, windows []domain.StayWindow) (saved domain.SpecialOffer, inserted bool, err error)
}

type pgOfferRepo struct {
	db db
}

// NewOfferRepo constructs an OfferRepo backed by the provided db connection.
func NewOfferRepo(db db) OfferRepo {
	return &pgOfferRepo{db: db}
}

const offerColumns = `
	id, title, text, categories, booking_start, booking_end,
	min_days, formula, loyalty_compatible, created_at`

func (r *pgOfferRepo) List(ctx context.Context) ([]domain.SpecialOffer, domain.StayWindows, error) {
	q := `SELECT ` + offerColumns + ` FROM special_offers ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, nil, fmt.Errorf("repo.OfferRepo.List: %w", err)
	}
	defer rows.Close()

	var offers []domain.SpecialOffer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("repo.OfferRepo.List: scan: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("repo.OfferRepo.List: rows: %w", err)
	}

	windows, err := r.listWindows(ctx)
	if err != nil {
		return nil, nil, err
	}
	return offers, windows, nil
}

func (r *pgOfferRepo) listWindows(ctx context.Context) (domain.StayWindows, error) {
	const q = `
		SELECT offer_id, stay_start, stay_end
		FROM special_offer_stay_periods
		ORDER BY offer_id, stay_start`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.OfferRepo.List: windows: %w", err)
	}
	defer rows.Close()

	windows := domain.StayWindows{}
	for rows.Next() {
		var (
			id         pgtype.UUID
			start, end time.Time
		)
		if err := rows.Scan(&id, &start, &end); err != nil {
			return nil, fmt.Errorf("repo.OfferRepo.List: windows: scan: %w", err)
		}
		key := uuid.UUID(id.Bytes)
		windows[key] = append(windows[key], domain.StayWindow{Start: domain.Day(start), End: domain.Day(end)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.OfferRepo.List: windows: rows: %w", err)
	}
	return windows, nil
}

func (r *pgOfferRepo) Save(ctx context.Context, offer domain.SpecialOffer, windows []domain.StayWindow) (domain.SpecialOffer, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.SpecialOffer{}, false, fmt.Errorf("repo.OfferRepo.Save: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	q := `
		INSERT INTO special_offers
			(title, text, categories, booking_start, booking_end, min_days, formula, loyalty_compatible)
		VALUES
			(@title, @text, @categories, @booking_start, @booking_end, @min_days, @formula, @loyalty_compatible)
		ON CONFLICT (title) DO NOTHING
		RETURNING ` + offerColumns

	args := pgx.NamedArgs{
		"title":              offer.Title,
		"text":               offer.Text,
		"categories":         nonNil(offer.Categories),
		"booking_start":      offer.BookingStart, // nil becomes NULL
		"booking_end":        offer.BookingEnd,
		"min_days":           offer.MinDays,
		"formula":            offer.Formula,
		"loyalty_compatible": offer.LoyaltyCompatible,
	}

	saved, err := scanOffer(tx.QueryRow(ctx, q, args))
	if errors.Is(err, domain.ErrNotFound) {
		// Title conflict: keep the stored offer.
		existing, err := scanOffer(tx.QueryRow(ctx,
			`SELECT `+offerColumns+` FROM special_offers WHERE title = @title`,
			pgx.NamedArgs{"title": offer.Title}))
		if err != nil {
			return domain.SpecialOffer{}, false, fmt.Errorf("repo.OfferRepo.Save: existing: %w", err)
		}
		return existing, false, nil
	}
	if err != nil {
		return domain.SpecialOffer{}, false, fmt.Errorf("repo.OfferRepo.Save: %w", err)
	}

	batch := &pgx.Batch{}
	for _, w := range windows {
		batch.Queue(`
			INSERT INTO special_offer_stay_periods (offer_id, stay_start, stay_end)
			VALUES (@offer_id, @stay_start, @stay_end)
			ON CONFLICT DO NOTHING`,
			pgx.NamedArgs{"offer_id": saved.ID, "stay_start": w.Start, "stay_end": w.End})
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return domain.SpecialOffer{}, false, fmt.Errorf("repo.OfferRepo.Save: windows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.SpecialOffer{}, false, fmt.Errorf("repo.OfferRepo.Save: commit: %w", err)
	}
	return saved, true, nil
}

func scanOffer(s scanner) (domain.SpecialOffer, error) {
	var (
		o            domain.SpecialOffer
		id           pgtype.UUID
		bookingStart pgtype.Date
		bookingEnd   pgtype.Date
	)
	err := s.Scan(
		&id, &o.Title, &o.Text, &o.Categories, &bookingStart, &bookingEnd,
		&o.MinDays, &o.Formula, &o.LoyaltyCompatible, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SpecialOffer{}, domain.ErrNotFound
		}
		return domain.SpecialOffer{}, err
	}

	o.ID = uuid.UUID(id.Bytes)
	if bookingStart.Valid {
		d := domain.Day(bookingStart.Time)
		o.BookingStart = &d
	}
	if bookingEnd.Valid {
		d := domain.Day(bookingEnd.Time)
		o.BookingEnd = &d
	}
	return o, nil
}

// nonNil turns a nil slice into an empty one so it is stored as '{}' rather than NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
