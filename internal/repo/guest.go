package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/hotel-offers/internal/domain"
)

// GuestRepo reads guest profiles. Profiles are created and edited by the
// guest-facing bot, never by this service.
type GuestRepo interface {
	// List returns all guests ordered by id.
	List(ctx context.Context) ([]domain.Guest, error)

	// GetByID returns one guest. Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (domain.Guest, error)
}

type pgGuestRepo struct {
	db db
}

// NewGuestRepo constructs a GuestRepo backed by the provided db connection.
func NewGuestRepo(db db) GuestRepo {
	return &pgGuestRepo{db: db}
}

const guestColumns = `
	id, first_name, last_name, adults, teens, infant,
	preferred_categories, loyalty_status, desired_price_per_night`

func (r *pgGuestRepo) List(ctx context.Context) ([]domain.Guest, error) {
	q := `SELECT ` + guestColumns + ` FROM guest_details ORDER BY id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.GuestRepo.List: %w", err)
	}
	defer rows.Close()

	var guests []domain.Guest
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.GuestRepo.List: scan: %w", err)
		}
		guests = append(guests, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.GuestRepo.List: rows: %w", err)
	}
	return guests, nil
}

func (r *pgGuestRepo) GetByID(ctx context.Context, id int64) (domain.Guest, error) {
	q := `SELECT ` + guestColumns + ` FROM guest_details WHERE id = @id`

	g, err := scanGuest(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Guest{}, fmt.Errorf("repo.GuestRepo.GetByID: %w", err)
	}
	return g, nil
}

func scanGuest(s scanner) (domain.Guest, error) {
	var g domain.Guest
	err := s.Scan(
		&g.ID, &g.FirstName, &g.LastName, &g.Adults, &g.Teens, &g.Infants,
		&g.PreferredCategories, &g.LoyaltyStatus, &g.DesiredPricePerNight,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Guest{}, domain.ErrNotFound
		}
		return domain.Guest{}, err
	}
	return g, nil
}
