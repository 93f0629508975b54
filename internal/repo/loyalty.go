package repo

import (
	"context"
	"fmt"

	"github.com/pkordes/hotel-offers/internal/domain"
)

// LoyaltyRepo reads the loyalty discount table.
type LoyaltyRepo interface {
	// Table returns every tier keyed by its normalised label.
	Table(ctx context.Context) (domain.LoyaltyTable, error)
}

type pgLoyaltyRepo struct {
	db db
}

// NewLoyaltyRepo constructs a LoyaltyRepo backed by the provided db connection.
func NewLoyaltyRepo(db db) LoyaltyRepo {
	return &pgLoyaltyRepo{db: db}
}

func (r *pgLoyaltyRepo) Table(ctx context.Context) (domain.LoyaltyTable, error) {
	const q = `SELECT level, discount_percent FROM loyalty_discounts`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.LoyaltyRepo.Table: %w", err)
	}
	defer rows.Close()

	table := domain.LoyaltyTable{}
	for rows.Next() {
		var (
			level   string
			percent int
		)
		if err := rows.Scan(&level, &percent); err != nil {
			return nil, fmt.Errorf("repo.LoyaltyRepo.Table: scan: %w", err)
		}
		table[domain.NormalizeLoyalty(level)] = percent
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LoyaltyRepo.Table: rows: %w", err)
	}
	return table, nil
}
