package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/hotel-offers/internal/domain"
)

// RegularPriceRepo defines the persistence operations for undiscounted prices.
type RegularPriceRepo interface {
	// ListByCategories returns every price row whose category contains any
	// of names, case-insensitively, ordered by category then date.
	// Containment can over-include categories that merely share a word;
	// callers narrow the result against their own category list.
	ListByCategories(ctx context.Context, names []string) ([]domain.RegularPrice, error)

	// Upsert inserts price rows, overwriting existing (category, date) rows.
	Upsert(ctx context.Context, prices []domain.RegularPrice) error
}

type pgRegularPriceRepo struct {
	db db
}

// NewRegularPriceRepo constructs a RegularPriceRepo backed by the provided db connection.
func NewRegularPriceRepo(db db) RegularPriceRepo {
	return &pgRegularPriceRepo{db: db}
}

// likeEscaper escapes LIKE metacharacters so category names match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *pgRegularPriceRepo) ListByCategories(ctx context.Context, names []string) ([]domain.RegularPrice, error) {
	if len(names) == 0 {
		return nil, nil
	}

	patterns := make([]string, 0, len(names))
	for _, n := range names {
		patterns = append(patterns, "%"+likeEscaper.Replace(n)+"%")
	}

	const q = `
		SELECT room_category, date, breakfast_price, full_board_price, is_last_room
		FROM regular_prices
		WHERE room_category ILIKE ANY (@patterns)
		ORDER BY room_category, date`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"patterns": patterns})
	if err != nil {
		return nil, fmt.Errorf("repo.RegularPriceRepo.ListByCategories: %w", err)
	}
	defer rows.Close()

	var prices []domain.RegularPrice
	for rows.Next() {
		var p domain.RegularPrice
		if err := rows.Scan(&p.Category, &p.Date, &p.BreakfastPrice, &p.FullBoardPrice, &p.IsLastRoom); err != nil {
			return nil, fmt.Errorf("repo.RegularPriceRepo.ListByCategories: scan: %w", err)
		}
		p.Date = domain.Day(p.Date)
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RegularPriceRepo.ListByCategories: rows: %w", err)
	}
	return prices, nil
}

func (r *pgRegularPriceRepo) Upsert(ctx context.Context, prices []domain.RegularPrice) error {
	if len(prices) == 0 {
		return nil
	}

	const q = `
		INSERT INTO regular_prices (room_category, date, breakfast_price, full_board_price, is_last_room)
		VALUES (@category, @date, @breakfast, @full_board, @last_room)
		ON CONFLICT (room_category, date) DO UPDATE
		SET breakfast_price  = EXCLUDED.breakfast_price,
		    full_board_price = EXCLUDED.full_board_price,
		    is_last_room     = EXCLUDED.is_last_room`

	batch := &pgx.Batch{}
	for _, p := range prices {
		batch.Queue(q, pgx.NamedArgs{
			"category":   p.Category,
			"date":       p.Date,
			"breakfast":  p.BreakfastPrice,
			"full_board": p.FullBoardPrice,
			"last_room":  p.IsLastRoom,
		})
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("repo.RegularPriceRepo.Upsert: %w", err)
	}
	return nil
}
