package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/hotel-offers/internal/domain"
)

// EventRepo persists the system event log, the journal of pricing runs.
type EventRepo interface {
	// Insert appends an event and returns it with id and created_at set.
	Insert(ctx context.Context, e domain.Event) (domain.Event, error)

	// ListPaged returns one page of events, newest first, and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Event, int64, error)
}

type pgEventRepo struct {
	db db
}

// NewEventRepo constructs an EventRepo backed by the provided db connection.
func NewEventRepo(db db) EventRepo {
	return &pgEventRepo{db: db}
}

func (r *pgEventRepo) Insert(ctx context.Context, e domain.Event) (domain.Event, error) {
	const q = `
		INSERT INTO system_event_log (level, source, event, message, meta, run_id, duration_ms)
		VALUES (@level, @source, @event, @message, @meta, @run_id, @duration_ms)
		RETURNING id, created_at`

	meta := e.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	args := pgx.NamedArgs{
		"level":       e.Level,
		"source":      e.Source,
		"event":       e.Event,
		"message":     e.Message,
		"meta":        meta,
		"run_id":      e.RunID,
		"duration_ms": e.DurationMS, // nil becomes NULL
	}

	if err := r.db.QueryRow(ctx, q, args).Scan(&e.ID, &e.CreatedAt); err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Insert: %w", err)
	}
	e.Meta = meta
	return e, nil
}

func (r *pgEventRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Event, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM system_event_log`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.EventRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT id, created_at, level, source, event, message, meta, run_id, duration_ms
		FROM system_event_log
		ORDER BY created_at DESC, id DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.EventRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Level, &e.Source, &e.Event,
			&e.Message, &e.Meta, &e.RunID, &e.DurationMS); err != nil {
			return nil, 0, fmt.Errorf("repo.EventRepo.ListPaged: scan: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.EventRepo.ListPaged: rows: %w", err)
	}
	return events, total, nil
}
