package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkordes/hotel-offers/internal/domain"
	"github.com/pkordes/hotel-offers/internal/repo"
)

// Event levels stored in the event log.
const (
	LevelInfo  = "info"
	LevelWarn  = "warning"
	LevelError = "error"
)

// EventService writes and reads the system event log.
type EventService struct {
	repo   repo.EventRepo
	logger *slog.Logger
}

// NewEventService constructs an EventService. A nil logger means slog.Default().
func NewEventService(r repo.EventRepo, logger *slog.Logger) *EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventService{repo: r, logger: logger}
}

// Record appends e to the log. The journal is best effort: a failed insert
// is logged and otherwise ignored.
func (s *EventService) Record(ctx context.Context, e domain.Event) {
	if _, err := s.repo.Insert(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "event log insert failed",
			"event", e.Event,
			"run_id", e.RunID,
			"error", err,
		)
	}
}

// List returns one page of events, newest first, and the total count.
func (s *EventService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Event, int64, error) {
	events, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.EventService.List: %w", err)
	}
	return events, total, nil
}
