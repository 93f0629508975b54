package domain

import (
	"time"

	"github.com/google/uuid"
)

// GuestStatus is the outcome of pricing a single guest.
type GuestStatus string

const (
	GuestPriced  GuestStatus = "priced"
	GuestSkipped GuestStatus = "skipped" // nothing to price: no categories or no prices
	GuestFailed  GuestStatus = "failed"
)

// GuestResult describes what a pricing run did for one guest.
type GuestResult struct {
	GuestID    int64
	Status     GuestStatus
	Reason     string
	Categories int
	Stays      int
	Rows       int
	Err        error
}

// RunSummary aggregates the outcome of one pricing run.
type RunSummary struct {
	RunID      uuid.UUID
	Today      time.Time
	StartedAt  time.Time
	FinishedAt time.Time

	Guests  int
	Priced  int
	Skipped int
	Failed  int
	Rows    int
}

// Duration returns the wall-clock time the run took.
func (s RunSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// GuestPricesUpdated is published after a guest's rows have been replaced.
type GuestPricesUpdated struct {
	RunID   uuid.UUID `json:"run_id"`
	GuestID int64     `json:"guest_id"`
	Today   string    `json:"today"`
	Rows    int       `json:"rows"`
}

// Event is an entry in the system event log.
type Event struct {
	ID         int64
	CreatedAt  time.Time
	Level      string
	Source     string
	Event      string
	Message    string
	Meta       map[string]any
	RunID      string
	DurationMS *int64
}
