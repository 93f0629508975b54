package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/hotel-offers/internal/domain"
	"github.com/pkordes/hotel-offers/internal/pricing"
	"github.com/pkordes/hotel-offers/internal/repo"
)

// eventSource tags every event the pricing run writes.
const eventSource = "pricing"

// Publisher announces that a guest's prices were replaced.
type Publisher interface {
	PublishGuestPrices(ctx context.Context, msg domain.GuestPricesUpdated) error
}

// Progress observes a run guest by guest. GuestDone may be called from
// several goroutines at once.
type Progress interface {
	Start(total int)
	GuestDone(res domain.GuestResult)
}

// PricingOption configures a PricingService.
type PricingOption func(*PricingService)

// WithWorkers sets how many guests are priced concurrently. Values below 1 mean 1.
func WithWorkers(n int) PricingOption {
	return func(s *PricingService) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// WithPublisher publishes a GuestPricesUpdated message after every replaced guest.
func WithPublisher(p Publisher) PricingOption {
	return func(s *PricingService) { s.publisher = p }
}

// WithProgress reports per-guest progress to p.
func WithProgress(p Progress) PricingOption {
	return func(s *PricingService) { s.progress = p }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) PricingOption {
	return func(s *PricingService) { s.logger = l }
}

// WithClock overrides the wall clock used for run timestamps.
func WithClock(now func() time.Time) PricingOption {
	return func(s *PricingService) { s.now = now }
}

// PricingService runs the pricing pipeline for every guest: match
// categories, fetch prices, price each stay date, aggregate into periods
// and replace the guest's stored rows.
type PricingService struct {
	repos     repo.Set
	engine    *pricing.Engine
	events    *EventService
	publisher Publisher
	progress  Progress
	logger    *slog.Logger
	now       func() time.Time
	workers   int

	running atomic.Bool
}

// NewPricingService constructs a PricingService over repos using engine.
func NewPricingService(repos repo.Set, engine *pricing.Engine, opts ...PricingOption) *PricingService {
	s := &PricingService{
		repos:   repos,
		engine:  engine,
		logger:  slog.Default(),
		now:     time.Now,
		workers: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.events = NewEventService(repos.Events, s.logger)
	return s
}

// Running reports whether a run is executing.
func (s *PricingService) Running() bool {
	return s.running.Load()
}

// runInputs is everything loaded once per run and shared read-only by workers.
type runInputs struct {
	id       uuid.UUID
	today    time.Time
	catalog  *pricing.Catalog
	loyalty  domain.LoyaltyTable
	resolver *pricing.OfferResolver
}

// Run prices every guest as of today.
//
// Only one run executes at a time; a second call returns
// domain.ErrRunInProgress. A guest that fails is recorded and the run
// carries on. Cancelling ctx stops the run between guests and returns the
// context error along with the partial summary.
func (s *PricingService) Run(ctx context.Context, today time.Time) (domain.RunSummary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return domain.RunSummary{}, fmt.Errorf("service.PricingService.Run: %w", domain.ErrRunInProgress)
	}
	defer s.running.Store(false)

	summary := domain.RunSummary{
		RunID:     uuid.New(),
		Today:     domain.Day(today),
		StartedAt: s.now(),
	}
	log := s.logger.With("run_id", summary.RunID.String(), "today", summary.Today.Format(domain.DateLayout))
	log.InfoContext(ctx, "pricing run started")
	s.events.Record(ctx, domain.Event{
		Level:   LevelInfo,
		Source:  eventSource,
		Event:   "run_started",
		Message: "pricing run started",
		RunID:   summary.RunID.String(),
		Meta:    map[string]any{"today": summary.Today.Format(domain.DateLayout)},
	})

	in, guests, err := s.load(ctx, summary)
	if err != nil {
		return s.fail(ctx, log, summary, err)
	}
	summary.Guests = len(guests)

	results := s.priceAll(ctx, in, guests)
	for _, res := range results {
		switch res.Status {
		case domain.GuestPriced:
			summary.Priced++
			summary.Rows += res.Rows
		case domain.GuestSkipped:
			summary.Skipped++
		case domain.GuestFailed:
			summary.Failed++
		}
	}

	if err := ctx.Err(); err != nil {
		return s.fail(ctx, log, summary, err)
	}

	summary.FinishedAt = s.now()
	duration := summary.Duration().Milliseconds()
	log.InfoContext(ctx, "pricing run finished",
		"guests", summary.Guests,
		"priced", summary.Priced,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"rows", summary.Rows,
		"duration_ms", duration,
	)
	s.events.Record(ctx, domain.Event{
		Level:      LevelInfo,
		Source:     eventSource,
		Event:      "run_finished",
		Message:    "pricing run finished",
		RunID:      summary.RunID.String(),
		DurationMS: &duration,
		Meta: map[string]any{
			"guests":  summary.Guests,
			"priced":  summary.Priced,
			"skipped": summary.Skipped,
			"failed":  summary.Failed,
			"rows":    summary.Rows,
		},
	})
	return summary, nil
}

// load reads the per-run reference data: rooms, loyalty tiers, offers and guests.
func (s *PricingService) load(ctx context.Context, summary domain.RunSummary) (runInputs, []domain.Guest, error) {
	rooms, err := s.repos.Rooms.List(ctx)
	if err != nil {
		return runInputs{}, nil, err
	}
	catalog, err := pricing.NewCatalog(rooms)
	if err != nil {
		return runInputs{}, nil, err
	}
	loyalty, err := s.repos.Loyalty.Table(ctx)
	if err != nil {
		return runInputs{}, nil, err
	}
	offers, windows, err := s.repos.Offers.List(ctx)
	if err != nil {
		return runInputs{}, nil, err
	}
	guests, err := s.repos.Guests.List(ctx)
	if err != nil {
		return runInputs{}, nil, err
	}

	return runInputs{
		id:       summary.RunID,
		today:    summary.Today,
		catalog:  catalog,
		loyalty:  loyalty,
		resolver: s.engine.NewResolver(offers, windows, summary.Today),
	}, guests, nil
}

// priceAll prices guests on a bounded worker pool. Results are indexed like
// guests; guests never started because ctx was cancelled have a zero result.
func (s *PricingService) priceAll(ctx context.Context, in runInputs, guests []domain.Guest) []domain.GuestResult {
	if s.progress != nil {
		s.progress.Start(len(guests))
	}

	results := make([]domain.GuestResult, len(guests))
	var progressMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, guest := range guests {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := s.priceGuest(gctx, in, guest)
			results[i] = res
			if s.progress != nil {
				progressMu.Lock()
				s.progress.GuestDone(res)
				progressMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait() // the only error is ctx's, which Run checks itself
	return results
}

// priceGuest runs the pipeline for one guest. It never returns an error:
// failures are reported in the result and the event log.
func (s *PricingService) priceGuest(ctx context.Context, in runInputs, guest domain.Guest) domain.GuestResult {
	res := domain.GuestResult{GuestID: guest.ID}
	log := s.logger.With("run_id", in.id.String(), "guest_id", guest.ID)

	if unknown := in.catalog.UnknownPreferences(s.engine.Matcher(), guest.PreferredCategories); len(unknown) > 0 {
		log.DebugContext(ctx, "preferences match no category", "preferences", unknown)
	}

	categories := s.engine.MatchCategories(guest, in.catalog.Rooms())
	res.Categories = len(categories)
	if len(categories) == 0 {
		return s.skip(ctx, log, in, res, "no matching categories")
	}

	prices, err := s.repos.Prices.ListByCategories(ctx, categories)
	if err != nil {
		return s.guestFailed(ctx, log, in, res, fmt.Errorf("list prices: %w", err))
	}
	prices = in.catalog.FilterPrices(prices, categories)
	if len(prices) == 0 {
		return s.skip(ctx, log, in, res, "no prices for matched categories")
	}

	stays := s.engine.PriceStays(guest, prices, in.loyalty, in.resolver)
	rows := pricing.Aggregate(stays)
	res.Stays = len(stays)

	n, err := s.repos.GuestPrices.Replace(ctx, guest.ID, rows)
	if err != nil {
		return s.guestFailed(ctx, log, in, res, fmt.Errorf("replace prices: %w", err))
	}
	res.Rows = int(n)
	res.Status = domain.GuestPriced

	log.InfoContext(ctx, "guest priced",
		"categories", res.Categories,
		"stays", res.Stays,
		"rows", res.Rows,
	)
	s.publish(ctx, log, in, res)
	return res
}

// skip clears the guest's stored rows, since they no longer reflect what
// the guest can book, and records the reason.
func (s *PricingService) skip(ctx context.Context, log *slog.Logger, in runInputs, res domain.GuestResult, reason string) domain.GuestResult {
	if _, err := s.repos.GuestPrices.Replace(ctx, res.GuestID, nil); err != nil {
		return s.guestFailed(ctx, log, in, res, fmt.Errorf("clear prices: %w", err))
	}
	res.Status = domain.GuestSkipped
	res.Reason = reason
	log.InfoContext(ctx, "nothing to price", "reason", reason, "categories", res.Categories)
	return res
}

func (s *PricingService) guestFailed(ctx context.Context, log *slog.Logger, in runInputs, res domain.GuestResult, err error) domain.GuestResult {
	res.Status = domain.GuestFailed
	res.Err = err
	res.Reason = err.Error()

	// A cancelled run is reported once by Run, not per guest.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return res
	}

	log.ErrorContext(ctx, "guest pricing failed", "error", err)
	s.events.Record(ctx, domain.Event{
		Level:   LevelError,
		Source:  eventSource,
		Event:   "guest_failed",
		Message: err.Error(),
		RunID:   in.id.String(),
		Meta:    map[string]any{"guest_id": res.GuestID},
	})
	return res
}

func (s *PricingService) publish(ctx context.Context, log *slog.Logger, in runInputs, res domain.GuestResult) {
	if s.publisher == nil {
		return
	}
	msg := domain.GuestPricesUpdated{
		RunID:   in.id,
		GuestID: res.GuestID,
		Today:   in.today.Format(domain.DateLayout),
		Rows:    res.Rows,
	}
	if err := s.publisher.PublishGuestPrices(ctx, msg); err != nil {
		// Rows are already committed; the notification layer can re-read them.
		log.WarnContext(ctx, "publish guest prices failed", "error", err)
	}
}

func (s *PricingService) fail(ctx context.Context, log *slog.Logger, summary domain.RunSummary, err error) (domain.RunSummary, error) {
	summary.FinishedAt = s.now()
	duration := summary.Duration().Milliseconds()

	log.ErrorContext(ctx, "pricing run failed", "error", err, "duration_ms", duration)
	// ctx may be the reason for the failure; the journal entry must still land.
	s.events.Record(context.WithoutCancel(ctx), domain.Event{
		Level:      LevelError,
		Source:     eventSource,
		Event:      "run_failed",
		Message:    err.Error(),
		RunID:      summary.RunID.String(),
		DurationMS: &duration,
		Meta: map[string]any{
			"guests":  summary.Guests,
			"priced":  summary.Priced,
			"skipped": summary.Skipped,
			"failed":  summary.Failed,
		},
	})
	return summary, fmt.Errorf("service.PricingService.Run: %w", err)
}
