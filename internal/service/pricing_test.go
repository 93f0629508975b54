package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hotel-offers/internal/domain"
	"github.com/pkordes/hotel-offers/internal/pricing"
	"github.com/pkordes/hotel-offers/internal/repo"
	"github.com/pkordes/hotel-offers/internal/service"
)

// ---- fixtures --------------------------------------------------------------

func june(day int) time.Time {
	return time.Date(2025, time.June, day, 0, 0, 0, 0, time.UTC)
}

func priceRun(category string, first, last, breakfast, fullBoard int) []domain.RegularPrice {
	var out []domain.RegularPrice
	for d := first; d <= last; d++ {
		out = append(out, domain.RegularPrice{
			Category: category, Date: june(d), BreakfastPrice: breakfast, FullBoardPrice: fullBoard,
		})
	}
	return out
}

var villaOffer = domain.SpecialOffer{
	ID:         uuid.MustParse("0b4e3a52-8f55-4a3e-9d0e-5b7f1c2a9e11"),
	Title:      "Villa spring",
	Categories: []string{"Все виллы"},
	Formula:    "N = C * 0.8",
}

// hotel is an in-memory hotel wired into a repo.Set.
type hotel struct {
	guests      []domain.Guest
	rooms       []domain.RoomCategory
	prices      []domain.RegularPrice
	guestPrices *mockGuestPriceRepo
	events      *mockEventRepo
	roomsErr    error
	// priceGate, when set, is called on every price lookup before it returns.
	priceGate func(ctx context.Context)
}

func newHotel() *hotel {
	var prices []domain.RegularPrice
	prices = append(prices, priceRun("Делюкс", 1, 3, 5000, 7000)...)
	prices = append(prices, priceRun("Вилла Премьер", 1, 2, 10000, 15000)...)
	return &hotel{
		guests: []domain.Guest{
			{ID: 1, Adults: 2, PreferredCategories: []string{"делюкс"}, LoyaltyStatus: "gold"},
			{ID: 2, Adults: 5, PreferredCategories: []string{"делюкс"}},
			{ID: 3, Adults: 1, PreferredCategories: []string{"семейный люкс"}},
			{ID: 4, Adults: 3, PreferredCategories: []string{"вилла"}},
		},
		rooms: []domain.RoomCategory{
			{Name: "Делюкс", BedCapacity: 2},
			{Name: "Семейный люкс", BedCapacity: 4},
			{Name: "Вилла Премьер", BedCapacity: 6},
		},
		prices:      prices,
		guestPrices: &mockGuestPriceRepo{},
		events:      &mockEventRepo{},
	}
}

func (h *hotel) repos() repo.Set {
	return repo.Set{
		Guests: &mockGuestRepo{list: func(context.Context) ([]domain.Guest, error) { return h.guests, nil }},
		Rooms: &mockRoomRepo{list: func(context.Context) ([]domain.RoomCategory, error) {
			return h.rooms, h.roomsErr
		}},
		Loyalty: &mockLoyaltyRepo{table: func(context.Context) (domain.LoyaltyTable, error) {
			return domain.LoyaltyTable{"gold": 10}, nil
		}},
		Offers: &mockOfferRepo{list: func(context.Context) ([]domain.SpecialOffer, domain.StayWindows, error) {
			return []domain.SpecialOffer{villaOffer},
				domain.StayWindows{villaOffer.ID: {{Start: june(1), End: june(30)}}},
				nil
		}},
		// Mirrors the containment lookup of the Postgres repo.
		Prices: &mockPriceRepo{listByCategories: func(ctx context.Context, names []string) ([]domain.RegularPrice, error) {
			if h.priceGate != nil {
				h.priceGate(ctx)
			}
			var out []domain.RegularPrice
			for _, p := range h.prices {
				for _, n := range names {
					if strings.Contains(strings.ToLower(p.Category), strings.ToLower(n)) {
						out = append(out, p)
						break
					}
				}
			}
			return out, nil
		}},
		GuestPrices: h.guestPrices,
		Events:      h.events,
	}
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []domain.GuestPricesUpdated
	err  error
}

func (p *recordingPublisher) PublishGuestPrices(_ context.Context, msg domain.GuestPricesUpdated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

type recordingProgress struct {
	total int
	done  []domain.GuestResult
}

func (p *recordingProgress) Start(total int)                  { p.total = total }
func (p *recordingProgress) GuestDone(res domain.GuestResult) { p.done = append(p.done, res) }

var _ service.Publisher = (*recordingPublisher)(nil)
var _ service.Progress = (*recordingProgress)(nil)

func newPricingService(h *hotel, opts ...service.PricingOption) *service.PricingService {
	return service.NewPricingService(h.repos(), pricing.NewEngine(pricing.MatchSubstring), opts...)
}

// ---- Run tests -------------------------------------------------------------

func TestPricingService_Run(t *testing.T) {
	h := newHotel()
	pub := &recordingPublisher{}
	progress := &recordingProgress{}
	svc := newPricingService(h,
		service.WithWorkers(3),
		service.WithPublisher(pub),
		service.WithProgress(progress),
	)

	summary, err := svc.Run(context.Background(), june(1))

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, summary.RunID)
	assert.Equal(t, june(1), summary.Today)
	assert.Equal(t, 4, summary.Guests)
	assert.Equal(t, 2, summary.Priced)
	assert.Equal(t, 2, summary.Skipped)
	assert.Zero(t, summary.Failed)
	assert.Equal(t, 2, summary.Rows)
	assert.False(t, svc.Running())

	deluxe, ok := h.guestPrices.rows(1)
	require.True(t, ok)
	require.Len(t, deluxe, 1)
	assert.Equal(t, "2025-06-01..2025-06-03", deluxe[0].Period)
	assert.Equal(t, 4500, deluxe[0].DiscountedBreakfast)
	assert.Equal(t, 6300, deluxe[0].DiscountedFullBoard)
	assert.Equal(t, "gold", deluxe[0].AppliedLoyalty)

	villa, ok := h.guestPrices.rows(4)
	require.True(t, ok)
	require.Len(t, villa, 1)
	assert.Equal(t, "2025-06-01..2025-06-02", villa[0].Period)
	assert.Equal(t, 8000, villa[0].DiscountedBreakfast)
	assert.Equal(t, villaOffer.ID, villa[0].AppliedOffer.UUID)

	// Skipped guests have their stale rows cleared.
	for _, id := range []int64{2, 3} {
		rows, ok := h.guestPrices.rows(id)
		assert.True(t, ok, "guest %d was cleared", id)
		assert.Empty(t, rows)
	}

	assert.Len(t, pub.msgs, 2)
	for _, m := range pub.msgs {
		assert.Equal(t, summary.RunID, m.RunID)
		assert.Equal(t, "2025-06-01", m.Today)
		assert.Equal(t, 1, m.Rows)
	}

	assert.Equal(t, 4, progress.total)
	assert.Len(t, progress.done, 4)

	names := h.events.names()
	require.Len(t, names, 2)
	assert.Equal(t, "run_started", names[0])
	assert.Equal(t, "run_finished", names[1])
}

func TestPricingService_Run_IsDeterministic(t *testing.T) {
	first := newHotel()
	second := newHotel()

	_, err := newPricingService(first, service.WithWorkers(1)).Run(context.Background(), june(1))
	require.NoError(t, err)
	_, err = newPricingService(second, service.WithWorkers(4)).Run(context.Background(), june(1))
	require.NoError(t, err)

	for _, g := range first.guests {
		a, _ := first.guestPrices.rows(g.ID)
		b, _ := second.guestPrices.rows(g.ID)
		assert.Equal(t, a, b, "guest %d", g.ID)
	}
}

func TestPricingService_Run_GuestFailureDoesNotAbort(t *testing.T) {
	h := newHotel()
	h.guestPrices.replaceErr = func(guestID int64) error {
		if guestID == 1 {
			return errors.New("disk full")
		}
		return nil
	}
	progress := &recordingProgress{}
	svc := newPricingService(h, service.WithProgress(progress))

	summary, err := svc.Run(context.Background(), june(1))

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Priced)
	assert.Equal(t, 2, summary.Skipped)
	assert.Contains(t, h.events.names(), "guest_failed")

	var failed domain.GuestResult
	for _, res := range progress.done {
		if res.GuestID == 1 {
			failed = res
		}
	}
	assert.Equal(t, domain.GuestFailed, failed.Status)
	assert.ErrorContains(t, failed.Err, "disk full")
}

func TestPricingService_Run_PublishFailureIsNotFatal(t *testing.T) {
	h := newHotel()
	pub := &recordingPublisher{err: errors.New("broker down")}

	summary, err := newPricingService(h, service.WithPublisher(pub)).Run(context.Background(), june(1))

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Priced)
}

func TestPricingService_Run_LoadFailure(t *testing.T) {
	h := newHotel()
	h.roomsErr = errors.New("connection refused")

	_, err := newPricingService(h).Run(context.Background(), june(1))

	require.Error(t, err)
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, []string{"run_started", "run_failed"}, h.events.names())
}

func TestPricingService_Run_InvalidCatalog(t *testing.T) {
	h := newHotel()
	h.rooms = append(h.rooms, domain.RoomCategory{Name: " делюкс", BedCapacity: 2})

	_, err := newPricingService(h).Run(context.Background(), june(1))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPricingService_Run_Cancelled(t *testing.T) {
	h := newHotel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := newPricingService(h).Run(ctx, june(1))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Priced)
	assert.Equal(t, []string{"run_started", "run_failed"}, h.events.names())
}

func TestPricingService_Run_RejectsConcurrentRun(t *testing.T) {
	h := newHotel()
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	h.priceGate = func(context.Context) {
		once.Do(func() { close(entered) })
		<-release
	}
	svc := newPricingService(h)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Run(context.Background(), june(1))
		done <- err
	}()

	<-entered
	assert.True(t, svc.Running())
	_, err := svc.Run(context.Background(), june(1))
	assert.ErrorIs(t, err, domain.ErrRunInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, svc.Running())
}

func TestPricingService_Run_UsesClock(t *testing.T) {
	h := newHotel()
	start := time.Date(2025, 6, 1, 11, 30, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return start.Add(time.Duration(calls-1) * 1500 * time.Millisecond)
	}

	summary, err := newPricingService(h, service.WithClock(clock)).Run(context.Background(), start)

	require.NoError(t, err)
	assert.Equal(t, june(1), summary.Today, "today is truncated to the calendar date")
	assert.Equal(t, 1500*time.Millisecond, summary.Duration())
}
