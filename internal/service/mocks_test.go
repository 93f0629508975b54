package service_test

import (
	"context"
	"sync"

	"github.com/pkordes/hotel-offers/internal/domain"
	"github.com/pkordes/hotel-offers/internal/repo"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs. Mocks that record calls guard them with a mutex since
// the pricing service calls them from several workers.

type mockGuestRepo struct {
	list    func(ctx context.Context) ([]domain.Guest, error)
	getByID func(ctx context.Context, id int64) (domain.Guest, error)
}

func (m *mockGuestRepo) List(ctx context.Context) ([]domain.Guest, error) { return m.list(ctx) }
func (m *mockGuestRepo) GetByID(ctx context.Context, id int64) (domain.Guest, error) {
	return m.getByID(ctx, id)
}

type mockRoomRepo struct {
	list func(ctx context.Context) ([]domain.RoomCategory, error)
}

func (m *mockRoomRepo) List(ctx context.Context) ([]domain.RoomCategory, error) { return m.list(ctx) }

type mockLoyaltyRepo struct {
	table func(ctx context.Context) (domain.LoyaltyTable, error)
}

func (m *mockLoyaltyRepo) Table(ctx context.Context) (domain.LoyaltyTable, error) {
	return m.table(ctx)
}

type mockOfferRepo struct {
	list func(ctx context.Context) ([]domain.SpecialOffer, domain.StayWindows, error)
	save func(ctx context.Context, o domain.SpecialOffer, w []domain.StayWindow) (domain.SpecialOffer, bool, error)
}

func (m *mockOfferRepo) List(ctx context.Context) ([]domain.SpecialOffer, domain.StayWindows, error) {
	return m.list(ctx)
}
func (m *mockOfferRepo) Save(ctx context.Context, o domain.SpecialOffer, w []domain.StayWindow) (domain.SpecialOffer, bool, error) {
	return m.save(ctx, o, w)
}

type mockPriceRepo struct {
	listByCategories func(ctx context.Context, names []string) ([]domain.RegularPrice, error)
	upsert           func(ctx context.Context, prices []domain.RegularPrice) error
}

func (m *mockPriceRepo) ListByCategories(ctx context.Context, names []string) ([]domain.RegularPrice, error) {
	return m.listByCategories(ctx, names)
}
func (m *mockPriceRepo) Upsert(ctx context.Context, prices []domain.RegularPrice) error {
	return m.upsert(ctx, prices)
}

// mockGuestPriceRepo stores replaced rows per guest in memory.
type mockGuestPriceRepo struct {
	mu             sync.Mutex
	stored         map[int64][]domain.AggregatedRow
	replaceErr     func(guestID int64) error
	listByGuest    func(ctx context.Context, guestID int64, category string) ([]domain.GuestPrice, error)
	listAffordable func(ctx context.Context, guestID int64) ([]domain.GuestPrice, error)
}

func (m *mockGuestPriceRepo) Replace(_ context.Context, guestID int64, rows []domain.AggregatedRow) (int64, error) {
	if m.replaceErr != nil {
		if err := m.replaceErr(guestID); err != nil {
			return 0, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stored == nil {
		m.stored = map[int64][]domain.AggregatedRow{}
	}
	m.stored[guestID] = rows
	return int64(len(rows)), nil
}
func (m *mockGuestPriceRepo) ListByGuest(ctx context.Context, guestID int64, category string) ([]domain.GuestPrice, error) {
	return m.listByGuest(ctx, guestID, category)
}
func (m *mockGuestPriceRepo) ListAffordable(ctx context.Context, guestID int64) ([]domain.GuestPrice, error) {
	return m.listAffordable(ctx, guestID)
}

func (m *mockGuestPriceRepo) rows(guestID int64) ([]domain.AggregatedRow, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.stored[guestID]
	return rows, ok
}

// mockEventRepo records inserted events in memory.
type mockEventRepo struct {
	mu        sync.Mutex
	events    []domain.Event
	insertErr error
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Event, int64, error)
}

func (m *mockEventRepo) Insert(_ context.Context, e domain.Event) (domain.Event, error) {
	if m.insertErr != nil {
		return domain.Event{}, m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = int64(len(m.events) + 1)
	m.events = append(m.events, e)
	return e, nil
}
func (m *mockEventRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Event, int64, error) {
	return m.listPaged(ctx, p)
}

func (m *mockEventRepo) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Event)
	}
	return out
}

// compile-time checks: every mock must satisfy its repo interface.
var (
	_ repo.GuestRepo        = (*mockGuestRepo)(nil)
	_ repo.RoomRepo         = (*mockRoomRepo)(nil)
	_ repo.LoyaltyRepo      = (*mockLoyaltyRepo)(nil)
	_ repo.OfferRepo        = (*mockOfferRepo)(nil)
	_ repo.RegularPriceRepo = (*mockPriceRepo)(nil)
	_ repo.GuestPriceRepo   = (*mockGuestPriceRepo)(nil)
	_ repo.EventRepo        = (*mockEventRepo)(nil)
)
