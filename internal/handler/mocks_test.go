package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkordes/hotel-offers/internal/domain"
	"github.com/pkordes/hotel-offers/internal/handler"
)

// ---- mock servicers -----------------------------------------------------------

type mockRunner struct {
	run func(ctx context.Context, today time.Time) (domain.RunSummary, error)
}

func (m *mockRunner) Run(ctx context.Context, today time.Time) (domain.RunSummary, error) {
	return m.run(ctx, today)
}

type mockGuestPrices struct {
	list   func(ctx context.Context, guestID int64, category string) ([]domain.GuestPrice, error)
	offers func(ctx context.Context, guestID int64) ([]domain.CategoryOffers, error)
}

func (m *mockGuestPrices) List(ctx context.Context, guestID int64, category string) ([]domain.GuestPrice, error) {
	return m.list(ctx, guestID, category)
}

func (m *mockGuestPrices) Offers(ctx context.Context, guestID int64) ([]domain.CategoryOffers, error) {
	return m.offers(ctx, guestID)
}

type mockEvents struct {
	list func(ctx context.Context, p domain.PaginationParams) ([]domain.Event, int64, error)
}

func (m *mockEvents) List(ctx context.Context, p domain.PaginationParams) ([]domain.Event, int64, error) {
	return m.list(ctx, p)
}

var (
	_ handler.PricingRunner      = (*mockRunner)(nil)
	_ handler.GuestPriceServicer = (*mockGuestPrices)(nil)
	_ handler.EventServicer      = (*mockEvents)(nil)
)

// ---- helpers -------------------------------------------------------------------

// newRouter wires s behind the full middleware stack.
func newRouter(s *handler.Server) http.Handler {
	return handler.NewRouter(s, handler.RouterConfig{
		CORSOrigins:  []string{"http://localhost:5173"},
		MaxBodyBytes: 1 << 20,
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func june(day int) time.Time {
	return time.Date(2025, time.June, day, 0, 0, 0, 0, time.UTC)
}

func httptestRequest(ctx context.Context, method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil).WithContext(ctx)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
