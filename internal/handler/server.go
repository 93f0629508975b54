// Package handler implements the HTTP API of the hotel offers service.
// All handlers are methods on Server; they are split into files by resource
// (health.go, runs.go, guests.go) and share the Server's dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/hotel-offers/internal/domain"
	"github.com/pkordes/hotel-offers/internal/middleware"
	"github.com/pkordes/hotel-offers/spec"
)

// PricingRunner starts a pricing run. Defined here, in the consumer package,
// so handler tests can inject a fake without a database.
type PricingRunner interface {
	Run(ctx context.Context, today time.Time) (domain.RunSummary, error)
}

// GuestPriceServicer answers queries over a guest's computed prices.
type GuestPriceServicer interface {
	List(ctx context.Context, guestID int64, category string) ([]domain.GuestPrice, error)
	Offers(ctx context.Context, guestID int64) ([]domain.CategoryOffers, error)
}

// EventServicer pages through the event log.
type EventServicer interface {
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Event, int64, error)
}

// Server holds the dependencies of every handler.
type Server struct {
	runs       PricingRunner
	prices     GuestPriceServicer
	events     EventServicer
	logger     *slog.Logger
	now        func() time.Time
	loc        *time.Location
	runTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for unexpected errors.
func WithLogger(l *slog.Logger) Option { return func(s *Server) { s.logger = l } }

// WithClock overrides the clock that supplies the default "today" of a run.
func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

// WithLocation sets the time zone in which the default "today" is taken.
func WithLocation(loc *time.Location) Option { return func(s *Server) { s.loc = loc } }

// WithRunTimeout bounds runs started over HTTP. Zero means unbounded.
func WithRunTimeout(d time.Duration) Option { return func(s *Server) { s.runTimeout = d } }

// NewServer constructs the Server with all its dependencies.
func NewServer(runs PricingRunner, prices GuestPriceServicer, events EventServicer, opts ...Option) *Server {
	s := &Server{
		runs:   runs,
		prices: prices,
		events: events,
		logger: slog.Default(),
		now:    time.Now,
		loc:    time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RouterConfig carries the middleware settings of the HTTP stack.
type RouterConfig struct {
	Logger       *slog.Logger
	CORSOrigins  []string
	MaxBodyBytes int64
}

// NewRouter mounts every route of s behind the standard middleware stack.
func NewRouter(s *Server, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = s.logger
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Post("/runs", s.StartRun)
	r.Get("/runs/events", s.ListRunEvents)
	r.Route("/guests/{guestID}", func(r chi.Router) {
		r.Get("/prices", s.ListGuestPrices)
		r.Get("/offers", s.ListGuestOffers)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", "method not allowed"))
	})
	return r
}

// GetOpenAPI handles GET /openapi.yaml.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
