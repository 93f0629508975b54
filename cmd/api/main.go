// Package main is the entry point for the hotel offers API server.
// Its sole responsibility is wiring dependencies together and starting the
// server and the pricing scheduler. No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/pkordes/hotel-offers/internal/broker/kafka"
	"github.com/pkordes/hotel-offers/internal/config"
	"github.com/pkordes/hotel-offers/internal/domain"
	"github.com/pkordes/hotel-offers/internal/handler"
	"github.com/pkordes/hotel-offers/internal/obs"
	"github.com/pkordes/hotel-offers/internal/pricing"
	"github.com/pkordes/hotel-offers/internal/repo"
	"github.com/pkordes/hotel-offers/internal/scheduler"
	"github.com/pkordes/hotel-offers/internal/service"
	"github.com/pkordes/hotel-offers/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := obs.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if cfg.MigrateOnStart {
		sqlDB := stdlib.OpenDBFromPool(pool)
		applied, err := migrations.Up(context.Background(), sqlDB)
		_ = sqlDB.Close()
		if err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations applied", "count", applied)
	}

	// --- Services ---------------------------------------------------------
	opts := []service.PricingOption{
		service.WithWorkers(cfg.PricingWorkers),
		service.WithLogger(logger),
	}
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, nil)
		if err != nil {
			slog.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		opts = append(opts, service.WithPublisher(publisher))
		slog.Info("publishing price updates", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	repos := repo.NewSet(pool)
	pricingSvc := service.NewPricingService(repos, pricing.NewEngine(cfg.MatchPolicy), opts...)
	guestPriceSvc := service.NewGuestPriceService(repos.Guests, repos.GuestPrices)
	eventSvc := service.NewEventService(repos.Events, logger)

	// --- Scheduler --------------------------------------------------------
	var sched *scheduler.Scheduler
	if cfg.PricingSchedule != "" {
		sched, err = scheduler.New(cfg.PricingSchedule, cfg.PricingLocation, cfg.PricingRunTimeout,
			func(ctx context.Context) {
				_, err := pricingSvc.Run(ctx, time.Now().In(cfg.PricingLocation))
				if errors.Is(err, domain.ErrRunInProgress) {
					slog.Warn("scheduled pricing run skipped", "error", err)
				}
				// Other failures are logged and journaled by the service.
			}, logger)
		if err != nil {
			slog.Error("failed to create scheduler", "error", err)
			os.Exit(1)
		}
		sched.Start()
		slog.Info("pricing scheduler started",
			"schedule", cfg.PricingSchedule,
			"timezone", cfg.PricingLocation.String(),
		)
	} else {
		slog.Info("pricing scheduler disabled")
	}

	// --- Router -----------------------------------------------------------
	srv := handler.NewServer(pricingSvc, guestPriceSvc, eventSvc,
		handler.WithLogger(logger),
		handler.WithLocation(cfg.PricingLocation),
		handler.WithRunTimeout(cfg.PricingRunTimeout),
	)
	router := handler.NewRouter(srv, handler.RouterConfig{
		Logger:       logger,
		CORSOrigins:  cfg.CORSOrigins,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})

	// --- HTTP Server ------------------------------------------------------
	// POST /runs answers only when the run is done, so the write timeout
	// must outlast a full run.
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.PricingRunTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// and a running scheduled job up to 15 seconds to complete.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if sched != nil {
		if err := sched.Stop(ctx); err != nil {
			slog.Error("scheduler shutdown error", "error", err)
		}
	}
	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
