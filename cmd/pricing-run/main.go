// Command pricing-run prices every guest once and exits. It shares the
// configuration of the API server and is meant for cron jobs outside the
// server, backfills and local debugging.
//
// Usage:
//
//	pricing-run [-today 2025-06-01] [-progress=false]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"github.com/pkordes/hotel-offers/internal/broker/kafka"
	"github.com/pkordes/hotel-offers/internal/config"
	"github.com/pkordes/hotel-offers/internal/domain"
	"github.com/pkordes/hotel-offers/internal/obs"
	"github.com/pkordes/hotel-offers/internal/pricing"
	"github.com/pkordes/hotel-offers/internal/repo"
	"github.com/pkordes/hotel-offers/internal/service"
	"github.com/pkordes/hotel-offers/migrations"
)

func main() {
	if err := run(); err != nil {
		slog.Error("pricing run failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	todayFlag := flag.String("today", "", "booking date to price as of, YYYY-MM-DD (default: current date in PRICING_TIMEZONE)")
	showProgress := flag.Bool("progress", true, "draw a progress bar on stderr")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Info lines would tear the progress bar apart.
	level := cfg.LogLevel
	if *showProgress && obs.ParseLevel(level) < slog.LevelWarn {
		level = "warn"
	}
	logger := obs.NewLogger(os.Stderr, level, cfg.LogFormat)
	slog.SetDefault(logger)

	today := time.Now().In(cfg.PricingLocation)
	if *todayFlag != "" {
		today, err = time.Parse(domain.DateLayout, *todayFlag)
		if err != nil {
			return fmt.Errorf("-today: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.PricingRunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.PricingRunTimeout)
		defer cancel()
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	if cfg.MigrateOnStart {
		sqlDB := stdlib.OpenDBFromPool(pool)
		_, err := migrations.Up(ctx, sqlDB)
		_ = sqlDB.Close()
		if err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}

	opts := []service.PricingOption{
		service.WithWorkers(cfg.PricingWorkers),
		service.WithLogger(logger),
	}
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, nil)
		if err != nil {
			return err
		}
		defer publisher.Close()
		opts = append(opts, service.WithPublisher(publisher))
	}
	var bar *barProgress
	if *showProgress {
		bar = newBarProgress()
		opts = append(opts, service.WithProgress(bar))
	}

	svc := service.NewPricingService(repo.NewSet(pool), pricing.NewEngine(cfg.MatchPolicy), opts...)
	summary, err := svc.Run(ctx, today)
	if bar != nil {
		bar.Finish()
	}
	printSummary(summary)
	return err
}

func printSummary(s domain.RunSummary) {
	fmt.Printf("run %s for %s\n", s.RunID, s.Today.Format(domain.DateLayout))
	fmt.Printf("  guests:   %d\n", s.Guests)
	fmt.Printf("  priced:   %d\n", s.Priced)
	fmt.Printf("  skipped:  %d\n", s.Skipped)
	fmt.Printf("  failed:   %d\n", s.Failed)
	fmt.Printf("  rows:     %d\n", s.Rows)
	if !s.FinishedAt.IsZero() {
		fmt.Printf("  duration: %s\n", s.Duration().Round(time.Millisecond))
	}
}

// barProgress draws one tick per guest. The service serialises calls.
type barProgress struct {
	bar *progressbar.ProgressBar
}

func newBarProgress() *barProgress {
	return &barProgress{bar: progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("pricing guests"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("guests"),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(100*time.Millisecond),
	)}
}

func (p *barProgress) Start(total int) {
	p.bar.ChangeMax(total)
}

func (p *barProgress) GuestDone(res domain.GuestResult) {
	if res.Status == domain.GuestFailed {
		p.bar.Describe(fmt.Sprintf("pricing guests (guest %d failed)", res.GuestID))
	}
	_ = p.bar.Add(1)
}

func (p *barProgress) Finish() {
	_ = p.bar.Finish()
	fmt.Fprintln(os.Stderr)
}
