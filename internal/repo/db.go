// Package repo contains all database access logic for the hotel offers service.
// Each resource has its own file with an interface and a Postgres implementation.
// No pricing logic lives here, only SQL and type mapping.
package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test;
// Begin on a pgx.Tx opens a savepoint, so repos that need their own
// transaction still work inside one.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Set bundles every repository over one connection.
type Set struct {
	Guests      GuestRepo
	Rooms       RoomRepo
	Loyalty     LoyaltyRepo
	Offers      OfferRepo
	Prices      RegularPriceRepo
	GuestPrices GuestPriceRepo
	Events      EventRepo
}

// NewSet constructs all repositories backed by db.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx.
func NewSet(db db) Set {
	return Set{
		Guests:      NewGuestRepo(db),
		Rooms:       NewRoomRepo(db),
		Loyalty:     NewLoyaltyRepo(db),
		Offers:      NewOfferRepo(db),
		Prices:      NewRegularPriceRepo(db),
		GuestPrices: NewGuestPriceRepo(db),
		Events:      NewEventRepo(db),
	}
}
