package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hotel-offers/internal/domain"
	"github.com/pkordes/hotel-offers/internal/repo"
	"github.com/pkordes/hotel-offers/testutil"
)

// newTestSet opens a transaction against the test database and returns every
// repository backed by it. The transaction is rolled back when the test
// finishes, so tests never see each other's rows.
func newTestSet(t *testing.T) (repo.Set, pgx.Tx) {
	t.Helper()
	tx := testutil.NewTx(t)
	return repo.NewSet(tx), tx
}

func june(day int) time.Time {
	return time.Date(2025, time.June, day, 0, 0, 0, 0, time.UTC)
}

// insertGuest stores a guest fixture and returns its generated id.
func insertGuest(t *testing.T, tx pgx.Tx, g domain.Guest) int64 {
	t.Helper()
	const q = `
		INSERT INTO guest_details
			(first_name, last_name, adults, teens, infant, preferred_categories, loyalty_status, desired_price_per_night)
		VALUES
			(@first_name, @last_name, @adults, @teens, @infant, @prefs, @loyalty, @desired)
		RETURNING id`

	prefs := g.PreferredCategories
	if prefs == nil {
		prefs = []string{}
	}
	var id int64
	err := tx.QueryRow(context.Background(), q, pgx.NamedArgs{
		"first_name": g.FirstName,
		"last_name":  g.LastName,
		"adults":     g.Adults,
		"teens":      g.Teens,
		"infant":     g.Infants,
		"prefs":      prefs,
		"loyalty":    g.LoyaltyStatus,
		"desired":    g.DesiredPricePerNight,
	}).Scan(&id)
	require.NoError(t, err, "insert guest")
	return id
}

func exec(t *testing.T, tx pgx.Tx, sql string, args ...any) {
	t.Helper()
	_, err := tx.Exec(context.Background(), sql, args...)
	require.NoError(t, err, sql)
}
