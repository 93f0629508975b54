package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hotel-offers/internal/domain"
)

func TestOfferRepo_SaveAndList(t *testing.T) {
	set, tx := newTestSet(t)
	ctx := context.Background()
	exec(t, tx, `DELETE FROM special_offers`)

	end := june(30)
	first, inserted, err := set.Offers.Save(ctx, domain.SpecialOffer{
		Title:             "Early summer",
		Text:              "Quarter off in June",
		Categories:        []string{"Все виллы"},
		Formula:           "N = (C * 3) / 4",
		MinDays:           3,
		LoyaltyCompatible: true,
		BookingEnd:        &end,
	}, []domain.StayWindow{
		{Start: june(1), End: june(10)},
		{Start: june(20), End: june(25)},
	})
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotEqual(t, [16]byte{}, first.ID, "ID should be DB-generated UUID")
	assert.Nil(t, first.BookingStart)
	require.NotNil(t, first.BookingEnd)
	assert.True(t, first.BookingEnd.Equal(end))

	second, _, err := set.Offers.Save(ctx, domain.SpecialOffer{Title: "No windows"}, nil)
	require.NoError(t, err)

	offers, windows, err := set.Offers.List(ctx)
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, first.ID, offers[0].ID, "load order is creation order")
	assert.Equal(t, second.ID, offers[1].ID)
	assert.Equal(t, []string{"Все виллы"}, offers[0].Categories)
	assert.Equal(t, "N = (C * 3) / 4", offers[0].Formula)
	assert.Empty(t, offers[1].Categories)

	require.Len(t, windows[first.ID], 2)
	assert.True(t, windows[first.ID][0].Start.Equal(june(1)))
	assert.True(t, windows[first.ID][1].End.Equal(june(25)))
	assert.Empty(t, windows[second.ID])
}

func TestOfferRepo_SaveKeepsExistingTitle(t *testing.T) {
	set, _ := newTestSet(t)
	ctx := context.Background()

	original, inserted, err := set.Offers.Save(ctx, domain.SpecialOffer{Title: "Dup", Formula: "C * 0.9"}, nil)
	require.NoError(t, err)
	require.True(t, inserted)

	again, inserted, err := set.Offers.Save(ctx, domain.SpecialOffer{Title: "Dup", Formula: "C * 0.5"}, nil)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, original.ID, again.ID)
	assert.Equal(t, "C * 0.9", again.Formula)
}
