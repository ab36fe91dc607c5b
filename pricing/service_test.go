package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"mist/models"
)

// fakeSource returns canned offers and counts external calls.
type fakeSource struct {
	offers []Offer
	err    error
	calls  int
}

func (f *fakeSource) Search(ctx context.Context, title string) ([]Offer, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.offers, nil
}

func newTestService(t *testing.T, source Source) (*Service, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, conn.AutoMigrate(&models.Game{}))
	return NewService(source, conn), conn
}

func seedGame(t *testing.T, conn *gorm.DB) *models.Game {
	t.Helper()
	game := &models.Game{ID: 101, Title: "Half-Life 3", Price: 59.99}
	require.NoError(t, conn.Create(game).Error)
	return game
}

func TestEnsureFreshPricesPicksMinimum(t *testing.T) {
	source := &fakeSource{offers: []Offer{
		{Store: "Steam", Price: "39.99 $", RetailPrice: "59.99 $", Savings: "33%"},
		{Store: "GOG", Price: "29.99 $", RetailPrice: "59.99 $", Savings: "50%"},
		{Store: "Epic Games", Price: "34.99 $", RetailPrice: "59.99 $", Savings: "42%"},
	}}
	svc, conn := newTestService(t, source)
	game := seedGame(t, conn)

	svc.EnsureFreshPrices(context.Background(), game)

	require.NotNil(t, game.BestDeal)
	assert.Equal(t, "GOG", game.BestDeal.Store)
	assert.Equal(t, 29.99, game.BestDeal.Price)
	require.Len(t, game.AllDeals, 3)
	require.NotNil(t, game.LastPriceUpdate)

	// best deal is the minimum of the stored list
	min := game.AllDeals[0].Price
	for _, d := range game.AllDeals {
		if d.Price < min {
			min = d.Price
		}
	}
	assert.Equal(t, min, game.BestDeal.Price)

	// refreshed record was persisted
	var stored models.Game
	require.NoError(t, conn.First(&stored, game.ID).Error)
	require.NotNil(t, stored.BestDeal)
	assert.Equal(t, "GOG", stored.BestDeal.Store)
}

func TestEnsureFreshPricesTieBreaksOnFirstOffer(t *testing.T) {
	source := &fakeSource{offers: []Offer{
		{Store: "Steam", Price: "19.99 $"},
		{Store: "GOG", Price: "19.99 $"},
	}}
	svc, conn := newTestService(t, source)
	game := seedGame(t, conn)

	svc.EnsureFreshPrices(context.Background(), game)

	require.NotNil(t, game.BestDeal)
	assert.Equal(t, "Steam", game.BestDeal.Store)
}

func TestEnsureFreshPricesHonorsTTL(t *testing.T) {
	source := &fakeSource{offers: []Offer{{Store: "Steam", Price: "9.99 $"}}}
	svc, conn := newTestService(t, source)
	game := seedGame(t, conn)

	svc.EnsureFreshPrices(context.Background(), game)
	require.Equal(t, 1, source.calls)
	firstStamp := *game.LastPriceUpdate

	// a second call inside the window makes no external call and changes nothing
	svc.EnsureFreshPrices(context.Background(), game)
	assert.Equal(t, 1, source.calls)
	assert.Equal(t, firstStamp, *game.LastPriceUpdate)

	// past the TTL the refresh runs again
	svc.now = func() time.Time { return firstStamp.Add(2 * time.Hour) }
	svc.EnsureFreshPrices(context.Background(), game)
	assert.Equal(t, 2, source.calls)
	assert.True(t, game.LastPriceUpdate.After(firstStamp))
}

func TestEnsureFreshPricesSoftFailsOnLookupError(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}
	svc, conn := newTestService(t, source)
	game := seedGame(t, conn)

	got := svc.EnsureFreshPrices(context.Background(), game)

	assert.Same(t, game, got, "caller still receives the record")
	assert.Nil(t, game.BestDeal)
	assert.Nil(t, game.LastPriceUpdate, "failed fetch must not advance the timestamp")
}

func TestEnsureFreshPricesSoftFailKeepsStaleDeals(t *testing.T) {
	source := &fakeSource{offers: []Offer{{Store: "Steam", Price: "14.99 $", Savings: "50%"}}}
	svc, conn := newTestService(t, source)
	game := seedGame(t, conn)

	svc.EnsureFreshPrices(context.Background(), game)
	require.NotNil(t, game.BestDeal)
	stamp := *game.LastPriceUpdate

	// TTL expires, then the source starts failing
	source.err = errors.New("upstream down")
	svc.now = func() time.Time { return stamp.Add(2 * time.Hour) }
	svc.EnsureFreshPrices(context.Background(), game)

	require.NotNil(t, game.BestDeal, "stale deal survives a failed refresh")
	assert.Equal(t, "Steam", game.BestDeal.Store)
	assert.Equal(t, stamp, *game.LastPriceUpdate, "timestamp stays put so the next request retries")
}

func TestEnsureFreshPricesZeroOffersDoNotAdvance(t *testing.T) {
	source := &fakeSource{offers: nil}
	svc, conn := newTestService(t, source)
	game := seedGame(t, conn)

	svc.EnsureFreshPrices(context.Background(), game)

	assert.Nil(t, game.BestDeal)
	assert.Nil(t, game.LastPriceUpdate)
	assert.Equal(t, 1, source.calls)

	// still retried on the next request
	svc.EnsureFreshPrices(context.Background(), game)
	assert.Equal(t, 2, source.calls)
}

func TestCompare(t *testing.T) {
	source := &fakeSource{offers: []Offer{
		{Store: "Steam", Price: "12.49 $", RetailPrice: "24.99 $", Savings: "50%"},
	}}
	svc, _ := newTestService(t, source)

	deals, err := svc.Compare(context.Background(), "Portal 3")
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, 12.49, deals[0].Price)

	source.err = errors.New("down")
	_, err = svc.Compare(context.Background(), "Portal 3")
	assert.Error(t, err)
}
