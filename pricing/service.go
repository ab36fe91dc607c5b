package pricing

import (
	"context"
	"time"

	"gorm.io/gorm"

	"mist/models"
	"mist/monitoring"
	"mist/utils"
)

// DefaultTTL is the freshness window of the per-game price cache.
const DefaultTTL = time.Hour

// Service keeps the price-comparison cache on catalog records fresh.
type Service struct {
	source Source
	db     *gorm.DB
	ttl    time.Duration
	now    func() time.Time
}

func NewService(source Source, db *gorm.DB) *Service {
	return &Service{
		source: source,
		db:     db,
		ttl:    DefaultTTL,
		now:    time.Now,
	}
}

// EnsureFreshPrices refreshes the cached deals on a game when its
// LastPriceUpdate is absent or older than the TTL. On any lookup failure or
// an empty result the record is returned untouched: the stale (possibly nil)
// best deal stays, the timestamp does not advance, and the next request past
// the TTL retries. The caller never sees an error from this path.
func (s *Service) EnsureFreshPrices(ctx context.Context, game *models.Game) *models.Game {
	now := s.now()
	if game.LastPriceUpdate != nil && now.Sub(*game.LastPriceUpdate) < s.ttl {
		return game
	}

	offers, err := s.source.Search(ctx, game.Title)
	if err != nil {
		utils.Log.WithField("title", game.Title).WithError(err).Warn("Deals lookup failed, keeping cached prices")
		monitoring.PriceRefreshTotal.WithLabelValues("failure").Inc()
		return game
	}

	deals := Normalize(offers)
	if len(deals) == 0 {
		monitoring.PriceRefreshTotal.WithLabelValues("empty").Inc()
		return game
	}

	// Minimum price wins; strict comparison keeps the first offer on ties.
	best := deals[0]
	for _, d := range deals[1:] {
		if d.Price < best.Price {
			best = d
		}
	}

	game.BestDeal = &best
	game.AllDeals = deals
	game.LastPriceUpdate = &now

	if err := s.db.Save(game).Error; err != nil {
		utils.Log.WithField("title", game.Title).WithError(err).Error("Failed to persist refreshed prices")
	}

	monitoring.PriceRefreshTotal.WithLabelValues("success").Inc()
	utils.Log.WithField("title", game.Title).Debugf("Prices refreshed, %d deals", len(deals))
	return game
}

// Compare returns the normalized offer list for a title without touching any
// catalog record. Used by the deals comparison endpoint.
func (s *Service) Compare(ctx context.Context, title string) ([]models.Deal, error) {
	offers, err := s.source.Search(ctx, title)
	if err != nil {
		return nil, err
	}
	return Normalize(offers), nil
}
