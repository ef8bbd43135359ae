package prices

import (
	"context"
	"fmt"
	"time"

	"SenateInsight/internal/domain/models"
	"SenateInsight/internal/domain/service"
	"SenateInsight/pkg/cache"
)

// CachedSource wraps a PriceSource with a cache layer. Keys carry the full
// requested window so overlapping windows never serve partial data.
type CachedSource struct {
	next  service.PriceSource
	cache cache.Service
	ttl   time.Duration
}

func NewCachedSource(next service.PriceSource, c cache.Service, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedSource{next: next, cache: c, ttl: ttl}
}

func (s *CachedSource) DailyBars(ctx context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error) {
	key := fmt.Sprintf("prices:%s:%s:%s", ticker, from.UTC().Format("2006-01-02"), to.UTC().Format("2006-01-02"))

	var cached []models.PriceBar
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}
	// misses and cache errors both fall through; a broken cache must not
	// block analysis

	bars, err := s.next.DailyBars(ctx, ticker, from, to)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, bars, s.ttl)
	return bars, nil
}

var _ service.PriceSource = (*CachedSource)(nil)
