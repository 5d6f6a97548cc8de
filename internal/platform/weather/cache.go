package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

// Cache stores raw values with a TTL. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type cachedProvider struct {
	next  Provider
	cache Cache
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedProvider fronts next with cache. Cache failures fall through to
// next and are only logged.
func NewCachedProvider(next Provider, cache Cache, ttl time.Duration, log *logger.Logger) Provider {
	if cache == nil {
		return next
	}
	return &cachedProvider{next: next, cache: cache, ttl: ttl, log: log.With("client", "CachedWeather")}
}

// CacheKey rounds coordinates to about a kilometre so nearby users share
// an entry.
func CacheKey(lat, lon float64) string {
	return fmt.Sprintf("weather:%.2f:%.2f", lat, lon)
}

func (p *cachedProvider) Current(ctx context.Context, lat, lon float64) (*Conditions, error) {
	key := CacheKey(lat, lon)
	if raw, ok, err := p.cache.Get(ctx, key); err != nil {
		p.log.Warn("weather cache read failed", "key", key, "error", err)
	} else if ok {
		var c Conditions
		if err := json.Unmarshal(raw, &c); err == nil {
			return &c, nil
		}
	}

	c, err := p.next.Current(ctx, lat, lon)
	if err != nil || c == nil {
		return c, err
	}
	if raw, err := json.Marshal(c); err == nil {
		if err := p.cache.Set(ctx, key, raw, p.ttl); err != nil {
			p.log.Warn("weather cache write failed", "key", key, "error", err)
		}
	}
	return c, nil
}
