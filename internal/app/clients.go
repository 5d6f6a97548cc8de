package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/vitality-backend/internal/clients/redis"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
	"github.com/yungbote/vitality-backend/internal/platform/neo4jdb"
	"github.com/yungbote/vitality-backend/internal/platform/weather"
)

type Clients struct {
	Redis     *goredis.Client
	MomentBus redis.MomentBus
	Neo4j     *neo4jdb.Client
	Weather   weather.Provider
}

// wireClients connects the optional backends. Redis and Neo4j are skipped
// when their address is not configured.
func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var c Clients

	rdb, err := redis.NewClientFromEnv(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	if rdb != nil {
		bus, err := redis.NewMomentBus(rdb, log)
		if err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("init redis moment bus: %w", err)
		}
		c.Redis = rdb
		c.MomentBus = bus
	}

	graph, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		c.Close()
		return Clients{}, fmt.Errorf("init neo4j: %w", err)
	}
	c.Neo4j = graph

	var provider weather.Provider = weather.NewOpenMeteoFromEnv(log)
	if c.Redis != nil {
		provider = weather.NewCachedProvider(provider, redis.NewCache(c.Redis, "vitality:"), cfg.WeatherCacheTTL, log)
	}
	c.Weather = provider

	return c, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.MomentBus != nil {
		_ = c.MomentBus.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Neo4j != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = c.Neo4j.Close(ctx)
		cancel()
	}
}
