package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/config"
)

// Open returns the summary cache described by cfg. When Redis is disabled the
// client is nil and the cache is a NopSummaryCache. An unreachable server is
// only logged; the ledger keeps working on cache misses.
func Open(ctx context.Context, cfg config.RedisConfig, logger *logrus.Logger) (*redis.Client, SummaryCache) {
	if !cfg.Enabled {
		logger.Info("Redis disabled, summaries are computed on every request")
		return nil, NopSummaryCache{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).WithField("addr", cfg.Addr).Warn("Redis not reachable at startup")
	}

	return client, NewRedisSummaryCache(client, cfg.SummaryTTL)
}
