package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/loan-tracker/internal/domain"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
)

// SummaryCache keeps the last computed ledger summary of a file. Entries carry
// the day and ledger version they were computed from; callers use one only
// when both still match (see domain.CachedSummary.Matches).
type SummaryCache interface {
	// Get returns the cached entry of fileID; ok is false on a miss.
	Get(ctx context.Context, fileID uuid.UUID) (entry domain.CachedSummary, ok bool, err error)

	// Set stores entry for fileID
	Set(ctx context.Context, fileID uuid.UUID, entry domain.CachedSummary) error

	// Invalidate drops whatever is cached for fileID
	Invalidate(ctx context.Context, fileID uuid.UUID) error
}

type redisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) SummaryCache {
	return &redisSummaryCache{client: client, ttl: ttl}
}

func SummaryKey(fileID uuid.UUID) string {
	return fmt.Sprintf("ledger:summary:%s", fileID)
}

func (c *redisSummaryCache) Get(ctx context.Context, fileID uuid.UUID) (domain.CachedSummary, bool, error) {
	raw, err := c.client.Get(ctx, SummaryKey(fileID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.CachedSummary{}, false, nil
	}
	if err != nil {
		return domain.CachedSummary{}, false, customError.WrapCacheError(err)
	}

	var cached domain.CachedSummary
	if err := json.Unmarshal(raw, &cached); err != nil {
		return domain.CachedSummary{}, false, customError.WrapCacheError(err)
	}
	return cached, true, nil
}

func (c *redisSummaryCache) Set(ctx context.Context, fileID uuid.UUID, entry domain.CachedSummary) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return customError.WrapCacheError(err)
	}
	if err := c.client.Set(ctx, SummaryKey(fileID), payload, c.ttl).Err(); err != nil {
		return customError.WrapCacheError(err)
	}
	return nil
}

func (c *redisSummaryCache) Invalidate(ctx context.Context, fileID uuid.UUID) error {
	if err := c.client.Del(ctx, SummaryKey(fileID)).Err(); err != nil {
		return customError.WrapCacheError(err)
	}
	return nil
}

// NopSummaryCache is used when Redis is disabled; every lookup misses.
type NopSummaryCache struct{}

func (NopSummaryCache) Get(context.Context, uuid.UUID) (domain.CachedSummary, bool, error) {
	return domain.CachedSummary{}, false, nil
}

func (NopSummaryCache) Set(context.Context, uuid.UUID, domain.CachedSummary) error {
	return nil
}

func (NopSummaryCache) Invalidate(context.Context, uuid.UUID) error {
	return nil
}
