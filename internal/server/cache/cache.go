// Package cache provides a Redis-backed cache for ranked search results.
// Ranking a query is deterministic, so identical (model, query, top-k)
// triples always cache the same result list. The cache degrades to
// pass-through when Redis is unavailable.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/scholarsearch/retrieval-platform/internal/analytics"
	"github.com/scholarsearch/retrieval-platform/internal/engine/normalizer"
	"github.com/scholarsearch/retrieval-platform/internal/engine/ranker"
	"github.com/scholarsearch/retrieval-platform/pkg/config"
	pkgredis "github.com/scholarsearch/retrieval-platform/pkg/redis"
	"github.com/scholarsearch/retrieval-platform/pkg/resilience"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "retrieval:"

// RankedCache caches ranked result lists keyed by retrieval model, the
// normalized query terms, and the result limit. A circuit breaker keeps a
// failing Redis from adding latency to every query.
type RankedCache struct {
	client  *pkgredis.Client
	cfg     config.RedisConfig
	group   singleflight.Group
	breaker *resilience.CircuitBreaker
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

// New creates a RankedCache over the given Redis client.
func New(client *pkgredis.Client, cfg config.RedisConfig) *RankedCache {
	return &RankedCache{
		client:  client,
		cfg:     cfg,
		breaker: resilience.NewCircuitBreaker("redis-cache", resilience.CircuitBreakerConfig{}),
		logger:  slog.Default().With("component", "query-cache"),
	}
}

// GetOrCompute returns the cached result list for the query or computes and
// stores it. Concurrent identical queries share one computation through
// singleflight. The second return value reports a cache hit.
func (c *RankedCache) GetOrCompute(
	ctx context.Context,
	model string,
	query string,
	topK int,
	computeFn func() []ranker.ScoredDoc,
) ([]ranker.ScoredDoc, bool) {
	key := c.buildKey(model, query, topK)
	if results, ok := c.get(ctx, key); ok {
		return results, true
	}
	val, _, _ := c.group.Do(key, func() (interface{}, error) {
		if results, ok := c.get(ctx, key); ok {
			return results, nil
		}
		results := computeFn()
		c.set(ctx, key, results)
		return results, nil
	})
	return val.([]ranker.ScoredDoc), false
}

// Invalidate removes every cached result list.
func (c *RankedCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating query cache: %w", err)
	}
	c.logger.Info("query cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns the hit and miss counters.
func (c *RankedCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *RankedCache) get(ctx context.Context, key string) ([]ranker.ScoredDoc, bool) {
	var data string
	var found bool
	err := c.breaker.Execute(func() error {
		val, err := c.client.Get(ctx, key)
		if err != nil {
			// A missing key is a miss, not a Redis failure.
			if pkgredis.IsNilError(err) {
				return nil
			}
			return err
		}
		data = val
		found = true
		return nil
	})
	if err != nil {
		if !errors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	if !found {
		c.misses.Add(1)
		return nil, false
	}
	var results []ranker.ScoredDoc
	if err := json.Unmarshal([]byte(data), &results); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return results, true
}

func (c *RankedCache) set(ctx context.Context, key string, results []ranker.ScoredDoc) {
	data, err := json.Marshal(results)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	err = c.breaker.Execute(func() error {
		return c.client.Set(ctx, key, data, c.cfg.CacheTTL)
	})
	if err != nil && !errors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// buildKey hashes the model, the normalized query terms, and the limit.
// BM25 sums per-term contributions, so its terms are sorted and reordered
// queries share an entry. Vector queries keep their order: the query vector
// includes bigrams of adjacent tokens, so reordering changes the ranking.
func (c *RankedCache) buildKey(model, query string, topK int) string {
	terms := normalizer.Normalize(query)
	if model != string(analytics.ModelVector) {
		sort.Strings(terms)
	}
	raw := fmt.Sprintf("%s:%s:topk=%d", model, strings.Join(terms, ","), topK)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
