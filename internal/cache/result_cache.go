package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/priyankgupta/doi-monitor/internal/config"
	"github.com/priyankgupta/doi-monitor/internal/domain"
)

const (
	resultKeyPrefix     = "doi:result"
	resultScanBatchSize = 100
)

// ResultCache stores computed report views keyed by dataset, window length
// and selection, so filter changes that revisit a view skip the aggregation.
type ResultCache interface {
	GetResult(ctx context.Context, datasetID string, days int, sel domain.Selection) (*domain.Result, bool, error)
	SetResult(ctx context.Context, datasetID string, days int, sel domain.Selection, result *domain.Result) error
	InvalidateAll(ctx context.Context) error
}

type redisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopResultCache struct{}

func NewResultCache(cfg config.CacheConfig) (ResultCache, error) {
	if !cfg.Enabled {
		return &noopResultCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisResultCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopResultCache() ResultCache {
	return &noopResultCache{}
}

func (c *redisResultCache) GetResult(ctx context.Context, datasetID string, days int, sel domain.Selection) (*domain.Result, bool, error) {
	key := buildResultKey(datasetID, days, sel)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode result cache: %w", err)
	}

	return &result, true, nil
}

func (c *redisResultCache) SetResult(ctx context.Context, datasetID string, days int, sel domain.Selection, result *domain.Result) error {
	key := buildResultKey(datasetID, days, sel)
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisResultCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, resultKeyPrefix, resultScanBatchSize)
}

func (n *noopResultCache) GetResult(ctx context.Context, datasetID string, days int, sel domain.Selection) (*domain.Result, bool, error) {
	return nil, false, nil
}

func (n *noopResultCache) SetResult(ctx context.Context, datasetID string, days int, sel domain.Selection, result *domain.Result) error {
	return nil
}

func (n *noopResultCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildResultKey(datasetID string, days int, sel domain.Selection) string {
	return fmt.Sprintf("%s:%s", resultKeyPrefix, resultHash(datasetID, days, sel))
}

func resultHash(datasetID string, days int, sel domain.Selection) string {
	parts := []string{
		"dataset=" + datasetID,
		fmt.Sprintf("days=%d", days),
	}

	if sel.HasSKU() {
		parts = append(parts, "sku="+strings.ToLower(strings.TrimSpace(sel.SKU)))
	}
	if sel.HasCity() {
		parts = append(parts, "city="+strings.ToLower(strings.TrimSpace(sel.City)))
	}
	if sel.Pan != domain.PanNone && sel.Pan != "" {
		parts = append(parts, "pan="+strings.ToLower(string(sel.Pan)))
	}

	sort.Strings(parts)
	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
