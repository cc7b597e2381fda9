package summarize

import (
	"context"
	"encoding/json"
	"sort"

	"go.uber.org/zap"

	"github.com/vidsum/core/internal/models"
	"github.com/vidsum/core/internal/pkg/kv"
)

const cacheKeyPrefix = "summary:"

// Cache stores one summary per (platform, videoId) in the cache
// partition. Last write wins; regenerating with a different prompt
// overwrites the slot.
type Cache struct {
	store  kv.Store
	logger *zap.Logger
}

func NewCache(store kv.Store, logger *zap.Logger) *Cache {
	return &Cache{store: store, logger: logger}
}

func cacheKey(videoID string, platform models.Platform) string {
	return cacheKeyPrefix + models.VideoKey(videoID, platform)
}

// Get returns the cached summary for a video, or nil when absent.
func (c *Cache) Get(ctx context.Context, videoID string, platform models.Platform) (*models.CachedSummary, error) {
	raw, ok, err := c.store.Get(ctx, cacheKey(videoID, platform))
	if err != nil || !ok {
		return nil, err
	}
	var cached models.CachedSummary
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		// Unreadable slot; treat as a miss and let the next write fix it.
		c.logger.Warn("dropping corrupt cache entry", zap.String("videoId", videoID), zap.Error(err))
		return nil, nil
	}
	return &cached, nil
}

// Put writes the summary, unconditionally overwriting any prior entry
// for the video.
func (c *Cache) Put(ctx context.Context, summary models.CachedSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, cacheKey(summary.VideoID, summary.Platform), string(raw))
}

// Delete removes the cached summary for a video.
func (c *Cache) Delete(ctx context.Context, videoID string, platform models.Platform) error {
	return c.store.Delete(ctx, cacheKey(videoID, platform))
}

// ListAll returns every cached summary, newest first.
func (c *Cache) ListAll(ctx context.Context) ([]models.CachedSummary, error) {
	keys, err := c.store.Keys(ctx, cacheKeyPrefix)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.CachedSummary, 0, len(keys))
	for _, key := range keys {
		raw, ok, err := c.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		var cached models.CachedSummary
		if err := json.Unmarshal([]byte(raw), &cached); err != nil {
			c.logger.Warn("skipping corrupt cache entry", zap.String("key", key), zap.Error(err))
			continue
		}
		summaries = append(summaries, cached)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Timestamp > summaries[j].Timestamp
	})
	return summaries, nil
}

// ClearAll removes every cached summary.
func (c *Cache) ClearAll(ctx context.Context) error {
	keys, err := c.store.Keys(ctx, cacheKeyPrefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := c.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
