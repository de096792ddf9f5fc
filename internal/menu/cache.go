package menu

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/viw-carta/backend/internal/models"
)

// cacheTTL bounds staleness when an invalidation is lost.
const cacheTTL = 5 * time.Minute

// Cache stores rendered menu payloads in redis, keyed by tenant id.
// Misses and redis failures both fall through to the database, so the
// cache is never a correctness dependency.
type Cache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCache creates a menu cache.
func NewCache(client *redis.Client, logger *zap.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

func cacheKey(tenantID uuid.UUID) string {
	return "menu:" + tenantID.String()
}

// Get returns the cached menu for a tenant, or nil on miss.
func (c *Cache) Get(ctx context.Context, tenantID uuid.UUID) *models.Menu {
	if c.client == nil {
		return nil
	}
	data, err := c.client.Get(ctx, cacheKey(tenantID)).Bytes()
	if err != nil {
		return nil
	}
	var menu models.Menu
	if err := json.Unmarshal(data, &menu); err != nil {
		return nil
	}
	return &menu
}

// Set stores the menu for a tenant.
func (c *Cache) Set(ctx context.Context, tenantID uuid.UUID, menu *models.Menu) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(menu)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(tenantID), data, cacheTTL).Err(); err != nil {
		c.logger.Warn("menu cache set", zap.Error(err))
	}
}

// Invalidate drops the cached menu after a category, meal, or message
// mutation.
func (c *Cache) Invalidate(ctx context.Context, tenantID uuid.UUID) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, cacheKey(tenantID)).Err(); err != nil {
		c.logger.Warn("menu cache invalidate", zap.Error(err))
	}
}
