package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/viw-carta/backend/pkg/response"
)

// RateLimitStore counts hits per key within a rolling window.
type RateLimitStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (int, error)
}

// RedisRateLimitStore implements RateLimitStore on redis with a pipelined
// INCR + EXPIRE.
type RedisRateLimitStore struct {
	client *redis.Client
}

// NewRedisRateLimitStore creates a redis-backed rate limit store.
func NewRedisRateLimitStore(client *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{client: client}
}

// Increment bumps and returns the counter for key, setting the window TTL.
func (s *RedisRateLimitStore) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

// RateLimit returns a per-client-IP rate limiting middleware. On store
// failure the request is allowed through: the limiter protects the login
// endpoint from brute force, it is not a correctness gate.
func RateLimit(store RateLimitStore, name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}
		key := fmt.Sprintf("rate_limit:%s:%s", name, c.ClientIP())
		count, err := store.Increment(c.Request.Context(), key, window)
		if err == nil && count > limit {
			c.JSON(http.StatusTooManyRequests, response.Body{
				Success: false,
				Error:   "too many requests",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
