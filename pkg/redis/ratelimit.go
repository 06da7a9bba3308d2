package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
)

// RateLimiter enforces a per-tenant fixed-window request limit.
type RateLimiter struct {
	client *Client
	limit  int64
	window time.Duration
	logger ectologger.Logger
}

// NewRateLimiter creates a limiter allowing limit requests per window
// per tenant.
func NewRateLimiter(client *Client, limit int64, window time.Duration, logger ectologger.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

// Allow reports whether the tenant may make another request in the
// current window. On a Redis failure the request is allowed; rate
// limiting is protective, not load-bearing.
func (r *RateLimiter) Allow(ctx context.Context, tenantID string) (bool, error) {
	window := time.Now().Unix() / int64(r.window.Seconds())
	key := fmt.Sprintf("fern:ratelimit:%s:%d", tenantID, window)

	count, err := r.client.Incr(ctx, key)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Warn("Rate limit check failed")
		return true, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window); err != nil {
			r.logger.WithContext(ctx).WithError(err).Warn("Failed to expire rate limit key")
		}
	}

	return count <= r.limit, nil
}
