package redis

import (
	"context"
	"strconv"
	"time"
)

// RateLimiter is the subset used by the request limiter middleware.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// FixedWindowAllow counts a hit against scope in the current window and
// reports whether the count is still within limit. Each window gets its own
// key, which expires one window after it opens.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	if c.cmd == nil {
		return false, 0, errNotConnected
	}
	if window <= 0 {
		window = time.Minute
	}
	key := c.windowKey(scope, window)
	count, err := c.cmd.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := c.cmd.Expire(ctx, key, window).Err(); err != nil {
			return true, count, err
		}
	}
	return count <= limit, count, nil
}

// windowKey returns pd:rate_limit:<scope>:<window index>.
func (c *Client) windowKey(scope string, window time.Duration) string {
	index := c.clock().UnixNano() / int64(window)
	return joinKey("rate_limit", scope, strconv.FormatInt(index, 10))
}
