package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter caps AI requests per user per calendar day. A nil *Limiter or a
// zero limit disables the cap.
type Limiter struct {
	rdb   *redis.Client
	limit int64
}

func NewLimiter(rdb *redis.Client, dailyLimit int64) *Limiter {
	return &Limiter{rdb: rdb, limit: dailyLimit}
}

// Allow increments the user's counter for today and reports whether the
// request fits under the daily limit.
func (l *Limiter) Allow(ctx context.Context, userID int64) (bool, error) {
	if l == nil || l.rdb == nil || l.limit <= 0 {
		return true, nil
	}

	key := fmt.Sprintf("ai:%d:%s", userID, time.Now().Format("2006-01-02"))

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("increment ai counter: %w", err)
	}
	if count == 1 {
		// Counters live long enough to cover the day, then expire.
		if err := l.rdb.Expire(ctx, key, 48*time.Hour).Err(); err != nil {
			return false, fmt.Errorf("expire ai counter: %w", err)
		}
	}

	return count <= l.limit, nil
}
