package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CheckAndSetRateLimit reserves a single slot for (subject, action) in redis.
// It returns false when the slot is already taken. Limiting is best effort:
// a nil client or an unreachable redis allows the request through so that
// login and apply keep working during a cache outage.
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, subject, action string, limit time.Duration) bool {
	if rdb == nil {
		return true
	}

	key := fmt.Sprintf("rate_limit:%s:%s", action, subject)

	wasSet, err := rdb.SetNX(ctx, key, "locked", limit).Result()
	if err != nil {
		zap.L().Warn("rate limit check failed, allowing request",
			zap.String("action", action),
			zap.Error(err))
		return true
	}

	return wasSet
}
