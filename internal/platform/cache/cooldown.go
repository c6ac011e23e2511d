package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const cooldownKeyPrefix = "submit_cooldown"

// SubmitCooldown allows one graded submission per user and problem within the configured window.
type SubmitCooldown struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSubmitCooldown(rdb *redis.Client, ttl time.Duration) *SubmitCooldown {
	return &SubmitCooldown{rdb: rdb, ttl: ttl}
}

// Acquire reports false while an earlier submission of the same user to the same problem is still cooling down.
func (c *SubmitCooldown) Acquire(ctx context.Context, userID, contestID, problemID string) (bool, error) {
	if c.ttl <= 0 {
		return true, nil
	}
	key := fmt.Sprintf("%s:%s:%s:%s", cooldownKeyPrefix, contestID, problemID, userID)
	ok, err := c.rdb.SetNX(ctx, key, uuid.NewString(), c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("SubmitCooldown.Acquire: %w", err)
	}
	return ok, nil
}
