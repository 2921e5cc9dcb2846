package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown rate-limits fetch orchestration per product. A fetch only runs
// when the product's cooldown key can be claimed; concurrent fetchers for the
// same product lose the claim and back off.
type Cooldown struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCooldown builds a cooldown tracker. A nil client disables cooldowns and
// every Acquire succeeds.
func NewCooldown(client *redis.Client, ttl time.Duration) *Cooldown {
	return &Cooldown{client: client, ttl: ttl}
}

// Acquire attempts to claim the fetch slot for productID. It returns true
// when the caller holds the slot until the TTL elapses.
func (c *Cooldown) Acquire(ctx context.Context, productID string) (bool, error) {
	if c == nil || c.client == nil {
		return true, nil
	}

	ok, err := c.client.SetNX(ctx, cooldownKey(productID), time.Now().UTC().Format(time.RFC3339), c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire fetch cooldown: %w", err)
	}
	return ok, nil
}

// Release drops the cooldown early, used after fetch failures so a retry can
// run without waiting out the TTL.
func (c *Cooldown) Release(ctx context.Context, productID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, cooldownKey(productID)).Err(); err != nil {
		return fmt.Errorf("release fetch cooldown: %w", err)
	}
	return nil
}

func cooldownKey(productID string) string {
	return "reviewhub:fetch-cooldown:" + productID
}
