package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedStatus carries the purchaser so reads can be authorized without
// loading the order.
type CachedStatus struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	Purchaser string    `json:"purchaser"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusCache keeps the latest known status per order for cheap polling.
type StatusCache struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewStatusCache(rdb *redis.Client) *StatusCache {
	return &StatusCache{RDB: rdb, TTL: TTLStatusCache}
}

func (c *StatusCache) Set(ctx context.Context, cs CachedStatus) error {
	b, err := json.Marshal(cs)
	if err != nil {
		return err
	}
	return c.RDB.Set(ctx, OrderStatusKey(cs.OrderID), b, c.TTL).Err()
}

// Get reports false on a cache miss.
func (c *StatusCache) Get(ctx context.Context, orderID string) (CachedStatus, bool, error) {
	b, err := c.RDB.Get(ctx, OrderStatusKey(orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return CachedStatus{}, false, nil
	}
	if err != nil {
		return CachedStatus{}, false, err
	}
	var cs CachedStatus
	if err := json.Unmarshal(b, &cs); err != nil {
		return CachedStatus{}, false, err
	}
	return cs, true, nil
}
