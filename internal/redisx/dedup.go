package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Dedup records processed event ids so redelivered messages are skipped.
type Dedup struct {
	RDB     *redis.Client
	Service string
	TTL     time.Duration
}

func NewDedup(rdb *redis.Client, service string) *Dedup {
	return &Dedup{RDB: rdb, Service: service, TTL: TTLDedup}
}

// First reports whether id has not been seen before and marks it seen.
func (d *Dedup) First(ctx context.Context, id string) (bool, error) {
	return d.RDB.SetNX(ctx, DedupKey(d.Service, id), 1, d.TTL).Result()
}

// Forget unmarks id, used when processing failed and should be retried.
func (d *Dedup) Forget(ctx context.Context, id string) error {
	return d.RDB.Del(ctx, DedupKey(d.Service, id)).Err()
}
