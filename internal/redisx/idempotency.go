package redisx

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// pending marks a claimed key whose request has not produced an order yet.
const pending = "-"

// Idempotency remembers which order a client-supplied key produced.
type Idempotency struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewIdempotency(rdb *redis.Client) *Idempotency {
	return &Idempotency{RDB: rdb, TTL: TTLIdempotency}
}

// Claim reserves key for purchaser. When the key is already taken it
// returns claimed=false and the order id recorded for it, which is empty
// while the first request is still in flight.
func (s *Idempotency) Claim(ctx context.Context, purchaser, key string) (claimed bool, orderID string, err error) {
	k := IdemOrderCreateKey(purchaser, key)
	ok, err := s.RDB.SetNX(ctx, k, pending, s.TTL).Result()
	if err != nil || ok {
		return ok, "", err
	}
	v, err := s.RDB.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; let the caller retry
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}
	if v == pending {
		return false, "", nil
	}
	return false, v, nil
}

func (s *Idempotency) Complete(ctx context.Context, purchaser, key, orderID string) error {
	return s.RDB.Set(ctx, IdemOrderCreateKey(purchaser, key), orderID, s.TTL).Err()
}

// Release drops a claim whose request failed so the client can retry.
func (s *Idempotency) Release(ctx context.Context, purchaser, key string) error {
	return s.RDB.Del(ctx, IdemOrderCreateKey(purchaser, key)).Err()
}
