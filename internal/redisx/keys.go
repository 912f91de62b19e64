package redisx

import (
	"fmt"
	"time"
)

const (
	// Idempotency create order: idem:order:create:{purchaser}:{key} -> order_id
	KeyIdemOrderCreate = "idem:order:create:%s:%s"

	// Cache status order: order_status:{order_id} -> {"status": "...", "updated_at": "..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)

func IdemOrderCreateKey(purchaser, key string) string {
	return fmt.Sprintf(KeyIdemOrderCreate, purchaser, key)
}

func OrderStatusKey(orderID string) string { return fmt.Sprintf(KeyOrderStatus, orderID) }

func DedupKey(service, id string) string { return fmt.Sprintf(KeyDedup, service, id) }
