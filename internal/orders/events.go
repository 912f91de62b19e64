package orders

import (
	"context"

	"github.com/ariefcatur/ricemart-orders/internal/inventory"
	kafkax "github.com/ariefcatur/ricemart-orders/internal/kafka"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"

	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status_changed"
)

type OrderCreatedPayload struct {
	OrderID        string             `json:"order_id"`
	PurchaserEmail string             `json:"purchaser_email"`
	Items          []inventory.Item   `json:"items"`
	TotalPrice     string             `json:"total_price"`
	Stock          *inventory.Summary `json:"stock,omitempty"`
}

type OrderStatusChangedPayload struct {
	OrderID       string `json:"order_id"`
	From          Status `json:"from"`
	To            Status `json:"to"`
	StockRefunded bool   `json:"stock_refunded"`
}

// EventPublisher emits lifecycle events. Publishing is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, topic, eventType, orderID string, payload any) error
}

// KafkaPublisher wraps payloads in the shared envelope keyed by order id so
// all events of one order stay ordered on a partition.
type KafkaPublisher struct {
	Producer *kafkax.Producer
	Service  string
}

func (p *KafkaPublisher) Publish(_ context.Context, topic, eventType, orderID string, payload any) error {
	env, err := kafkax.NewEnvelope(eventType, p.Service, orderID, payload)
	if err != nil {
		return err
	}
	return p.Producer.PublishEnvelope(topic, orderID, env)
}
