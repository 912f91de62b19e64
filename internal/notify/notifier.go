// Package notify decides when a product is low on stock and dispatches a
// restock alert to the configured recipient.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ariefcatur/ricemart-orders/internal/metrics"
	"github.com/rs/zerolog"
)

const DefaultThreshold = 50

// Message is one outbound notification.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

// Sink delivers a Message. It may fail; callers treat delivery as best effort.
type Sink interface {
	Send(ctx context.Context, m Message) error
}

// Notifier dispatches low-stock alerts. Alerts are not deduplicated: every
// call at or below the threshold produces a new attempt.
type Notifier struct {
	Threshold int
	Recipient string
	Sink      Sink
	Timeout   time.Duration
	Log       zerolog.Logger

	wg sync.WaitGroup
}

func New(threshold int, recipient string, sink Sink, log zerolog.Logger) *Notifier {
	return &Notifier{
		Threshold: threshold,
		Recipient: recipient,
		Sink:      sink,
		Timeout:   10 * time.Second,
		Log:       log,
	}
}

// MaybeNotify reports whether a dispatch was started. The dispatch runs on
// its own goroutine, detached from ctx cancellation; its outcome only reaches
// logs and metrics.
func (n *Notifier) MaybeNotify(ctx context.Context, productName string, available int) bool {
	if available > n.Threshold {
		return false
	}
	log := n.Log.With().Str("product", productName).Int("available", available).Int("threshold", n.Threshold).Logger()
	if n.Recipient == "" || n.Sink == nil {
		log.Warn().Msg("low stock detected but no alert recipient configured; skipping notification")
		metrics.RecordNotification("skipped")
		return false
	}

	log.Warn().Str("recipient", n.Recipient).Msg("low stock detected; sending notification")
	msg := LowStockMessage(n.Recipient, productName, available)
	dctx := context.WithoutCancel(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("low stock notification panicked")
				metrics.RecordNotification("failed")
			}
		}()
		sctx, cancel := context.WithTimeout(dctx, n.Timeout)
		defer cancel()
		if err := n.Sink.Send(sctx, msg); err != nil {
			log.Error().Err(err).Bool("degraded", true).Msg("low stock notification failed")
			metrics.RecordNotification("failed")
			return
		}
		log.Info().Msg("low stock notification sent")
		metrics.RecordNotification("sent")
	}()
	return true
}

// Wait blocks until in-flight dispatches finish.
func (n *Notifier) Wait() { n.wg.Wait() }

func LowStockMessage(to, productName string, available int) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Low Stock Alert: %s", productName),
		Text: fmt.Sprintf("Dear Admin,\n\nThe stock for %q is running low.\n\n"+
			"Current available quantity: %d kg.\n\nPlease restock soon.\n\nRegards,\nRice Mart System",
			productName, available),
		HTML: fmt.Sprintf("<p>Dear Admin,</p><p>The stock for <strong>%s</strong> is running low.</p>"+
			"<p>Current available quantity: <strong>%d kg</strong>.</p><p>Please restock soon.</p>"+
			"<p>Regards,<br/>Rice Mart System</p>", htmlEscape(productName), available),
	}
}
