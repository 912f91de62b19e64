package notify

import (
	"context"
	"fmt"

	kafkax "github.com/ariefcatur/ricemart-orders/internal/kafka"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
)

// Deduper remembers delivered event ids across redeliveries.
type Deduper interface {
	First(ctx context.Context, id string) (bool, error)
	Forget(ctx context.Context, id string) error
}

// RelayHandler delivers EmailRequested events through sink. Malformed
// messages are dropped so they do not block the partition. When seen is
// set, an event already delivered is skipped; a dedup store outage falls
// back to delivering.
func RelayHandler(sink Sink, seen Deduper, log zerolog.Logger) kafkax.Handler {
	return func(ctx context.Context, m kafkago.Message) error {
		env, err := kafkax.UnmarshalEnvelope(m.Value)
		if err != nil {
			log.Error().Err(err).Int64("offset", m.Offset).Msg("dropping malformed envelope")
			return nil
		}
		if env.EventType != EventEmailSend {
			return nil
		}
		msg, err := kafkax.UnwrapPayload[Message](env.Payload)
		if err != nil || msg.To == "" {
			log.Error().Err(err).Str("event_id", env.EventID).Msg("dropping malformed email request")
			return nil
		}
		if seen != nil {
			first, err := seen.First(ctx, env.EventID)
			if err != nil {
				log.Warn().Err(err).Str("event_id", env.EventID).Msg("dedup check failed; delivering anyway")
			} else if !first {
				log.Info().Str("event_id", env.EventID).Msg("skipping redelivered email request")
				return nil
			}
		}
		if err := sink.Send(ctx, msg); err != nil {
			if seen != nil {
				_ = seen.Forget(ctx, env.EventID)
			}
			return fmt.Errorf("deliver %s: %w", env.EventID, err)
		}
		log.Info().Str("event_id", env.EventID).Str("to", msg.To).Str("subject", msg.Subject).Msg("email delivered")
		return nil
	}
}
