package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

var (
	ErrProducerClosed = errors.New("kafka producer closed")
	ErrInboxFull      = errors.New("kafka producer inbox full")
)

// Producer is a fire-and-forget publisher. Publish never blocks the caller;
// write failures are only logged.
type Producer struct {
	w         *kafka.Writer
	inbox     chan kafka.Message
	closing   chan struct{}
	closeOnce sync.Once
	doneCh    chan struct{}
	log       zerolog.Logger
}

// NewProducer writes to the topic set on each message.
func NewProducer(brokers []string, buf int, log zerolog.Logger) *Producer {
	p := &Producer{
		inbox:   make(chan kafka.Message, buf),
		closing: make(chan struct{}),
		doneCh:  make(chan struct{}),
		log:     log,
	}
	p.w = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				p.log.Error().Err(err).Int("messages", len(msgs)).Msg("kafka write failed")
			}
		},
	}
	return p
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.doneCh)
		for {
			select {
			case m := <-p.inbox:
				_ = p.w.WriteMessages(context.Background(), m)
			case <-ctx.Done():
				p.flush()
				return
			case <-p.closing:
				p.flush()
				return
			}
		}
	}()
}

func (p *Producer) flush() {
	for {
		select {
		case m := <-p.inbox:
			_ = p.w.WriteMessages(context.Background(), m)
		default:
			if err := p.w.Close(); err != nil {
				p.log.Warn().Err(err).Msg("kafka writer close")
			}
			return
		}
	}
}

func (p *Producer) Publish(topic string, key, value []byte, headers ...kafka.Header) error {
	select {
	case <-p.closing:
		return ErrProducerClosed
	default:
	}
	m := kafka.Message{Topic: topic, Key: key, Value: value, Time: time.Now(), Headers: headers}
	select {
	case p.inbox <- m:
		return nil
	default:
		return ErrInboxFull
	}
}

// PublishEnvelope encodes env and publishes it keyed by key.
func (p *Producer) PublishEnvelope(topic, key string, env Envelope) error {
	return p.Publish(topic, []byte(key), MustMarshal(env),
		kafka.Header{Key: "x-event-type", Value: []byte(env.EventType)},
		kafka.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// Close stops accepting messages; the loop flushes what is queued.
func (p *Producer) Close() { p.closeOnce.Do(func() { close(p.closing) }) }

// WaitClosed blocks until the loop has flushed and closed the writer.
func (p *Producer) WaitClosed() { <-p.doneCh }
