package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Handler returns nil only when the message is processed and its offset may be committed.
type Handler func(ctx context.Context, m kafka.Message) error

type Consumer struct {
	r       *kafka.Reader
	workers int
	log     zerolog.Logger

	fetch  func(context.Context) (kafka.Message, error)
	commit func(context.Context, ...kafka.Message) error
}

func NewConsumer(brokers []string, group, topic string, workers int, log zerolog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{r: r, workers: workers, log: log, fetch: r.FetchMessage, commit: r.CommitMessages}
}

// Start dispatches fetched messages to the worker pool until ctx is done.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()
	return c.run(ctx, h)
}

// run gives every partition a single worker, so offsets of one partition are
// handled and committed strictly in order.
func (c *Consumer) run(ctx context.Context, h Handler) error {
	lanes := make([]chan kafka.Message, c.workers)
	var wg sync.WaitGroup
	for i := range lanes {
		lanes[i] = make(chan kafka.Message, 256)
		wg.Add(1)
		go func(id int, jobs <-chan kafka.Message) {
			defer wg.Done()
			for m := range jobs {
				if !c.handle(ctx, id, h, m) {
					// ctx ended; leave the rest uncommitted
					continue
				}
				if err := c.commit(ctx, m); err != nil {
					c.log.Error().Err(err).Int("worker", id).Int("partition", m.Partition).Msg("commit failed")
				}
			}
		}(i, lanes[i])
	}
	defer wg.Wait()
	defer func() {
		for _, l := range lanes {
			close(l)
		}
	}()

	for {
		m, err := c.fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case lanes[lane(m.Partition, c.workers)] <- m:
		case <-ctx.Done():
			return nil
		}
	}
}

func lane(partition, workers int) int {
	if partition < 0 {
		partition = -partition
	}
	return partition % workers
}

// handle retries h with backoff until it succeeds. The next offset of the
// partition waits behind it, so a failure is never passed over. Returns
// false when ctx ends first.
func (c *Consumer) handle(ctx context.Context, worker int, h Handler, m kafka.Message) bool {
	backoff := 200 * time.Millisecond
	for {
		err := h(ctx, m)
		if err == nil {
			return true
		}
		c.log.Error().Err(err).Int("worker", worker).Int("partition", m.Partition).Int64("offset", m.Offset).
			Dur("retry_in", backoff).Msg("handler failed")
		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}
		if backoff < 5*time.Second {
			backoff *= 2
		}
	}
}
