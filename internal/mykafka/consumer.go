package mykafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

type Handler func(ctx context.Context, msg kafka.Message) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	defaultMaxAttempts  = 3
	defaultRetryBackoff = 500 * time.Millisecond
)

type Consumer struct {
	reader messageReader
	topic  string
	log    *slog.Logger

	maxAttempts  int
	retryBackoff time.Duration
}

func NewConsumer(brokers []string, topic, groupID string, log *slog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{
		reader:       r,
		topic:        topic,
		log:          log.With("topic", topic, "group", groupID),
		maxAttempts:  defaultMaxAttempts,
		retryBackoff: defaultRetryBackoff,
	}
}

// Run blocks until ctx is cancelled. A failing handler is retried with linear backoff;
// once the attempts are used up the error is logged and the message is committed anyway.
func (c *Consumer) Run(ctx context.Context, h Handler) error {
	c.log.Info("consumer_started")
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.log.Info("consumer_stopped")
				return nil
			}
			c.log.Error("consumer_fetch_error", "error", err)
			return err
		}

		if err := c.handle(ctx, h, m); err != nil {
			if ctx.Err() != nil {
				c.log.Info("consumer_stopped")
				return nil
			}
			c.log.Error("consumer_handler_error", "offset", m.Offset, "key", string(m.Key), "error", err)
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Error("consumer_commit_error", "offset", m.Offset, "error", err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, h Handler, m kafka.Message) error {
	attempts := c.maxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = h(ctx, m); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		c.log.Warn("consumer_handler_retry", "offset", m.Offset, "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryBackoff * time.Duration(attempt)):
		}
	}
	return err
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
