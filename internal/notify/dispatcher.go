// Package notify hands newly created orders to the event bus without blocking checkout.
package notify

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

const (
	EventOrderCreated = "order_created"

	publishTimeout = 5 * time.Second
)

type Dispatcher interface {
	Submit(orderID uint)
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type OrderCreatedEvent struct {
	Type    string `json:"type"`
	OrderID uint   `json:"order_id"`
}

// AsyncDispatcher queues order ids in memory and publishes them from a single goroutine.
// When the queue is full the id is dropped and a warning is logged.
type AsyncDispatcher struct {
	pub   Publisher
	topic string
	log   *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan uint
	done   chan struct{}
}

func NewAsyncDispatcher(pub Publisher, topic string, size int, log *slog.Logger) *AsyncDispatcher {
	if size <= 0 {
		size = 256
	}
	d := &AsyncDispatcher{
		pub:   pub,
		topic: topic,
		log:   log.With("component", "notify.dispatcher", "topic", topic),
		queue: make(chan uint, size),
		done:  make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *AsyncDispatcher) Submit(orderID uint) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("notify_dropped", "order_id", orderID, "reason", "dispatcher closed")
		return
	}

	select {
	case d.queue <- orderID:
	default:
		d.log.Warn("notify_dropped", "order_id", orderID, "reason", "queue full")
	}
}

func (d *AsyncDispatcher) run() {
	defer close(d.done)

	for id := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		event := OrderCreatedEvent{Type: EventOrderCreated, OrderID: id}
		err := d.pub.PublishEvent(ctx, d.topic, strconv.FormatUint(uint64(id), 10), event)
		cancel()

		if err != nil {
			d.log.Error("notify_publish_error", "order_id", id, "error", err)
			continue
		}
		d.log.Debug("notify_published", "order_id", id)
	}
}

// Close stops accepting ids and waits for the queue to drain or ctx to expire.
func (d *AsyncDispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogPublisher writes events to the log instead of a broker. Used when no brokers are configured.
type LogPublisher struct {
	Log *slog.Logger
}

func (p LogPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.Log.Info("event_published", "topic", topic, "key", key, "event", event)
	return nil
}

// NopDispatcher discards every id.
type NopDispatcher struct{}

func (NopDispatcher) Submit(uint) {}
