package mykafka

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	msgs      []kafka.Message
	committed []int64
	cancel    context.CancelFunc
	fetchErr  error
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if r.fetchErr != nil {
		return kafka.Message{}, r.fetchErr
	}
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
}

func TestConsumer_RunCommitsEveryMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &fakeReader{
		msgs:   []kafka.Message{{Offset: 1, Value: []byte("a")}, {Offset: 2, Value: []byte("b")}},
		cancel: cancel,
	}
	c := &Consumer{reader: r, topic: "t", log: testLogger()}

	var seen []string
	err := c.Run(ctx, func(_ context.Context, m kafka.Message) error {
		seen = append(seen, string(m.Value))
		if m.Offset == 1 {
			return errors.New("boom")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, []int64{1, 2}, r.committed)
}

func TestConsumer_RetriesHandlerBeforeCommit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &fakeReader{msgs: []kafka.Message{{Offset: 5, Value: []byte("a")}}, cancel: cancel}
	c := &Consumer{reader: r, topic: "t", log: testLogger(), maxAttempts: 3, retryBackoff: time.Millisecond}

	calls := 0
	err := c.Run(ctx, func(context.Context, kafka.Message) error {
		calls++
		if calls < 3 {
			return errors.New("smtp busy")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int64{5}, r.committed)
}

func TestConsumer_GivesUpAfterMaxAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &fakeReader{msgs: []kafka.Message{{Offset: 1}, {Offset: 2}}, cancel: cancel}
	c := &Consumer{reader: r, topic: "t", log: testLogger(), maxAttempts: 2, retryBackoff: time.Millisecond}

	calls := map[int64]int{}
	err := c.Run(ctx, func(_ context.Context, m kafka.Message) error {
		calls[m.Offset]++
		if m.Offset == 1 {
			return errors.New("db down")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 2, 2: 1}, calls)
	assert.Equal(t, []int64{1, 2}, r.committed)
}

func TestConsumer_RetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	r := &fakeReader{msgs: []kafka.Message{{Offset: 1}}, cancel: cancel}
	c := &Consumer{reader: r, topic: "t", log: testLogger(), maxAttempts: 5, retryBackoff: time.Hour}

	calls := 0
	err := c.Run(ctx, func(context.Context, kafka.Message) error {
		calls++
		cancel()
		return errors.New("boom")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, r.committed)
}

func TestConsumer_RunReturnsFetchError(t *testing.T) {
	r := &fakeReader{fetchErr: errors.New("broker gone")}
	c := &Consumer{reader: r, topic: "t", log: testLogger()}

	err := c.Run(context.Background(), func(context.Context, kafka.Message) error { return nil })
	require.Error(t, err)
}

func TestNewProducer_NoBrokers(t *testing.T) {
	_, err := NewProducer(nil)
	require.Error(t, err)
}
