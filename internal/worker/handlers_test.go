package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/orders/internal/models"
	"github.com/Skotchmaster/orders/internal/service"
)

type sentMail struct {
	to, subject, body string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (s *fakeSender) SendEmail(_ context.Context, to, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to, subject, body})
	return nil
}

type fakeOrders struct {
	orders map[uint]*models.Order
	paid   []uint
}

func (f *fakeOrders) GetOrder(_ context.Context, id uint) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) MarkPaid(_ context.Context, id uint) error {
	if _, ok := f.orders[id]; !ok {
		return service.ErrNotFound
	}
	f.paid = append(f.paid, id)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func msg(v string) kafka.Message {
	return kafka.Message{Value: []byte(v)}
}

func TestOrderCreatedHandler_SendsConfirmation(t *testing.T) {
	orders := &fakeOrders{orders: map[uint]*models.Order{7: {ID: 7, FirstName: "Ada", Email: "ada@example.com"}}}
	sender := &fakeSender{}
	h := &OrderCreatedHandler{Orders: orders, Sender: sender, Log: quietLogger()}

	require.NoError(t, h.Handle(context.Background(), msg(`{"type":"order_created","order_id":7}`)))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, sentMail{
		to:      "ada@example.com",
		subject: "Order nr. 7",
		body:    "Dear Ada,\n\nYou have successfully placed an order.\nYour order ID is 7.",
	}, sender.sent[0])
}

func TestOrderCreatedHandler_SkipsUnknownAndInvalid(t *testing.T) {
	sender := &fakeSender{}
	h := &OrderCreatedHandler{Orders: &fakeOrders{orders: map[uint]*models.Order{}}, Sender: sender, Log: quietLogger()}

	assert.NoError(t, h.Handle(context.Background(), msg(`{"type":"order_created","order_id":99}`)))
	assert.NoError(t, h.Handle(context.Background(), msg(`not json`)))
	assert.NoError(t, h.Handle(context.Background(), msg(`{"type":"other","order_id":1}`)))
	assert.Empty(t, sender.sent)
}

func TestOrderCreatedHandler_SendFailure(t *testing.T) {
	orders := &fakeOrders{orders: map[uint]*models.Order{7: {ID: 7, Email: "ada@example.com"}}}
	h := &OrderCreatedHandler{Orders: orders, Sender: &fakeSender{err: errors.New("smtp down")}, Log: quietLogger()}

	err := h.Handle(context.Background(), msg(`{"type":"order_created","order_id":7}`))
	assert.ErrorContains(t, err, "smtp down")
}

func TestPaymentHandler(t *testing.T) {
	orders := &fakeOrders{orders: map[uint]*models.Order{3: {ID: 3}}}
	h := &PaymentHandler{Orders: orders, Log: quietLogger()}

	require.NoError(t, h.Handle(context.Background(), msg(`{"type":"payment_failed","order_id":3}`)))
	assert.Empty(t, orders.paid)

	require.NoError(t, h.Handle(context.Background(), msg(`{"type":"payment_succeeded","order_id":3}`)))
	assert.Equal(t, []uint{3}, orders.paid)

	require.NoError(t, h.Handle(context.Background(), msg(`{"type":"payment_succeeded","order_id":404}`)))
	assert.Equal(t, []uint{3}, orders.paid)
}
