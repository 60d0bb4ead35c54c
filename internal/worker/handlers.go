// Package worker turns order and payment events into side effects.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/Skotchmaster/orders/internal/mailer"
	"github.com/Skotchmaster/orders/internal/models"
	"github.com/Skotchmaster/orders/internal/notify"
	"github.com/Skotchmaster/orders/internal/service"
)

const EventPaymentSucceeded = "payment_succeeded"

type OrderGetter interface {
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
}

type OrderPayer interface {
	MarkPaid(ctx context.Context, id uint) error
}

type PaymentEvent struct {
	Type    string `json:"type"`
	OrderID uint   `json:"order_id"`
}

func ConfirmationSubject(o *models.Order) string {
	return fmt.Sprintf("Order nr. %d", o.ID)
}

func ConfirmationBody(o *models.Order) string {
	return fmt.Sprintf("Dear %s,\n\nYou have successfully placed an order.\nYour order ID is %d.", o.FirstName, o.ID)
}

// OrderCreatedHandler mails the customer a confirmation for every order_created event.
type OrderCreatedHandler struct {
	Orders OrderGetter
	Sender mailer.Sender
	Log    *slog.Logger
}

func (h *OrderCreatedHandler) Handle(ctx context.Context, m kafka.Message) error {
	var evt notify.OrderCreatedEvent
	if err := json.Unmarshal(m.Value, &evt); err != nil {
		h.Log.Warn("order_event_invalid", "offset", m.Offset, "error", err)
		return nil
	}
	if evt.Type != notify.EventOrderCreated || evt.OrderID == 0 {
		h.Log.Debug("order_event_skipped", "type", evt.Type, "order_id", evt.OrderID)
		return nil
	}

	order, err := h.Orders.GetOrder(ctx, evt.OrderID)
	if errors.Is(err, service.ErrNotFound) {
		h.Log.Warn("order_event_unknown_order", "order_id", evt.OrderID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load order %d: %w", evt.OrderID, err)
	}

	if err := h.Sender.SendEmail(ctx, order.Email, ConfirmationSubject(order), ConfirmationBody(order)); err != nil {
		return fmt.Errorf("send confirmation for order %d: %w", order.ID, err)
	}

	h.Log.Info("order_confirmation_sent", "order_id", order.ID)
	return nil
}

// PaymentHandler marks orders paid on payment_succeeded. Other event types are ignored.
type PaymentHandler struct {
	Orders OrderPayer
	Log    *slog.Logger
}

func (h *PaymentHandler) Handle(ctx context.Context, m kafka.Message) error {
	var evt PaymentEvent
	if err := json.Unmarshal(m.Value, &evt); err != nil {
		h.Log.Warn("payment_event_invalid", "offset", m.Offset, "error", err)
		return nil
	}
	if evt.Type != EventPaymentSucceeded {
		h.Log.Debug("payment_event_skipped", "type", evt.Type, "order_id", evt.OrderID)
		return nil
	}

	err := h.Orders.MarkPaid(ctx, evt.OrderID)
	if errors.Is(err, service.ErrNotFound) {
		h.Log.Warn("payment_event_unknown_order", "order_id", evt.OrderID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("mark order %d paid: %w", evt.OrderID, err)
	}

	h.Log.Info("order_paid", "order_id", evt.OrderID)
	return nil
}
