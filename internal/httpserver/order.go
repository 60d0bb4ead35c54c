package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/orders/internal/cart"
	"github.com/Skotchmaster/orders/internal/logging"
	"github.com/Skotchmaster/orders/internal/middleware/csrf"
	"github.com/Skotchmaster/orders/internal/service"
	"github.com/Skotchmaster/orders/internal/session"
	"github.com/Skotchmaster/orders/internal/transport"
)

type CartProvider interface {
	ForSession(sessionID string) cart.Cart
}

type SessionStore interface {
	SetOrderID(ctx context.Context, sessionID string, orderID uint) error
	OrderID(ctx context.Context, sessionID string) (uint, bool, error)
}

type OrderHTTP struct {
	Svc        *service.OrderService
	Carts      CartProvider
	Sessions   SessionStore
	PaymentURL string
}

type checkoutPage struct {
	Form   transport.CreateOrderForm
	Errors service.FieldErrors
	Cart   service.CartSummary
	CSRF   string
}

func (h *OrderHTTP) CreateForm(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_form")

	summary, err := h.Svc.Summarize(ctx, h.Carts.ForSession(session.ID(c)))
	if err != nil {
		l.Error("create_form_error", "status", 500, "reason", "cart unavailable", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.Render(http.StatusOK, "checkout_form", checkoutPage{
		Cart: summary,
		CSRF: csrf.Token(c),
	})
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	sid := session.ID(c)
	if sid == "" {
		l.Error("create_order_error", "status", 500, "reason", "no session")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var form transport.CreateOrderForm
	if err := c.Bind(&form); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	userCart := h.Carts.ForSession(sid)
	order, err := h.Svc.CreateOrder(ctx, form, userCart)
	if err != nil {
		var fieldErrs service.FieldErrors
		if errors.As(err, &fieldErrs) {
			l.Warn("create_order_error", "status", 422, "reason", "invalid form", "error", err)

			summary, sErr := h.Svc.Summarize(ctx, userCart)
			if sErr != nil {
				l.Warn("create_order_error", "reason", "cart summary unavailable", "error", sErr)
			}
			form.Normalize()
			return c.Render(http.StatusUnprocessableEntity, "checkout_form", checkoutPage{
				Form:   form,
				Errors: fieldErrs,
				Cart:   summary,
				CSRF:   csrf.Token(c),
			})
		}
		l.Error("create_order_error", "status", 500, "reason", "internal error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if err := h.Sessions.SetOrderID(ctx, sid, order.ID); err != nil {
		l.Error("create_order_error", "status", 500, "reason", "session write failed", "order_id", order.ID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("create_order_success", "order_id", order.ID)
	return c.Redirect(http.StatusFound, h.PaymentURL)
}

func (h *OrderHTTP) Created(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.created")

	id, ok, err := h.Sessions.OrderID(ctx, session.ID(c))
	if err != nil {
		l.Error("order_created_error", "status", 500, "reason", "session read failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if !ok {
		l.Warn("order_created_error", "status", 404, "reason", "no order in session")
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	order, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("order_created_error", "status", 404, "reason", "not found", "order_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		l.Error("order_created_error", "status", 500, "reason", "internal error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.Render(http.StatusOK, "order_created", order)
}
