package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/orders/internal/logging"
	"github.com/Skotchmaster/orders/internal/service"
	"github.com/Skotchmaster/orders/internal/transport"
	"github.com/Skotchmaster/orders/internal/util"
)

type AdminHTTP struct {
	Svc *service.OrderService
}

func parseID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func wantsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

func (h *AdminHTTP) OrderDetail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.order_detail")

	id, ok := parseID(c)
	if !ok {
		l.Warn("order_detail_error", "status", 404, "reason", "bad id", "id", c.Param("id"))
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	order, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("order_detail_error", "status", 404, "reason", "not found", "order_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		l.Error("order_detail_error", "status", 500, "reason", "internal error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if wantsJSON(c) {
		return c.JSON(http.StatusOK, transport.NewOrderResponse(order))
	}
	return c.Render(http.StatusOK, "admin_order_detail", order)
}

func (h *AdminHTTP) OrderPDF(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.order_pdf")

	id, ok := parseID(c)
	if !ok {
		l.Warn("order_pdf_error", "status", 404, "reason", "bad id", "id", c.Param("id"))
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	order, pdf, err := h.Svc.Invoice(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("order_pdf_error", "status", 404, "reason", "not found", "order_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		l.Error("order_pdf_error", "status", 500, "reason", "render failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=order_%d.pdf", order.ID))
	l.Info("order_pdf_success", "order_id", order.ID, "bytes", pdf.Len())
	return c.Stream(http.StatusOK, "application/pdf", pdf)
}

func (h *AdminHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_orders")

	page := util.ParsePage(c.QueryParam("page"), c.QueryParam("size"))

	total, orders, err := h.Svc.ListOrders(ctx, page.Offset(), page.Size)
	if err != nil {
		l.Error("list_orders_error", "status", 500, "reason", "internal error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	page.Total = total

	items := make([]transport.OrderSummaryResponse, 0, len(orders))
	for i := range orders {
		items = append(items, transport.NewOrderSummaryResponse(&orders[i]))
	}

	resp := transport.OrderListResponse{
		Items: items,
		Page:  page.Number,
		Size:  page.Size,
		Pages: page.Pages(),
		Total: total,
	}
	if page.HasPrev() {
		prev := page.Prev()
		resp.PrevPage = &prev
	}
	if page.HasNext() {
		next := page.Next()
		resp.NextPage = &next
	}
	return c.JSON(http.StatusOK, resp)
}
