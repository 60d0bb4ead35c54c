package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/orders/internal/middleware/auth"
	"github.com/Skotchmaster/orders/internal/middleware/csrf"
	"github.com/Skotchmaster/orders/internal/session"
)

type ReadyCheck func(ctx context.Context) error

type Deps struct {
	OrderHandler *OrderHTTP
	AdminHandler *AdminHTTP

	JWTSecret  []byte
	AuthClient auth.Refresher

	SessionTTL    time.Duration
	SecureCookies bool
	CSRF          csrf.Config

	ReadyChecks map[string]ReadyCheck
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", ready(d.ReadyChecks))

	authMW := auth.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)

	orders := e.Group("/orders", session.Middleware(d.SessionTTL, d.SecureCookies), csrf.Middleware(d.CSRF))
	orders.GET("/create", d.OrderHandler.CreateForm)
	orders.POST("/create", d.OrderHandler.CreateOrder)
	orders.GET("/created", d.OrderHandler.Created)

	admin := e.Group("/admin/orders", authMW.RequireStaff)
	admin.GET("", d.AdminHandler.ListOrders)
	admin.GET("/:id", d.AdminHandler.OrderDetail)
	admin.GET("/:id/pdf", d.AdminHandler.OrderPDF)
}

func ready(checks map[string]ReadyCheck) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		for name, check := range checks {
			if err := check(ctx); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "failed": name})
			}
		}
		return c.NoContent(http.StatusOK)
	}
}
