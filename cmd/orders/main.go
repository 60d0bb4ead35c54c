package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/orders/internal/authclient"
	"github.com/Skotchmaster/orders/internal/cart"
	"github.com/Skotchmaster/orders/internal/config"
	"github.com/Skotchmaster/orders/internal/db"
	"github.com/Skotchmaster/orders/internal/httpserver"
	"github.com/Skotchmaster/orders/internal/logging"
	"github.com/Skotchmaster/orders/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/orders/internal/middleware/logging"
	"github.com/Skotchmaster/orders/internal/mykafka"
	"github.com/Skotchmaster/orders/internal/notify"
	"github.com/Skotchmaster/orders/internal/repo"
	"github.com/Skotchmaster/orders/internal/service"
	"github.com/Skotchmaster/orders/internal/session"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.AuthHTTPURL, "AUTH_URL")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(loggingmw.RequestLogger(logger))

	tpl, err := httpserver.NewTemplates()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}
	e.Renderer = tpl

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis url: %v", err)
	}
	rdb := redis.NewClient(redisOpts)

	var publisher notify.Publisher = notify.LogPublisher{Log: logger}
	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		publisher = producer
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty, events are only logged")
	}
	dispatcher := notify.NewAsyncDispatcher(publisher, cfg.OrderEventsTopic, cfg.NotifyQueueSize, logger)

	orderService := service.NewOrderService(&repo.GormRepo{DB: gdb}, dispatcher)

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.CookieSecure

	httpserver.Register(e, &httpserver.Deps{
		OrderHandler: &httpserver.OrderHTTP{
			Svc:        orderService,
			Carts:      cart.NewRedisStore(rdb),
			Sessions:   session.NewStore(rdb, cfg.SessionTTL),
			PaymentURL: cfg.PaymentProcessURL,
		},
		AdminHandler:  &httpserver.AdminHTTP{Svc: orderService},
		JWTSecret:     cfg.JWTSecret,
		AuthClient:    authclient.NewClient(cfg.AuthHTTPURL),
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: cfg.CookieSecure,
		CSRF:          csrfCfg,
		ReadyChecks: map[string]httpserver.ReadyCheck{
			"db":    func(ctx context.Context) error { return db.Ping(ctx, gdb) },
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	port := strconv.Itoa(cfg.ServerPort)

	go func() {
		logger.Info("server_starting", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("server_stopping")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo_shutdown_error", "error", err)
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Error("dispatcher_drain_error", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}
	if err := rdb.Close(); err != nil {
		logger.Error("redis_close_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}

	logger.Info("server_stopped")
}
