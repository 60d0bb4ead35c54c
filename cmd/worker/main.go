package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Skotchmaster/orders/internal/config"
	"github.com/Skotchmaster/orders/internal/db"
	"github.com/Skotchmaster/orders/internal/logging"
	"github.com/Skotchmaster/orders/internal/mailer"
	"github.com/Skotchmaster/orders/internal/mykafka"
	"github.com/Skotchmaster/orders/internal/notify"
	"github.com/Skotchmaster/orders/internal/repo"
	"github.com/Skotchmaster/orders/internal/service"
	"github.com/Skotchmaster/orders/internal/worker"
)

const groupID = "orders-worker"

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyList(cfg.KafkaBrokers, "KAFKA_BROKERS")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName+"-worker")

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	sender, err := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	if err != nil {
		log.Fatalf("smtp: %v", err)
	}

	// The worker never creates orders, so no events are dispatched from here.
	orders := service.NewOrderService(&repo.GormRepo{DB: gdb}, notify.NopDispatcher{})

	created := &worker.OrderCreatedHandler{Orders: orders, Sender: sender, Log: logger.With("handler", "order_created")}
	payments := &worker.PaymentHandler{Orders: orders, Log: logger.With("handler", "payment")}

	orderConsumer := mykafka.NewConsumer(cfg.KafkaBrokers, cfg.OrderEventsTopic, groupID, logger)
	paymentConsumer := mykafka.NewConsumer(cfg.KafkaBrokers, cfg.PaymentEventsTopic, groupID, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	run := func(c *mykafka.Consumer, h mykafka.Handler) {
		defer wg.Done()
		if err := c.Run(ctx, h); err != nil {
			logger.Error("consumer_exit", "error", err)
			stop()
		}
	}
	wg.Add(2)
	go run(orderConsumer, created.Handle)
	go run(paymentConsumer, payments.Handle)

	logger.Info("worker_started", "topics", []string{cfg.OrderEventsTopic, cfg.PaymentEventsTopic})
	<-ctx.Done()
	wg.Wait()

	for _, c := range []*mykafka.Consumer{orderConsumer, paymentConsumer} {
		if err := c.Close(); err != nil {
			logger.Error("consumer_close_error", "error", err)
		}
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}
	logger.Info("worker_stopped")
}
