package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/dastkar/rugshop/internal/config"
	kafkax "github.com/dastkar/rugshop/internal/kafka"
	"github.com/dastkar/rugshop/internal/notify"
	"github.com/dastkar/rugshop/internal/orders"
	"github.com/dastkar/rugshop/internal/redisx"
)

// The mailer is a standalone worker: it consumes order events and sends the
// confirmation and delivery emails. It shares nothing with the API process
// but the broker and Redis.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	handler := &notify.EmailHandler{
		Mailer: &notify.SMTPMailer{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.EmailFrom,
		},
		Redis:     rdb,
		StoreName: cfg.StoreName,
		Service:   "rugshop-mailer",
	}

	created := kafkax.NewConsumer(cfg.KafkaBrokers, "rugshop-mailer", orders.TopicOrderCreated, 4)
	delivered := kafkax.NewConsumer(cfg.KafkaBrokers, "rugshop-mailer", orders.TopicOrderDelivered, 4)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return created.Start(ctx, handler.HandleOrderCreated) })
	g.Go(func() error { return delivered.Start(ctx, handler.HandleOrderDelivered) })

	log.Printf("mailer consuming from %v", cfg.KafkaBrokers)
	if err := g.Wait(); err != nil {
		log.Fatalf("mailer: %v", err)
	}
	log.Println("mailer stopped")
}
