package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dastkar/rugshop/internal/cart"
	"github.com/dastkar/rugshop/internal/catalog"
	"github.com/dastkar/rugshop/internal/config"
	"github.com/dastkar/rugshop/internal/httpx"
	kafkax "github.com/dastkar/rugshop/internal/kafka"
	"github.com/dastkar/rugshop/internal/notify"
	"github.com/dastkar/rugshop/internal/orders"
	"github.com/dastkar/rugshop/internal/postgres"
	"github.com/dastkar/rugshop/internal/redisx"
	"github.com/dastkar/rugshop/internal/shipping"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	createdProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	createdProd.Start(ctx)
	deliveredProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderDelivered, 1024)
	deliveredProd.Start(ctx)

	// Repos & services
	catalogRepo := &catalog.Repo{DB: db}
	cartRepo := &cart.Repo{DB: db}
	shippingRepo := &shipping.Repo{DB: db}
	ordersRepo := &orders.Repo{DB: db}

	catalogSvc := catalog.NewService(catalogRepo)
	cartSvc := cart.NewService(cartRepo, catalogRepo)
	shippingSvc := shipping.NewService(shippingRepo)
	feeResolver := &shipping.Resolver{Store: shippingRepo}
	notifier := &notify.KafkaNotifier{
		Created:   createdProd,
		Delivered: deliveredProd,
		Service:   cfg.ServiceName,
	}
	ordersSvc := orders.NewService(ordersRepo, catalogRepo, feeResolver, notifier,
		cfg.Currency, cfg.DefaultCountry)

	// HTTP
	admin := &httpx.AdminAuth{Token: cfg.AdminToken, TokenTTL: cfg.AdminTokenTTL, Redis: rdb}
	router := httpx.NewRouter()

	(&httpx.CatalogHandler{Svc: catalogSvc}).Register(router, admin)
	(&httpx.CartHandler{Svc: cartSvc}).Register(router)
	(&httpx.ShippingHandler{Svc: shippingSvc}).Register(router, admin)
	(&httpx.OrdersHandler{Svc: ordersSvc, Redis: rdb}).Register(router, admin)
	router.Post("/api/admin/logout", admin.Logout)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	// close inboxes -> flush & close writers
	createdProd.Close()
	deliveredProd.Close()
	cancel() // stop producer loops
	createdProd.WaitClosed()
	deliveredProd.WaitClosed()
}
