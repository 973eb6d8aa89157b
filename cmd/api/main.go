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

	"github.com/gpoffer/group-offers/internal/complaints"
	"github.com/gpoffer/group-offers/internal/config"
	"github.com/gpoffer/group-offers/internal/events"
	"github.com/gpoffer/group-offers/internal/httpx"
	kafkax "github.com/gpoffer/group-offers/internal/kafka"
	"github.com/gpoffer/group-offers/internal/offers"
	"github.com/gpoffer/group-offers/internal/orders"
	"github.com/gpoffer/group-offers/internal/postgres"
	"github.com/gpoffer/group-offers/internal/redisx"
	"github.com/gpoffer/group-offers/internal/settings"
	"github.com/gpoffer/group-offers/internal/users"
	"github.com/gpoffer/group-offers/internal/wallet"
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

	if cfg.MigrationsDir != "" {
		if err := postgres.RunMigrations(ctx, db, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	pJoined := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicOfferJoined, 1024)
	pJoined.Start(ctx)
	pOrders := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicOrderCreated, 1024)
	pOrders.Start(ctx)
	pWallet := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicWalletCredited, 1024)
	pWallet.Start(ctx)

	// Repos & handlers
	offerRepo := &offers.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	userRepo := &users.Repo{DB: db}
	walletRepo := &wallet.Repo{DB: db}
	complaintRepo := &complaints.Repo{DB: db}
	settingsRepo := &settings.Repo{DB: db}

	router := httpx.NewRouter()
	(&httpx.OffersHandler{Store: offerRepo, Redis: rdb, Producer: pJoined, Service: cfg.ServiceName}).Register(router)
	(&httpx.OrdersHandler{Store: orderRepo, Producer: pOrders, Service: cfg.ServiceName}).Register(router)
	(&httpx.WalletHandler{Store: walletRepo, Redis: rdb, Producer: pWallet, Service: cfg.ServiceName}).Register(router)
	(&httpx.UsersHandler{Store: userRepo}).Register(router)
	(&httpx.AdminHandler{Users: userRepo, Settings: settingsRepo}).Register(router)
	(&httpx.ComplaintsHandler{Store: complaintRepo}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

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

	for _, p := range []*kafkax.Producer{pJoined, pOrders, pWallet} {
		p.Close()
	}
	cancel()
	for _, p := range []*kafkax.Producer{pJoined, pOrders, pWallet} {
		p.WaitClosed()
	}
}
