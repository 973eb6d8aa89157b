package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gpoffer/group-offers/internal/config"
	"github.com/gpoffer/group-offers/internal/events"
	kafkax "github.com/gpoffer/group-offers/internal/kafka"
	"github.com/gpoffer/group-offers/internal/postgres"
	"github.com/gpoffer/group-offers/internal/redisx"
	"github.com/gpoffer/group-offers/internal/rewards"
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
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Producer for the credited fact
	prod := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicWalletCredited, 1024)
	prod.Start(ctx)

	svc := &rewards.Service{
		Wallet:      &wallet.Repo{DB: db},
		Redis:       rdb,
		Producer:    prod,
		ServiceName: cfg.ServiceName + "-rewards",
		Rate:        cfg.RewardRate,
	}

	group := getenv("REWARDS_GROUP", "rewards-svc")
	workers := mustAtoi(os.Getenv("REWARDS_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, events.TopicOrderCreated, workers)

	go func() {
		log.Printf("rewards consumer started: group=%s topic=%s workers=%d rate=%g",
			group, events.TopicOrderCreated, workers, cfg.RewardRate)
		if err := cons.Start(ctx, svc.HandleOrderCreated); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
	prod.Close()
	prod.WaitClosed()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
