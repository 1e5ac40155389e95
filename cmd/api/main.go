package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Apurer/sundus-book-orders/internal/app/api"
)

func main() {
	if err := api.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := api.Run(ctx, cfg); err != nil {
		log.Fatalf("order API failed: %v", err)
	}
}
