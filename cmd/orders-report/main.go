package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/Apurer/sundus-book-orders/internal/app/api"
	"github.com/Apurer/sundus-book-orders/internal/app/report"
	ordersfile "github.com/Apurer/sundus-book-orders/internal/domains/orders/adapters/file"
	ordersgorm "github.com/Apurer/sundus-book-orders/internal/domains/orders/adapters/persistence/gormdb"
	"github.com/Apurer/sundus-book-orders/internal/domains/orders/domain"
	"github.com/Apurer/sundus-book-orders/internal/domains/orders/ports"
	"github.com/Apurer/sundus-book-orders/internal/platform/database"
	platformobservability "github.com/Apurer/sundus-book-orders/internal/platform/observability"
)

func main() {
	if err := api.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var (
		status  = flag.String("status", "", "only print orders with this status")
		payment = flag.String("payment", "", "only print orders paid this way (COD or ONLINE)")
		file    = flag.String("file", cfg.OrdersFile, "JSON order file, used when no database is configured")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := platformobservability.NewLogger(os.Stderr, platformobservability.ParseLevel(os.Getenv("LOG_LEVEL")))
	var repo ports.Repository = ordersfile.NewRepository(afero.NewOsFs(), *file)
	db, cleanup := database.ConnectOptional(ctx, logger, cfg.DatabaseDriver, cfg.DatabaseDSN)
	defer cleanup()
	if db != nil {
		repo = ordersgorm.NewRepository(db)
	}

	summary, err := report.Print(ctx, os.Stdout, repo, report.Filter{
		Status:  domain.Status(*status),
		Payment: domain.Payment(*payment),
	})
	if err != nil {
		log.Fatalf("failed to print orders: %v", err)
	}
	logger.Info("report complete", slog.Int("orders", summary.Count), slog.Float64("revenue", summary.Revenue))
}
