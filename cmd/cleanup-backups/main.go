// Command cleanup-backups removes stored backups that are past their
// retention expiry, deleting both the archived object and its metadata
// row. It is intended to be invoked by an external cron job, not as an
// in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/quotehub/quotehub-backend/internal/adapter/postgres"
	"github.com/quotehub/quotehub-backend/internal/adapter/postgres/backupfile"
	"github.com/quotehub/quotehub-backend/internal/app"
	"github.com/quotehub/quotehub-backend/internal/config"
	"github.com/quotehub/quotehub-backend/internal/objectstore"
	"github.com/quotehub/quotehub-backend/internal/service/backup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	store, err := objectstore.NewFSStore(cfg.Backup.Dir)
	if err != nil {
		logger.Error("init backup store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	svc := backup.NewService(logger, backupfile.New(pool), store, cfg.Backup)

	result, err := svc.CleanupExpired(ctx)
	if err != nil {
		logger.Error("cleanup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("cleanup completed",
		slog.Int("deleted", result.Deleted),
		slog.Int("failed", result.Failed),
	)
}
