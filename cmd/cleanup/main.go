// Command cleanup removes uploaded datasets that never made it into the task
// registry, such as raw files left behind when the process died mid-ingest.
// It is intended to be invoked by an external cron job, not as an in-process
// goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/tofix-backend/internal/adapter/postgres"
	"github.com/heartmarshall/tofix-backend/internal/adapter/postgres/task"
	"github.com/heartmarshall/tofix-backend/internal/adapter/uploads"
	"github.com/heartmarshall/tofix-backend/internal/app"
	"github.com/heartmarshall/tofix-backend/internal/config"
	"github.com/heartmarshall/tofix-backend/internal/service/ingest"
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

	files, err := uploads.New(cfg.Upload.Path)
	if err != nil {
		logger.Error("open upload dir", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cutoff := time.Now().Add(-cfg.Upload.OrphanAge)

	res, err := ingest.SweepOrphans(ctx, logger, files, task.New(pool), cutoff)
	if err != nil {
		logger.Error("orphan sweep failed",
			slog.String("error", err.Error()),
			slog.Time("cutoff", cutoff),
			slog.Int("removed", res.Removed),
		)
		os.Exit(1)
	}

	logger.Info("orphan sweep completed",
		slog.Int("removed", res.Removed),
		slog.Int64("bytes", res.Bytes),
		slog.Int("kept", res.Kept),
		slog.Time("cutoff", cutoff),
	)
}
