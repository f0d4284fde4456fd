package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/heartmarshall/tofix-backend/internal/adapter/postgres"
	"github.com/heartmarshall/tofix-backend/internal/adapter/uploads"
	"github.com/heartmarshall/tofix-backend/internal/config"
	"github.com/heartmarshall/tofix-backend/internal/tracing"
)

// Run is the application entry point. It loads configuration, connects to
// the database, applies migrations, and serves HTTP until ctx is cancelled,
// then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	cl := &closers{log: logger}

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Endpoint:       cfg.Tracing.OTLPEndpoint,
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: Version,
		Insecure:       cfg.Tracing.Insecure,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	cl.add("tracing", shutdownTracing)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return closeWith(ctx, cl, cfg, fmt.Errorf("connect database: %w", err))
	}
	cl.add("database", func(context.Context) error {
		pool.Close()
		return nil
	})

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			return closeWith(ctx, cl, cfg, fmt.Errorf("migrate: %w", err))
		}
	}

	files, err := uploads.New(cfg.Upload.Path)
	if err != nil {
		return closeWith(ctx, cl, cfg, fmt.Errorf("upload dir: %w", err))
	}

	handler := NewHandler(cfg, pool, files, logger)
	cl.add("rate limiter", func(context.Context) error {
		handler.Close()
		return nil
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
	cl.add("http server", srv.Shutdown)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		return closeWith(ctx, cl, cfg, nil)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		} else {
			err = fmt.Errorf("http server: %w", err)
		}
		return closeWith(ctx, cl, cfg, err)
	}
}

// closeWith runs the closers under the configured shutdown timeout and
// returns cause joined with any close errors.
func closeWith(ctx context.Context, cl *closers, cfg *config.Config, cause error) error {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := cl.closeAll(sctx); err != nil {
		return errors.Join(cause, err)
	}
	if cause == nil {
		cl.log.Info("shutdown complete")
	}
	return cause
}
