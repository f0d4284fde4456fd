package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/heartmarshall/tofix-backend/internal/adapter/postgres"
	eventrepo "github.com/heartmarshall/tofix-backend/internal/adapter/postgres/event"
	ingestrepo "github.com/heartmarshall/tofix-backend/internal/adapter/postgres/ingest"
	itemrepo "github.com/heartmarshall/tofix-backend/internal/adapter/postgres/item"
	taskrepo "github.com/heartmarshall/tofix-backend/internal/adapter/postgres/task"
	"github.com/heartmarshall/tofix-backend/internal/adapter/uploads"
	"github.com/heartmarshall/tofix-backend/internal/config"
	"github.com/heartmarshall/tofix-backend/internal/service/ingest"
	"github.com/heartmarshall/tofix-backend/internal/service/lease"
	"github.com/heartmarshall/tofix-backend/internal/service/registry"
	"github.com/heartmarshall/tofix-backend/internal/service/tracking"
	"github.com/heartmarshall/tofix-backend/internal/transport/middleware"
	"github.com/heartmarshall/tofix-backend/internal/transport/rest"
)

// Handler is the fully wired HTTP handler. Close releases background
// resources owned by the middleware.
type Handler struct {
	http.Handler
	limiter *middleware.RateLimiter
}

// Close stops the upload rate limiter's cleanup loop.
func (h *Handler) Close() { h.limiter.Stop() }

// NewHandler builds repositories, services, handlers and the middleware
// chain on top of pool and files.
func NewHandler(cfg *config.Config, pool *pgxpool.Pool, files *uploads.Store, logger *slog.Logger) *Handler {
	// Infrastructure.
	txm := postgres.NewTxManager(pool)

	// Repositories.
	items := itemrepo.New(pool)
	events := eventrepo.New(pool)
	tasks := taskrepo.New(pool)
	ingestRepo := ingestrepo.New(pool)

	// Services.
	leaseService := lease.NewService(logger, items, cfg.Lease.Period)
	trackingService := tracking.NewService(logger, events, items)
	registryService := registry.NewService(logger, tasks, items, events)
	ingestService := ingest.NewService(logger, txm, ingestRepo, tasks, files, cfg.Upload.Password)

	// Handlers.
	healthHandler := rest.NewHealthHandler(pool, files.Dir(), BuildVersion())
	taskHandler := rest.NewTaskHandler(leaseService, trackingService, logger)
	registryHandler := rest.NewRegistryHandler(registryService, logger)
	uploadHandler := rest.NewUploadHandler(ingestService, cfg.Upload.MaxBytes, logger)

	limiter := middleware.NewRateLimiter(time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", healthHandler.Status)
	mux.HandleFunc("GET /live", healthHandler.Live)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /health", healthHandler.Health)

	mux.HandleFunc("POST /task/{task}", taskHandler.Assign)
	mux.HandleFunc("POST /track/{task}", taskHandler.Track)
	mux.HandleFunc("POST /fixed/{task}", taskHandler.Fixed)
	mux.HandleFunc("POST /noterror/{task}", taskHandler.NotError)

	mux.HandleFunc("GET /tasks", registryHandler.List)
	mux.HandleFunc("GET /detail/{task}", registryHandler.Detail)
	mux.HandleFunc("GET /count/{task}", registryHandler.Count)
	mux.HandleFunc("GET /track_stats/{task}/{from}/{to}", registryHandler.TrackStats)
	mux.HandleFunc("GET /count_history/{task}/{grouping}", registryHandler.CountHistory)
	mux.HandleFunc("GET /track/{task}/{match}", registryHandler.FindEvents)
	mux.HandleFunc("GET /track/{task}/{match}/{to}", registryHandler.FindEvents)

	mux.Handle("POST /csv", limiter.Limit(cfg.Upload.RatePerMinute)(http.HandlerFunc(uploadHandler.Upload)))

	if cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, promhttp.Handler())
	}

	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	)

	return &Handler{
		Handler: otelhttp.NewHandler(chain(mux), "http.server",
			otelhttp.WithFilter(traced(cfg.Metrics.Path)),
		),
		limiter: limiter,
	}
}

// traced skips probes and metric scrapes so they do not flood the exporter.
func traced(metricsPath string) otelhttp.Filter {
	return func(r *http.Request) bool {
		switch r.URL.Path {
		case "/live", "/ready", "/health", "/status", metricsPath:
			return false
		}
		return true
	}
}
