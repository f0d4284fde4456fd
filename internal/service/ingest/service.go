// Package ingest turns an uploaded CSV dataset into a live task type: its
// item table, its empty event log and its registry entry.
package ingest

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/tofix-backend/internal/domain"
)

type ingestRepo interface {
	LockTaskName(ctx context.Context, task string) error
	TablesExist(ctx context.Context, task string) (bool, error)
	CreateStaging(ctx context.Context, task string) error
	CopyStaging(ctx context.Context, task string, src pgx.CopyFromSource) (int64, error)
	Materialize(ctx context.Context, task string, preserveOrder bool) (int64, error)
	CreateIndexes(ctx context.Context, task string) error
	CreateEventLog(ctx context.Context, task string) error
	DropStaging(ctx context.Context, task string) error
}

type registryRepo interface {
	Exists(ctx context.Context, id string) (bool, error)
	Register(ctx context.Context, e domain.TaskEntry) error
}

type fileStore interface {
	SaveRaw(task string, r io.Reader) (string, int64, error)
	Publish(pendingPath, task string) (string, error)
	Remove(path string) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReformatFunc normalizes a raw upload into a headerless two-column
// (key, value) CSV and reports where it wrote it and how many rows it has.
type ReformatFunc func(rawPath string) (Reformatted, error)

// Service runs the ingestion pipeline.
type Service struct {
	tx       txManager
	repo     ingestRepo
	registry registryRepo
	files    fileStore
	reformat ReformatFunc
	secret   string
	clock    func() time.Time
	log      *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewService creates a new ingestion service. secret is the shared upload
// password.
func NewService(
	log *slog.Logger,
	tx txManager,
	repo ingestRepo,
	registry registryRepo,
	files fileStore,
	secret string,
) *Service {
	return &Service{
		tx:       tx,
		repo:     repo,
		registry: registry,
		files:    files,
		reformat: ReformatCSV,
		secret:   secret,
		clock:    time.Now,
		log:      log.With("service", "ingest"),
		inflight: make(map[string]struct{}),
	}
}

// acquire marks task as being ingested by this process. It reports false when
// another ingestion of the same name is already running.
func (s *Service) acquire(task string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[task]; busy {
		return false
	}
	s.inflight[task] = struct{}{}
	return true
}

func (s *Service) release(task string) {
	s.mu.Lock()
	delete(s.inflight, task)
	s.mu.Unlock()
}
