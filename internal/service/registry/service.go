// Package registry serves read-only views of registered task types: their
// metadata, lease-state counts and action statistics.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/tofix-backend/internal/domain"
)

type taskRepo interface {
	Get(ctx context.Context, id string) (domain.TaskEntry, error)
	ListAll(ctx context.Context) ([]domain.TaskEntry, error)
}

type itemRepo interface {
	Counts(ctx context.Context, task string, now int64) (domain.ItemCounts, error)
}

type eventRepo interface {
	CountActions(ctx context.Context, task string, from, to int64) ([]domain.ActionCount, error)
	CountHistory(ctx context.Context, task string, grouping domain.HistoryGrouping) ([]domain.HistoryBucket, error)
	FindByAttribute(ctx context.Context, task, key, value string, to int64, limit uint64) ([]domain.Event, error)
}

// maxFoundEvents caps one attribute search.
const maxFoundEvents = 1000

// Service provides registry lookups and reporting.
type Service struct {
	tasks  taskRepo
	items  itemRepo
	events eventRepo
	clock  func() time.Time
	log    *slog.Logger
}

// NewService creates a new registry service.
func NewService(
	log *slog.Logger,
	tasks taskRepo,
	items itemRepo,
	events eventRepo,
) *Service {
	return &Service{
		tasks:  tasks,
		items:  items,
		events: events,
		clock:  time.Now,
		log:    log.With("service", "registry"),
	}
}

// Get returns the registry entry of a task type or domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, taskType string) (domain.TaskEntry, error) {
	task, err := domain.ParseTaskName(taskType)
	if err != nil {
		return domain.TaskEntry{}, err
	}

	e, err := s.tasks.Get(ctx, task)
	if err != nil {
		return domain.TaskEntry{}, fmt.Errorf("get task: %w", err)
	}
	return e, nil
}

// ListAll returns every registered task type, newest first.
func (s *Service) ListAll(ctx context.Context) ([]domain.TaskEntry, error) {
	entries, err := s.tasks.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return entries, nil
}

// Counts returns the current lease-state breakdown of a task type's items.
func (s *Service) Counts(ctx context.Context, taskType string) (domain.ItemCounts, error) {
	task, err := domain.ParseTaskName(taskType)
	if err != nil {
		return domain.ItemCounts{}, err
	}

	c, err := s.items.Counts(ctx, task, s.clock().Unix())
	if err != nil {
		return domain.ItemCounts{}, fmt.Errorf("count items: %w", err)
	}
	return c, nil
}

// ActionStats returns per-action event counts with from <= time <= to.
func (s *Service) ActionStats(ctx context.Context, taskType string, from, to int64) ([]domain.ActionCount, error) {
	task, err := domain.ParseTaskName(taskType)
	if err != nil {
		return nil, err
	}
	if from > to {
		return nil, domain.NewValidationError("to", "must not be before from")
	}

	stats, err := s.events.CountActions(ctx, task, from, to)
	if err != nil {
		return nil, fmt.Errorf("action stats: %w", err)
	}
	if stats == nil {
		stats = []domain.ActionCount{}
	}

	s.log.DebugContext(ctx, "action stats",
		slog.String("task", task),
		slog.Int64("from", from),
		slog.Int64("to", to),
		slog.Int("actions", len(stats)),
	)
	return stats, nil
}

// CountHistory returns per-action event counts bucketed by hour, day, week or
// month.
func (s *Service) CountHistory(ctx context.Context, taskType, grouping string) ([]domain.HistoryBucket, error) {
	task, err := domain.ParseTaskName(taskType)
	if err != nil {
		return nil, err
	}
	g := domain.HistoryGrouping(grouping)
	if !g.IsValid() {
		return nil, domain.NewValidationError("grouping", "must be hour, day, week or month")
	}

	history, err := s.events.CountHistory(ctx, task, g)
	if err != nil {
		return nil, fmt.Errorf("count history: %w", err)
	}
	if history == nil {
		history = []domain.HistoryBucket{}
	}
	return history, nil
}

// FindEvents returns the newest events whose attribute key equals value with
// time <= to.
func (s *Service) FindEvents(ctx context.Context, taskType, key, value string, to int64) ([]domain.Event, error) {
	task, err := domain.ParseTaskName(taskType)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, domain.NewValidationError("key", "required")
	}

	events, err := s.events.FindByAttribute(ctx, task, key, value, to, maxFoundEvents)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	if events == nil {
		events = []domain.Event{}
	}

	s.log.DebugContext(ctx, "events found",
		slog.String("task", task),
		slog.String("attribute", key),
		slog.Int("events", len(events)),
	)
	return events, nil
}
