// Package tracking records worker actions and retires resolved items.
package tracking

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/tofix-backend/internal/domain"
)

type eventRepo interface {
	Append(ctx context.Context, task string, ev domain.Event) error
}

type itemRepo interface {
	MarkResolved(ctx context.Context, task, key string) error
}

// Service provides event recording and item resolution. The two are
// independent writes; callers compose them.
type Service struct {
	events eventRepo
	items  itemRepo
	clock  func() time.Time
	log    *slog.Logger
}

// NewService creates a new tracking service.
func NewService(
	log *slog.Logger,
	events eventRepo,
	items itemRepo,
) *Service {
	return &Service{
		events: events,
		items:  items,
		clock:  time.Now,
		log:    log.With("service", "tracking"),
	}
}
