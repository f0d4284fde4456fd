// Package lease hands out items of a task type to workers under a
// time-bounded exclusive lease.
package lease

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/tofix-backend/internal/domain"
)

type itemRepo interface {
	AssignNext(ctx context.Context, task string, now, leaseUntil int64) (domain.Item, bool, error)
}

// Service provides lease assignment.
type Service struct {
	items  itemRepo
	period time.Duration
	clock  func() time.Time
	log    *slog.Logger
}

// NewService creates a new lease service. period is the lease length used by
// Next; AssignNext takes it explicitly.
func NewService(
	log *slog.Logger,
	items itemRepo,
	period time.Duration,
) *Service {
	return &Service{
		items:  items,
		period: period,
		clock:  time.Now,
		log:    log.With("service", "lease"),
	}
}
