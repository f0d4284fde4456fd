package lease

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/tofix-backend/internal/domain"
	"github.com/heartmarshall/tofix-backend/internal/metrics"
)

// AssignNext leases the next available or expired item of the task type until
// Now+LeasePeriod. When nothing is eligible the result has Complete set and
// the error is nil.
func (s *Service) AssignNext(ctx context.Context, input AssignNextInput) (domain.Assignment, error) {
	if err := input.Validate(); err != nil {
		return domain.Assignment{}, err
	}

	task, _ := domain.ParseTaskName(input.TaskType)
	until := input.Now + input.LeasePeriod

	item, ok, err := s.items.AssignNext(ctx, task, input.Now, until)
	if err != nil {
		label := task
		if errors.Is(err, domain.ErrNotFound) {
			label = metrics.UnknownTask
		}
		metrics.AssignmentsTotal.WithLabelValues(label, "error").Inc()
		return domain.Assignment{}, fmt.Errorf("assign next %s: %w", task, err)
	}

	if !ok {
		metrics.AssignmentsTotal.WithLabelValues(task, "complete").Inc()
		s.log.DebugContext(ctx, "task complete", slog.String("task", task))
		return domain.Assignment{Complete: true}, nil
	}

	metrics.AssignmentsTotal.WithLabelValues(task, "assigned").Inc()
	s.log.InfoContext(ctx, "item leased",
		slog.String("task", task),
		slog.String("key", item.Key),
		slog.Int64("lease_until", item.LeaseUntil),
	)

	return domain.Assignment{Item: item, ExpiresAt: item.LeaseUntil}, nil
}

// Next assigns with the service clock and configured lease period.
func (s *Service) Next(ctx context.Context, taskType string) (domain.Assignment, error) {
	return s.AssignNext(ctx, AssignNextInput{
		TaskType:    taskType,
		Now:         s.clock().Unix(),
		LeasePeriod: int64(s.period.Seconds()),
	})
}
