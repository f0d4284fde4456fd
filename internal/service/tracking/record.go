package tracking

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/heartmarshall/tofix-backend/internal/domain"
	"github.com/heartmarshall/tofix-backend/internal/metrics"
)

// Record appends one event to the task's event log. Attributes are stored as
// given; the item store is never touched here, whatever the action.
func (s *Service) Record(ctx context.Context, input RecordInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	task, _ := domain.ParseTaskName(input.TaskType)
	ev := domain.Event{
		Time:       s.clock().Unix(),
		Attributes: maps.Clone(input.Attributes),
	}
	if input.Time != nil {
		ev.Time = *input.Time
	}

	if err := s.events.Append(ctx, task, ev); err != nil {
		return fmt.Errorf("record event %s: %w", task, err)
	}
	metrics.EventsRecordedTotal.WithLabelValues(task).Inc()

	attrs := []any{slog.String("task", task), slog.Int64("time", ev.Time)}
	if key, ok := ev.Key(); ok {
		attrs = append(attrs, slog.String("key", key))
	}
	if action, ok := ev.Action(); ok {
		attrs = append(attrs, slog.String("action", action.String()))
	}
	s.log.DebugContext(ctx, "event recorded", attrs...)

	return nil
}

// MarkResolved permanently retires an item so it is never assigned again.
func (s *Service) MarkResolved(ctx context.Context, input MarkResolvedInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	task, _ := domain.ParseTaskName(input.TaskType)
	if err := s.items.MarkResolved(ctx, task, input.Key); err != nil {
		return fmt.Errorf("mark %s %s/%s: %w", input.Kind, task, input.Key, err)
	}
	metrics.ResolutionsTotal.WithLabelValues(task, input.Kind.String()).Inc()

	s.log.InfoContext(ctx, "item resolved",
		slog.String("task", task),
		slog.String("key", input.Key),
		slog.String("kind", input.Kind.String()),
	)

	return nil
}
