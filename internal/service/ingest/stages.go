package ingest

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/heartmarshall/tofix-backend/internal/domain"
	"github.com/heartmarshall/tofix-backend/internal/metrics"
	"github.com/heartmarshall/tofix-backend/internal/tracing"
)

type stage struct {
	name domain.IngestStage
	run  func(ctx context.Context) error
}

// runStages runs stages in declared order and stops at the first failure,
// which is returned as a *domain.StageError.
func runStages(ctx context.Context, log *slog.Logger, task string, stages ...stage) error {
	for _, st := range stages {
		if err := runStage(ctx, log, task, st); err != nil {
			return err
		}
	}
	return nil
}

func runStage(ctx context.Context, log *slog.Logger, task string, st stage) error {
	ctx, span := tracing.IngestStageSpan(ctx, task, st.name.String())
	defer span.End()

	start := time.Now()
	err := st.run(ctx)
	elapsed := time.Since(start)
	metrics.IngestStageDurationSeconds.WithLabelValues(st.name.String()).Observe(elapsed.Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.WarnContext(ctx, "ingest stage failed",
			slog.String("stage", st.name.String()),
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()),
		)
		return &domain.StageError{Stage: st.name, Err: err}
	}

	log.DebugContext(ctx, "ingest stage done",
		slog.String("stage", st.name.String()),
		slog.Duration("duration", elapsed),
	)
	return nil
}
