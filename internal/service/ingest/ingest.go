package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/tofix-backend/internal/adapter/uploads"
	"github.com/heartmarshall/tofix-backend/internal/domain"
	"github.com/heartmarshall/tofix-backend/internal/metrics"
)

// compensation undoes one side effect outside the database transaction.
type compensation struct {
	name string
	fn   func() error
}

// run is the state of one ingestion.
type run struct {
	s    *Service
	in   Input
	task string
	log  *slog.Logger

	acquired bool
	rawPath  string // pending upload
	clean    Reformatted
	copied   int64
	rows     int64
	undo     []compensation
}

// Ingest runs the pipeline for one upload. Any failure is a *domain.StageError
// naming the failed stage; by then everything the run created is gone: the
// database stages share one transaction and file side effects are undone in
// reverse order. Once validation passes the caller's cancellation is ignored
// so that the run always reaches commit or cleanup.
func (s *Service) Ingest(ctx context.Context, input Input) (Result, error) {
	task := domain.SanitizeTaskName(input.Name)
	r := &run{
		s:    s,
		in:   input,
		task: task,
		log:  s.log.With(slog.String("task", task)),
	}

	start := time.Now()
	res, err := r.execute(ctx)
	if err != nil {
		label := "error"
		var se *domain.StageError
		if errors.As(err, &se) {
			label = se.Stage.String()
		}
		metrics.IngestionsTotal.WithLabelValues(label).Inc()
		return Result{}, err
	}

	metrics.IngestionsTotal.WithLabelValues("ok").Inc()
	metrics.IngestedRowsTotal.Add(float64(res.Rows))
	r.log.InfoContext(ctx, "task ingested",
		slog.Int64("rows", res.Rows),
		slog.Bool("preserve_order", input.PreserveOrder),
		slog.Duration("duration", time.Since(start)),
	)
	return res, nil
}

func (r *run) execute(ctx context.Context) (res Result, err error) {
	defer func() {
		if r.acquired {
			r.s.release(r.task)
		}
	}()

	if err := runStages(ctx, r.log, r.task, stage{domain.StageValidate, r.validate}); err != nil {
		return Result{}, err
	}

	ctx = context.WithoutCancel(ctx)
	defer func() {
		if r.rawPath != "" {
			r.removeFile(ctx, uploads.CleanPath(r.rawPath))
		}
		if err != nil {
			r.compensate(ctx)
		}
	}()

	if err := runStages(ctx, r.log, r.task,
		stage{domain.StagePersist, r.persist},
		stage{domain.StageReformat, r.reformat},
	); err != nil {
		return Result{}, err
	}

	if err := r.load(ctx); err != nil {
		return Result{}, err
	}
	r.publish(ctx)

	return Result{TaskID: r.task, Rows: r.rows}, nil
}

// load runs the database stages inside one transaction.
func (r *run) load(ctx context.Context) error {
	began := false
	err := r.s.tx.RunInTx(ctx, func(ctx context.Context) error {
		began = true
		return runStages(ctx, r.log, r.task,
			stage{domain.StageStage, r.stageRows},
			stage{domain.StageMaterialize, r.materialize},
			stage{domain.StageIndex, r.index},
			stage{domain.StageEventLog, r.eventLog},
			stage{domain.StageDropStaging, r.dropStaging},
			stage{domain.StageRegister, r.register},
		)
	})
	if err == nil {
		return nil
	}

	var se *domain.StageError
	if errors.As(err, &se) {
		return err
	}
	if !began {
		return &domain.StageError{Stage: domain.StageStage, Err: err}
	}
	return &domain.StageError{Stage: domain.StageCommit, Err: err}
}

func (r *run) validate(ctx context.Context) error {
	if err := r.in.Validate(); err != nil {
		return err
	}
	if err := authorize(r.in.Password, r.s.secret); err != nil {
		return err
	}

	if !r.s.acquire(r.task) {
		return fmt.Errorf("task %s: ingestion in progress: %w", r.task, domain.ErrConflict)
	}
	r.acquired = true

	exists, err := r.s.registry.Exists(ctx, r.task)
	if err != nil {
		return fmt.Errorf("check registry: %w", err)
	}
	if exists {
		return fmt.Errorf("task %s: %w", r.task, domain.ErrAlreadyExists)
	}
	return nil
}

func (r *run) persist(ctx context.Context) error {
	path, n, err := r.s.files.SaveRaw(r.task, r.in.File)
	if err != nil {
		return err
	}
	r.rawPath = path
	r.undo = append(r.undo, compensation{"remove raw upload", func() error { return r.s.files.Remove(path) }})

	r.log.InfoContext(ctx, "raw upload stored", slog.String("path", path), slog.Int64("bytes", n))
	return nil
}

// publish gives the raw upload its permanent name once the task is
// committed. A failure leaves the pending file for the orphan sweep.
func (r *run) publish(ctx context.Context) {
	if _, err := r.s.files.Publish(r.rawPath, r.task); err != nil {
		r.log.ErrorContext(ctx, "publish raw upload",
			slog.String("path", r.rawPath),
			slog.String("error", err.Error()),
		)
	}
}

func (r *run) reformat(ctx context.Context) error {
	out, err := r.s.reformat(r.rawPath)
	if err != nil {
		return err
	}
	r.clean = out
	return nil
}

func (r *run) stageRows(ctx context.Context) error {
	if err := r.s.repo.LockTaskName(ctx, r.task); err != nil {
		return fmt.Errorf("lock task name: %w", err)
	}

	exists, err := r.s.repo.TablesExist(ctx, r.task)
	if err != nil {
		return fmt.Errorf("check tables: %w", err)
	}
	if exists {
		return fmt.Errorf("task %s tables: %w", r.task, domain.ErrAlreadyExists)
	}
	registered, err := r.s.registry.Exists(ctx, r.task)
	if err != nil {
		return fmt.Errorf("check registry: %w", err)
	}
	if registered {
		return fmt.Errorf("task %s: %w", r.task, domain.ErrAlreadyExists)
	}

	if err := r.s.repo.CreateStaging(ctx, r.task); err != nil {
		return err
	}

	src, err := openCopySource(r.clean.Path)
	if err != nil {
		return err
	}
	defer src.Close()

	n, err := r.s.repo.CopyStaging(ctx, r.task, src)
	if err != nil {
		return err
	}
	if n != r.clean.Rows {
		return fmt.Errorf("bulk load acknowledged %d of %d rows", n, r.clean.Rows)
	}
	r.copied = n
	return nil
}

func (r *run) materialize(ctx context.Context) error {
	n, err := r.s.repo.Materialize(ctx, r.task, r.in.PreserveOrder)
	if err != nil {
		return err
	}
	if n != r.copied {
		return fmt.Errorf("materialized %d of %d staged rows", n, r.copied)
	}
	r.rows = n
	return nil
}

// index builds the primary key on key, so a file repeating a key fails here.
func (r *run) index(ctx context.Context) error {
	err := r.s.repo.CreateIndexes(ctx, r.task)
	if errors.Is(err, domain.ErrAlreadyExists) {
		return domain.NewValidationError("file", "duplicate key")
	}
	return err
}

func (r *run) eventLog(ctx context.Context) error {
	return r.s.repo.CreateEventLog(ctx, r.task)
}

func (r *run) dropStaging(ctx context.Context) error {
	return r.s.repo.DropStaging(ctx, r.task)
}

func (r *run) register(ctx context.Context) error {
	return r.s.registry.Register(ctx, domain.TaskEntry{
		ID:          r.task,
		Title:       r.in.Metadata.Title,
		Source:      r.in.Metadata.Source,
		Owner:       r.in.Metadata.Owner,
		Description: r.in.Metadata.Description,
		Created:     r.s.clock().Unix(),
		Status:      domain.TaskStatusActive,
	})
}

// compensate undoes file side effects in reverse order. Failures are logged
// and do not stop the remaining compensations.
func (r *run) compensate(ctx context.Context) {
	for i := len(r.undo) - 1; i >= 0; i-- {
		c := r.undo[i]
		if err := c.fn(); err != nil {
			r.log.ErrorContext(ctx, "ingest cleanup failed",
				slog.String("action", c.name),
				slog.String("error", err.Error()),
			)
			continue
		}
		r.log.InfoContext(ctx, "ingest cleanup", slog.String("action", c.name))
	}
}

func (r *run) removeFile(ctx context.Context, path string) {
	if err := r.s.files.Remove(path); err != nil {
		r.log.WarnContext(ctx, "remove clean file", slog.String("error", err.Error()))
	}
}
