package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/tofix-backend/internal/adapter/uploads"
)

type uploadLister interface {
	List() ([]uploads.File, error)
	Remove(path string) error
}

type registryChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// SweepResult summarizes one orphan sweep.
type SweepResult struct {
	Removed int
	Bytes   int64
	Kept    int
}

// SweepOrphans removes uploads left behind by ingestions that never
// registered: raw files whose task has no registry entry, pending uploads
// and any reformatted file. Files modified after cutoff are skipped since they may belong to an
// ingestion that is still running.
func SweepOrphans(ctx context.Context, log *slog.Logger, files uploadLister, registry registryChecker, cutoff time.Time) (SweepResult, error) {
	list, err := files.List()
	if err != nil {
		return SweepResult{}, err
	}

	var (
		res        SweepResult
		errs       []error
		registered = make(map[string]bool)
	)

	for _, f := range list {
		if f.ModTime.After(cutoff) {
			res.Kept++
			continue
		}

		if !f.Clean && !f.Pending {
			ok, seen := registered[f.Task]
			if !seen {
				ok, err = registry.Exists(ctx, f.Task)
				if err != nil {
					return res, fmt.Errorf("check registry for %s: %w", f.Task, err)
				}
				registered[f.Task] = ok
			}
			if ok {
				res.Kept++
				continue
			}
		}

		if err := files.Remove(f.Path); err != nil {
			log.WarnContext(ctx, "remove orphan upload", slog.String("path", f.Path), slog.String("error", err.Error()))
			errs = append(errs, err)
			continue
		}
		res.Removed++
		res.Bytes += f.Size
		log.InfoContext(ctx, "orphan upload removed",
			slog.String("task", f.Task),
			slog.String("path", f.Path),
			slog.Int64("bytes", f.Size),
		)
	}

	return res, errors.Join(errs...)
}
