// Package event implements the append-only per-task event log.
package event

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/tofix-backend/internal/adapter/postgres"
	"github.com/heartmarshall/tofix-backend/internal/domain"
)

// Repo provides event log persistence backed by PostgreSQL.
// It has no update or delete operations.
type Repo struct {
	db postgres.Querier
}

// New creates a new event repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Append writes one event row to the task's event log.
func (r *Repo) Append(ctx context.Context, task string, ev domain.Event) error {
	tables, err := postgres.TablesFor(task)
	if err != nil {
		return err
	}

	attrs := ev.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	attrsJSON, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("event marshal attributes: %w", err)
	}

	query, args, err := postgres.Builder().
		Insert(tables.Events().Sanitize()).
		Columns("time", "attributes").
		Values(ev.Time, string(attrsJSON)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build event insert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "task", task)
	}

	return nil
}

// CountActions returns the number of events per "action" attribute with
// from <= time <= to, most frequent first. Events without an action are skipped.
func (r *Repo) CountActions(ctx context.Context, task string, from, to int64) ([]domain.ActionCount, error) {
	tables, err := postgres.TablesFor(task)
	if err != nil {
		return nil, err
	}

	query, args, err := postgres.Builder().
		Select("attributes->>'action' AS action", "count(*) AS n").
		From(tables.Events().Sanitize()).
		Where(sq.GtOrEq{"time": from}).
		Where(sq.LtOrEq{"time": to}).
		Where("attributes->>'action' IS NOT NULL").
		GroupBy("1").
		OrderBy("2 DESC", "1").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build action count query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "task", task)
	}
	defer rows.Close()

	var counts []domain.ActionCount
	for rows.Next() {
		var c domain.ActionCount
		if err := rows.Scan(&c.Action, &c.Count); err != nil {
			return nil, fmt.Errorf("scan action count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "task", task)
	}

	return counts, nil
}

// CountHistory returns per-action event counts bucketed by grouping, oldest
// bucket first. Buckets are truncated in UTC.
func (r *Repo) CountHistory(ctx context.Context, task string, grouping domain.HistoryGrouping) ([]domain.HistoryBucket, error) {
	tables, err := postgres.TablesFor(task)
	if err != nil {
		return nil, err
	}
	if !grouping.IsValid() {
		return nil, domain.NewValidationError("grouping", "must be hour, day, week or month")
	}

	query, args, err := postgres.Builder().
		Select().
		Column(sq.Expr("extract(epoch FROM date_trunc(?, to_timestamp(time) AT TIME ZONE 'UTC'))::bigint AS bucket", grouping.String())).
		Column("attributes->>'action' AS action").
		Column("count(*) AS n").
		From(tables.Events().Sanitize()).
		Where("attributes->>'action' IS NOT NULL").
		GroupBy("1", "2").
		OrderBy("1", "2").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count history query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "task", task)
	}
	defer rows.Close()

	var history []domain.HistoryBucket
	for rows.Next() {
		var b domain.HistoryBucket
		if err := rows.Scan(&b.Start, &b.Action, &b.Count); err != nil {
			return nil, fmt.Errorf("scan history bucket: %w", err)
		}
		history = append(history, b)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "task", task)
	}

	return history, nil
}

// FindByAttribute returns events whose attribute key equals value with
// time <= to, newest first, at most limit rows.
func (r *Repo) FindByAttribute(ctx context.Context, task, key, value string, to int64, limit uint64) ([]domain.Event, error) {
	tables, err := postgres.TablesFor(task)
	if err != nil {
		return nil, err
	}

	query, args, err := postgres.Builder().
		Select("time", "attributes").
		From(tables.Events().Sanitize()).
		Where("attributes->>? = ?", key, value).
		Where(sq.LtOrEq{"time": to}).
		OrderBy("time DESC", "id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build event search query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "task", task)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var ev domain.Event
		if err := rows.Scan(&ev.Time, &ev.Attributes); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "task", task)
	}

	return events, nil
}
