// Package item implements the per-task item store: atomic lease assignment,
// permanent resolution and lease-state counts.
package item

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/tofix-backend/internal/adapter/postgres"
	"github.com/heartmarshall/tofix-backend/internal/domain"
)

// assignSQL selects the first eligible item in hand-out order (never leased,
// or leased until strictly before now) and advances its lease in the same
// statement. FOR UPDATE SKIP LOCKED makes concurrent callers pass over a row
// another transaction is already claiming instead of both returning it.
const assignSQL = `UPDATE %[1]s SET lease_until = $1
WHERE key = (
	SELECT key FROM %[1]s
	WHERE (lease_until = 0 OR lease_until < $2) AND lease_until <> $3
	ORDER BY seq
	LIMIT 1
	FOR UPDATE SKIP LOCKED
)
RETURNING key, value, lease_until`

// Repo provides item persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new item repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// AssignNext leases the next available or expired item of task until
// leaseUntil. ok is false when no eligible item is left.
func (r *Repo) AssignNext(ctx context.Context, task string, now, leaseUntil int64) (domain.Item, bool, error) {
	tables, err := postgres.TablesFor(task)
	if err != nil {
		return domain.Item{}, false, err
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	query := fmt.Sprintf(assignSQL, tables.Items().Sanitize())

	var it domain.Item
	err = q.QueryRow(ctx, query, leaseUntil, now, domain.LeaseResolved).Scan(&it.Key, &it.Value, &it.LeaseUntil)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Item{}, false, nil
	}
	if err != nil {
		return domain.Item{}, false, postgres.MapError(err, "task", task)
	}

	return it, true, nil
}

// MarkResolved sets the item's lease to the resolved sentinel so it is never
// handed out again. Returns domain.ErrNotFound for an unknown key or task.
func (r *Repo) MarkResolved(ctx context.Context, task, key string) error {
	tables, err := postgres.TablesFor(task)
	if err != nil {
		return err
	}

	query, args, err := postgres.Builder().
		Update(tables.Items().Sanitize()).
		Set("lease_until", domain.LeaseResolved).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build resolve query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "task", task)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %s/%s: %w", task, key, domain.ErrNotFound)
	}

	return nil
}

// Counts returns the number of items per lease state at now.
func (r *Repo) Counts(ctx context.Context, task string, now int64) (domain.ItemCounts, error) {
	tables, err := postgres.TablesFor(task)
	if err != nil {
		return domain.ItemCounts{}, err
	}

	query, args, err := postgres.Builder().
		Select("count(*)").
		Column(sq.Expr("count(*) FILTER (WHERE lease_until = 0 OR lease_until < ?)", now)).
		Column(sq.Expr("count(*) FILTER (WHERE lease_until <> 0 AND lease_until >= ? AND lease_until <> ?)", now, domain.LeaseResolved)).
		Column(sq.Expr("count(*) FILTER (WHERE lease_until = ?)", domain.LeaseResolved)).
		From(tables.Items().Sanitize()).
		ToSql()
	if err != nil {
		return domain.ItemCounts{}, fmt.Errorf("build count query: %w", err)
	}

	var c domain.ItemCounts
	err = postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).
		Scan(&c.Total, &c.Available, &c.Leased, &c.Resolved)
	if err != nil {
		return domain.ItemCounts{}, postgres.MapError(err, "task", task)
	}

	return c, nil
}
