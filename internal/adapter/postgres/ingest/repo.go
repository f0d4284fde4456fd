// Package ingest holds the DDL and bulk-load statements that turn a cleaned
// upload into a live task type. Every method is meant to run inside one
// TxManager transaction so that a failure at any step leaves no tables.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/tofix-backend/internal/adapter/postgres"
)

// ErrNoTx is returned by statements that are only safe inside a transaction.
var ErrNoTx = errors.New("ingest: statement requires a transaction")

// stagingColumns is the column order the bulk load writes.
var stagingColumns = []string{"key", "value"}

// Repo provides ingestion DDL backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new ingestion repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) exec(ctx context.Context, task, sql string, args ...any) error {
	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "task", task)
	}
	return nil
}

// LockTaskName takes a transaction-scoped advisory lock keyed by the task name.
// Two servers ingesting the same name serialize here; the lock is released on
// commit or rollback.
func (r *Repo) LockTaskName(ctx context.Context, task string) error {
	if !postgres.InTx(ctx) {
		return ErrNoTx
	}
	return r.exec(ctx, task, "SELECT pg_advisory_xact_lock(hashtext($1))", task)
}

// TablesExist reports whether the item or event table of task already exists.
func (r *Repo) TablesExist(ctx context.Context, task string) (bool, error) {
	tables, err := postgres.TablesFor(task)
	if err != nil {
		return false, err
	}

	var exists bool
	err = postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx,
		"SELECT to_regclass($1::text) IS NOT NULL OR to_regclass($2::text) IS NOT NULL",
		tables.Items().Sanitize(), tables.Events().Sanitize(),
	).Scan(&exists)
	if err != nil {
		return false, postgres.MapError(err, "task", task)
	}
	return exists, nil
}

// CreateStaging creates the unlogged staging table. seq records load order.
func (r *Repo) CreateStaging(ctx context.Context, task string) error {
	tables, err := postgres.TablesFor(task)
	if err != nil {
		return err
	}
	return r.exec(ctx, task, fmt.Sprintf(
		`CREATE UNLOGGED TABLE %s (seq BIGSERIAL, key TEXT NOT NULL, value TEXT NOT NULL DEFAULT '')`,
		tables.Staging().Sanitize(),
	))
}

// CopyStaging bulk-loads (key, value) rows into the staging table and returns
// the number of rows the server acknowledged.
func (r *Repo) CopyStaging(ctx context.Context, task string, src pgx.CopyFromSource) (int64, error) {
	tables, err := postgres.TablesFor(task)
	if err != nil {
		return 0, err
	}

	n, err := postgres.QuerierFromCtx(ctx, r.db).CopyFrom(ctx, tables.Staging(), stagingColumns, src)
	if err != nil {
		return n, postgres.MapError(err, "task", task)
	}
	return n, nil
}

// Materialize creates the item table from staging. Rows are numbered in load
// order when preserveOrder is set, in random order otherwise; every item starts
// with lease_until 0. Returns the number of materialized rows.
func (r *Repo) Materialize(ctx context.Context, task string, preserveOrder bool) (int64, error) {
	tables, err := postgres.TablesFor(task)
	if err != nil {
		return 0, err
	}

	order := "random()"
	if preserveOrder {
		order = "seq"
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	tag, err := q.Exec(ctx, fmt.Sprintf(
		`CREATE TABLE %s AS SELECT row_number() OVER (ORDER BY %s) AS seq, key, value, 0::bigint AS lease_until FROM %s`,
		tables.Items().Sanitize(), order, tables.Staging().Sanitize(),
	))
	if err != nil {
		return 0, postgres.MapError(err, "task", task)
	}

	if err := r.exec(ctx, task, fmt.Sprintf(
		`ALTER TABLE %s ALTER COLUMN seq SET NOT NULL, ALTER COLUMN key SET NOT NULL, ALTER COLUMN value SET NOT NULL, ALTER COLUMN lease_until SET NOT NULL, ALTER COLUMN lease_until SET DEFAULT 0`,
		tables.Items().Sanitize(),
	)); err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// CreateIndexes adds the key primary key and the lookup indexes used by lease
// assignment. A duplicate key in the upload fails here.
func (r *Repo) CreateIndexes(ctx context.Context, task string) error {
	tables, err := postgres.TablesFor(task)
	if err != nil {
		return err
	}
	items := tables.Items().Sanitize()

	stmts := []string{
		fmt.Sprintf(`ALTER TABLE %s ADD CONSTRAINT %s PRIMARY KEY (key)`, items, tables.Index("pkey")),
		fmt.Sprintf(`CREATE UNIQUE INDEX %s ON %s (seq)`, tables.Index("seq_idx"), items),
		fmt.Sprintf(`CREATE INDEX %s ON %s (lease_until)`, tables.Index("lease_idx"), items),
	}
	for _, s := range stmts {
		if err := r.exec(ctx, task, s); err != nil {
			return err
		}
	}
	return nil
}

// CreateEventLog creates the empty event log table with its time index.
func (r *Repo) CreateEventLog(ctx context.Context, task string) error {
	tables, err := postgres.TablesFor(task)
	if err != nil {
		return err
	}
	events := tables.Events().Sanitize()

	if err := r.exec(ctx, task, fmt.Sprintf(
		`CREATE TABLE %s (id BIGSERIAL PRIMARY KEY, time BIGINT NOT NULL, attributes JSONB NOT NULL DEFAULT '{}'::jsonb)`,
		events,
	)); err != nil {
		return err
	}
	return r.exec(ctx, task, fmt.Sprintf(`CREATE INDEX %s ON %s (time)`, tables.Index("stats_time_idx"), events))
}

// DropStaging removes the staging table.
func (r *Repo) DropStaging(ctx context.Context, task string) error {
	tables, err := postgres.TablesFor(task)
	if err != nil {
		return err
	}
	return r.exec(ctx, task, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tables.Staging().Sanitize()))
}
