// Package task implements the shared task registry (task_details).
package task

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/tofix-backend/internal/adapter/postgres"
	"github.com/heartmarshall/tofix-backend/internal/domain"
)

const table = "task_details"

var columns = []string{"id", "title", "source", "owner", "description", "created", "status"}

// Repo provides registry persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new registry repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Register inserts a new registry entry. An existing entry for the same id is
// reported as domain.ErrAlreadyExists.
func (r *Repo) Register(ctx context.Context, e domain.TaskEntry) error {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(e.ID, e.Title, e.Source, e.Owner, e.Description, e.Created, string(e.Status)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build register query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "task", e.ID)
	}
	return nil
}

// Get returns the registry entry for id or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, id string) (domain.TaskEntry, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.TaskEntry{}, fmt.Errorf("build get query: %w", err)
	}

	e, err := scanEntry(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.TaskEntry{}, postgres.MapError(err, "task", id)
	}
	return e, nil
}

// Exists reports whether a registry entry for id exists.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	query, args, err := postgres.Builder().
		Select("1").
		Prefix("SELECT EXISTS(").
		From(table).
		Where(sq.Eq{"id": id}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var exists bool
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, postgres.MapError(err, "task", id)
	}
	return exists, nil
}

// ListAll returns every registry entry, newest first.
func (r *Repo) ListAll(ctx context.Context) ([]domain.TaskEntry, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		OrderBy("created DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	entries := []domain.TaskEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return entries, nil
}

func scanEntry(row pgx.Row) (domain.TaskEntry, error) {
	var (
		e      domain.TaskEntry
		status string
	)
	if err := row.Scan(&e.ID, &e.Title, &e.Source, &e.Owner, &e.Description, &e.Created, &status); err != nil {
		return domain.TaskEntry{}, err
	}
	e.Status = domain.TaskStatus(status)
	return e, nil
}
