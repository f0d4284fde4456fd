package testhelper

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/tofix-backend/internal/adapter/postgres"
	"github.com/heartmarshall/tofix-backend/internal/domain"
)

// UniqueTaskName returns a letters-only task name that does not collide with
// other tests sharing the container.
func UniqueTaskName(prefix string) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	var b strings.Builder
	b.WriteString(prefix)
	for _, c := range hex {
		// map 0-9a-f onto a-p
		if c >= '0' && c <= '9' {
			b.WriteRune('a' + (c - '0'))
		} else {
			b.WriteRune('k' + (c - 'a'))
		}
	}
	return b.String()
}

// SeedItem is one (key, value) row for SeedTask.
type SeedItem struct {
	Key   string
	Value string
}

// SeedTask creates the item and event tables for a task directly, with items
// in the given order and every lease at 0. It does not touch the registry.
func SeedTask(t *testing.T, pool *pgxpool.Pool, prefix string, items ...SeedItem) string {
	t.Helper()
	ctx := context.Background()

	name := UniqueTaskName(prefix)
	tables, err := postgres.TablesFor(name)
	if err != nil {
		t.Fatalf("testhelper: SeedTask tables: %v", err)
	}

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE %s (seq BIGINT NOT NULL, key TEXT PRIMARY KEY, value TEXT NOT NULL, lease_until BIGINT NOT NULL DEFAULT 0)`, tables.Items().Sanitize()),
		fmt.Sprintf(`CREATE TABLE %s (id BIGSERIAL PRIMARY KEY, time BIGINT NOT NULL, attributes JSONB NOT NULL DEFAULT '{}'::jsonb)`, tables.Events().Sanitize()),
	}
	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s); err != nil {
			t.Fatalf("testhelper: SeedTask create: %v", err)
		}
	}

	rows := make([][]any, len(items))
	for i, it := range items {
		rows[i] = []any{int64(i + 1), it.Key, it.Value}
	}
	if _, err := pool.CopyFrom(ctx, tables.Items(), []string{"seq", "key", "value"}, pgx.CopyFromRows(rows)); err != nil {
		t.Fatalf("testhelper: SeedTask copy: %v", err)
	}

	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = pool.Exec(ctx, "DROP TABLE IF EXISTS "+tables.Items().Sanitize())
		_, _ = pool.Exec(ctx, "DROP TABLE IF EXISTS "+tables.Events().Sanitize())
	})

	return name
}

// SeedRegistry inserts a registry entry for name.
func SeedRegistry(t *testing.T, pool *pgxpool.Pool, name string) domain.TaskEntry {
	t.Helper()

	e := domain.TaskEntry{
		ID:      name,
		Title:   "Title " + name,
		Source:  "test",
		Owner:   "tester",
		Created: time.Now().Unix(),
		Status:  domain.TaskStatusActive,
	}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO task_details (id, title, source, owner, description, created, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Title, e.Source, e.Owner, e.Description, e.Created, string(e.Status),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRegistry: %v", err)
	}

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM task_details WHERE id = $1`, name)
	})

	return e
}

// LeaseOf returns the stored lease_until of key.
func LeaseOf(t *testing.T, pool *pgxpool.Pool, task, key string) int64 {
	t.Helper()

	tables, err := postgres.TablesFor(task)
	if err != nil {
		t.Fatalf("testhelper: LeaseOf: %v", err)
	}
	var lease int64
	err = pool.QueryRow(context.Background(),
		fmt.Sprintf(`SELECT lease_until FROM %s WHERE key = $1`, tables.Items().Sanitize()), key,
	).Scan(&lease)
	if err != nil {
		t.Fatalf("testhelper: LeaseOf: %v", err)
	}
	return lease
}

// CleanupTask drops every table of name and its registry row when the test
// ends. Use it for tasks created through the ingestion pipeline.
func CleanupTask(t *testing.T, pool *pgxpool.Pool, name string) {
	t.Helper()
	t.Cleanup(func() {
		ctx := context.Background()
		tables, err := postgres.TablesFor(name)
		if err != nil {
			return
		}
		for _, id := range []pgx.Identifier{tables.Items(), tables.Events(), tables.Staging()} {
			_, _ = pool.Exec(ctx, "DROP TABLE IF EXISTS "+id.Sanitize())
		}
		_, _ = pool.Exec(ctx, `DELETE FROM task_details WHERE id = $1`, name)
	})
}
