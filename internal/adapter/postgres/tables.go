package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/tofix-backend/internal/domain"
)

// TaskTables names the per-task-type tables. Names are derived only from a
// sanitized task name (ASCII lowercase letters) and are always rendered
// through pgx.Identifier quoting, never interpolated raw.
type TaskTables struct {
	name string
}

// TablesFor returns the table names for a task. name must already be in
// sanitized form; anything else is rejected rather than cleaned up here.
func TablesFor(name string) (TaskTables, error) {
	if name == "" || len(name) > domain.MaxTaskNameLen || domain.SanitizeTaskName(name) != name {
		return TaskTables{}, domain.NewValidationError("task", fmt.Sprintf("invalid task table name %q", name))
	}
	return TaskTables{name: name}, nil
}

// Name returns the sanitized task name.
func (t TaskTables) Name() string { return t.name }

// Items is the item store table.
func (t TaskTables) Items() pgx.Identifier { return pgx.Identifier{t.name} }

// Events is the companion event log table.
func (t TaskTables) Events() pgx.Identifier { return pgx.Identifier{t.name + "_stats"} }

// Staging is the bulk-load table that exists only during ingestion.
func (t TaskTables) Staging() pgx.Identifier { return pgx.Identifier{t.name + "_staging"} }

// Index returns a quoted index name scoped to the task.
func (t TaskTables) Index(suffix string) string {
	return pgx.Identifier{t.name + "_" + suffix}.Sanitize()
}
