package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/tofix-backend/internal/domain"
)

// PostgreSQL error codes the adapters care about.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeUndefinedTable      = "42P01"
	codeDuplicateTable      = "42P07"
	codeCharNotInRepertoire = "22021"
	codeUntranslatableChar  = "22P05"
)

// MapError converts pgx/pgconn errors to domain errors.
// context.DeadlineExceeded and context.Canceled are NOT mapped; they pass through.
// An undefined table means the task type was never ingested, so it maps to
// domain.ErrNotFound just like a missing row.
func MapError(err error, entity, id string) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation, codeDuplicateTable:
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case codeForeignKeyViolation, codeUndefinedTable:
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case codeCheckViolation, codeCharNotInRepertoire, codeUntranslatableChar:
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	// Everything else: wrap with context
	return fmt.Errorf("%s %s: %w", entity, id, err)
}
