package item

import "github.com/jackc/pgx/v5/pgconn"

func undefinedTable() error {
	return &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}
}
