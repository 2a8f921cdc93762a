package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Querier lo mínimo que necesitan los repositorios de lectura: *pgxpool.Pool, *pgx.Conn y pgx.Tx lo cumplen.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
