package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/reportes-ventas/internal/domain"
)

// isQueryCanceled verifica si la consulta se cortó por timeout: statement_timeout
// del servidor (57014) o el deadline del contexto.
func isQueryCanceled(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "57014" // query_canceled
	}
	return false
}

// wrapQueryErr agrega la operación y marca los timeouts con domain.ErrQueryTimeout.
func wrapQueryErr(op string, err error) error {
	if isQueryCanceled(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrQueryTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
