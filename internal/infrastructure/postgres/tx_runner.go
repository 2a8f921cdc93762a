package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// txBeginner lo cumplen *pgxpool.Pool y *pgx.Conn.
type txBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// snapshotTx opciones de las lecturas que deben ver el mismo estado (conteo + página).
var snapshotTx = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}

// runSnapshot ejecuta fn dentro de una transacción de sólo lectura REPEATABLE READ
// cuando q puede abrirla; si q ya es una transacción (o un fake), fn corre directo sobre q.
func runSnapshot(ctx context.Context, q Querier, fn func(Querier) error) error {
	b, ok := q.(txBeginner)
	if !ok {
		return fn(q)
	}
	tx, err := b.BeginTx(ctx, snapshotTx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
