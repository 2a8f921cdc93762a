package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/reportes-ventas/internal/domain/report"
	"github.com/jhoicas/reportes-ventas/internal/domain/repository"
)

var _ repository.FactRepository = (*FactRepo)(nil)

// FactRepo ejecutor de consultas de sólo lectura sobre la vista materializada de ventas.
type FactRepo struct {
	q     Querier
	table string
}

// NewFactRepository construye el ejecutor sobre la tabla (o vista) de hechos indicada.
func NewFactRepository(q Querier, table string) *FactRepo {
	return &FactRepo{q: q, table: table}
}

// FetchFacts devuelve las filas agregadas por entidad del nivel, ítem y periodo.
func (r *FactRepo) FetchFacts(ctx context.Context, query report.FactQuery) ([]report.FactRow, error) {
	sql, args := newFactSQL(r.table, query).facts()

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapQueryErr("facts.FetchFacts", err)
	}
	defer rows.Close()

	var results []report.FactRow
	for rows.Next() {
		var (
			row        report.FactRow
			code, name string
		)
		if err := rows.Scan(
			&row.EntityID,
			&row.ItemID,
			&code,
			&name,
			&row.Category,
			&row.Period,
			&row.Value,
		); err != nil {
			return nil, fmt.Errorf("facts.FetchFacts scan: %w", err)
		}
		row.ItemName = report.ItemDisplayName(code, name)
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("facts.FetchFacts rows", err)
	}
	return results, nil
}

// FetchTablePage devuelve una página de la vista tabular y el total de filas.
// Conteo y página se leen en la misma transacción para que sean consistentes.
func (r *FactRepo) FetchTablePage(
	ctx context.Context,
	query report.FactQuery,
	limit, offset int,
) ([]report.TableRow, int, error) {
	b := newFactSQL(r.table, query)

	var (
		results []report.TableRow
		total   int
	)
	err := runSnapshot(ctx, r.q, func(q Querier) error {
		countSQL, countArgs := b.tableCount()
		if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
			return wrapQueryErr("facts.FetchTablePage count", err)
		}
		if total == 0 || offset >= total {
			results = []report.TableRow{}
			return nil
		}

		pageSQL, pageArgs := b.tablePage(limit, offset)
		rows, err := q.Query(ctx, pageSQL, pageArgs...)
		if err != nil {
			return wrapQueryErr("facts.FetchTablePage", err)
		}
		defer rows.Close()

		results = make([]report.TableRow, 0, limit)
		for rows.Next() {
			var row report.TableRow
			if err := rows.Scan(
				&row.ItemCode,
				&row.ItemName,
				&row.Category,
				&row.Date,
				&row.EntityID,
				&row.Value,
			); err != nil {
				return fmt.Errorf("facts.FetchTablePage scan: %w", err)
			}
			results = append(results, row)
		}
		if err := rows.Err(); err != nil {
			return wrapQueryErr("facts.FetchTablePage rows", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}
