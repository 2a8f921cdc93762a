package postgres

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/reportes-ventas/internal/domain/report"
)

// periodExpr agrupación temporal de cada granularidad. Semanal en año/semana ISO.
var periodExpr = map[report.Granularity]string{
	report.Daily:   "to_char(ms.invoice_date, 'YYYY-MM-DD')",
	report.Weekly:  "to_char(ms.invoice_date, 'IYYY-IW')",
	report.Monthly: "to_char(ms.invoice_date, 'YYYY-MM')",
	report.Yearly:  "to_char(ms.invoice_date, 'YYYY')",
}

// Cantidad: las unidades de empaque (uom 1 y 3) se convierten a unidades con el UPC del ítem.
const quantityExpr = `SUM(
	        CASE
	            WHEN ms.uom IN (1, 3) AND iu.upc IS NOT NULL AND iu.upc > 0
	            THEN ms.total_quantity / iu.upc
	            ELSE ms.total_quantity
	        END
	    )::NUMERIC`

const amountExpr = `SUM(ms.total_amount)::NUMERIC`

const upcJoin = `
	LEFT JOIN (
	    SELECT item_id, MAX(upc::NUMERIC) AS upc
	    FROM item_uoms
	    WHERE upc ~ '^[0-9]+(\.[0-9]+)?$'
	    GROUP BY item_id
	) iu ON iu.item_id = ms.item_id`

// factSQL arma consultas parametrizadas sobre la tabla de hechos a partir de un
// report.FactQuery. Las columnas salen de la jerarquía de facetas (conjunto cerrado)
// y todos los valores viajan como argumentos $n.
type factSQL struct {
	table string
	query report.FactQuery
	where []string
	args  []any
}

func newFactSQL(table string, q report.FactQuery) *factSQL {
	b := &factSQL{table: sanitizeTable(table), query: q}
	b.where = append(b.where, fmt.Sprintf("ms.invoice_date BETWEEN %s AND %s",
		b.arg(q.Filters.From), b.arg(q.Filters.To)))
	for _, c := range q.Constraints() {
		b.where = append(b.where, fmt.Sprintf("ms.%s = ANY(%s)", c.Column, b.arg(c.IDs)))
	}
	// Bonificaciones: líneas sin monto; sólo tiene sentido excluirlas al contar cantidades.
	if q.Filters.ValueMode == report.ValueQuantity && q.Filters.FreeGoodMode == report.FreeGoodExclude {
		b.where = append(b.where, "ms.total_amount > 0")
	}
	return b
}

func (b *factSQL) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *factSQL) from() string {
	from := "FROM " + b.table + " ms"
	if b.query.Filters.ValueMode != report.ValueAmount {
		from += upcJoin
	}
	return from + "\n\tWHERE " + strings.Join(b.where, "\n\t  AND ")
}

func (b *factSQL) valueExpr() string {
	if b.query.Filters.ValueMode == report.ValueAmount {
		return amountExpr
	}
	return quantityExpr
}

// facts consulta agregada por (entidad del nivel, ítem[, periodo]).
func (b *factSQL) facts() (string, []any) {
	entity := "ms." + b.query.Level.Column()
	period := "''"
	group := []string{entity, "ms.item_id", "ms.item_code", "ms.item_name", "ms.item_category_name"}
	if expr, ok := periodExpr[b.query.Granularity]; ok {
		period = expr
		group = append(group, expr)
	}
	sql := fmt.Sprintf(`
	SELECT
	    %s                                   AS entity_id,
	    ms.item_id,
	    COALESCE(ms.item_code, '')           AS item_code,
	    COALESCE(ms.item_name, '')           AS item_name,
	    COALESCE(ms.item_category_name, '')  AS item_category,
	    %s                                   AS period,
	    COALESCE(%s, 0)                      AS total_value
	%s
	GROUP BY %s
	ORDER BY item_code, period`,
		entity, period, b.valueExpr(), b.from(), strings.Join(group, ", "))
	return sql, b.args
}

func (b *factSQL) tableGroup() string {
	return strings.Join([]string{
		"ms.item_code", "ms.item_name", "ms.item_category_name", "ms.invoice_date", "ms." + b.query.Level.Column(),
	}, ", ")
}

// tableCount total de filas agrupadas de la vista tabular.
func (b *factSQL) tableCount() (string, []any) {
	sql := fmt.Sprintf(`
	SELECT COUNT(*) FROM (
	    SELECT 1
	    %s
	    GROUP BY %s
	) AS sub`, b.from(), b.tableGroup())
	return sql, append([]any(nil), b.args...)
}

// tablePage una página de la vista tabular, ordenada por fecha e ítem.
func (b *factSQL) tablePage(limit, offset int) (string, []any) {
	args := append([]any(nil), b.args...)
	limitArg := fmt.Sprintf("$%d", len(args)+1)
	offsetArg := fmt.Sprintf("$%d", len(args)+2)
	args = append(args, limit, offset)
	sql := fmt.Sprintf(`
	SELECT
	    COALESCE(ms.item_code, '')           AS item_code,
	    COALESCE(ms.item_name, '')           AS item_name,
	    COALESCE(ms.item_category_name, '')  AS item_category,
	    ms.invoice_date,
	    ms.%s                                AS entity_id,
	    COALESCE(%s, 0)                      AS total_value
	%s
	GROUP BY %s
	ORDER BY ms.invoice_date, ms.item_name
	LIMIT %s OFFSET %s`,
		b.query.Level.Column(), b.valueExpr(), b.from(), b.tableGroup(), limitArg, offsetArg)
	return sql, args
}

// sanitizeTable cita el nombre (opcionalmente schema.tabla) de la tabla de hechos configurada.
func sanitizeTable(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}
