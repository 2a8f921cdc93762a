package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// FactRow fila agregada que devuelve el ejecutor de hechos.
// Value puede ser cero o negativo: se suma y se muestra igual.
type FactRow struct {
	EntityID int64
	ItemID   int64
	ItemName string // "{código} - {nombre}"
	Category string
	Period   string // clave cruda del periodo; vacía en la vista por defecto
	Value    decimal.Decimal
}

// FactQuery lo que el motor le pide al ejecutor: rango, nivel, todas las
// restricciones activas y (opcional) la granularidad con la que agrupar periodos.
type FactQuery struct {
	Filters     FilterSelection
	Level       ResolvedLevel
	Granularity Granularity // "" = sin columna de periodo (vista por defecto)
}

// Constraints restricciones activas más el nivel resuelto cuando su faceta no
// está ya filtrada (caso del fallback a la empresa por defecto).
func (q FactQuery) Constraints() []Constraint {
	cs := q.Filters.Constraints()
	if q.Level.Facet != "" && !q.Filters.Has(q.Level.Facet) {
		cs = append(cs, Constraint{
			Facet:  q.Level.Facet,
			Column: q.Level.Column(),
			IDs:    append([]int64(nil), q.Level.IDs...),
		})
	}
	return cs
}

// TableRow fila plana de la vista tabular paginada.
type TableRow struct {
	ItemCode string
	ItemName string
	Category string
	Date     time.Time
	EntityID int64
	Value    decimal.Decimal
}

// ItemDisplayName nombre del ítem como se muestra en las hojas: "{código} - {nombre}".
func ItemDisplayName(code, name string) string {
	if code == "" {
		return name
	}
	return code + " - " + name
}
