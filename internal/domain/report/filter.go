package report

import (
	"fmt"
	"time"

	"github.com/jhoicas/reportes-ventas/internal/domain"
)

// DateLayout formato ISO de las fechas recibidas por la API.
const DateLayout = "2006-01-02"

// ValueMode indica si el reporte suma cantidades o montos.
type ValueMode string

const (
	ValueQuantity ValueMode = "quantity"
	ValueAmount   ValueMode = "amount"
)

// FreeGoodMode indica si se incluyen las líneas bonificadas (monto cero, cantidad > 0).
type FreeGoodMode string

const (
	FreeGoodInclude FreeGoodMode = "include"
	FreeGoodExclude FreeGoodMode = "exclude"
)

// FilterSelection selección de filtros de un reporte. Es inmutable: los accesores
// devuelven copias y las listas vacías se tratan como ausentes.
type FilterSelection struct {
	From         time.Time
	To           time.Time
	ValueMode    ValueMode
	FreeGoodMode FreeGoodMode
	ids          map[Facet][]int64
}

// Constraint restricción declarativa que el ejecutor de hechos traduce a su lenguaje de consulta.
type Constraint struct {
	Facet  Facet
	Column string
	IDs    []int64
}

// NewFilterSelection construye la selección normalizando fechas a día civil (UTC)
// y copiando las listas de ids. Facetas desconocidas devuelven ErrValidation.
func NewFilterSelection(
	from, to time.Time,
	valueMode ValueMode,
	freeGood FreeGoodMode,
	ids map[Facet][]int64,
) (FilterSelection, error) {
	if valueMode == "" {
		valueMode = ValueQuantity
	}
	if freeGood == "" {
		freeGood = FreeGoodInclude
	}
	f := FilterSelection{
		From:         CivilDate(from),
		To:           CivilDate(to),
		ValueMode:    valueMode,
		FreeGoodMode: freeGood,
		ids:          make(map[Facet][]int64, len(ids)),
	}
	for facet, list := range ids {
		if !facet.Valid() {
			return FilterSelection{}, fmt.Errorf("%w: faceta desconocida %q", domain.ErrValidation, facet)
		}
		if len(list) == 0 {
			continue
		}
		f.ids[facet] = append([]int64(nil), list...)
	}
	return f, nil
}

// IDs devuelve una copia de la lista de ids de la faceta (nil si no hay filtro).
func (f FilterSelection) IDs(facet Facet) []int64 {
	list := f.ids[facet]
	if len(list) == 0 {
		return nil
	}
	return append([]int64(nil), list...)
}

// Has indica si la faceta tiene al menos un id seleccionado.
func (f FilterSelection) Has(facet Facet) bool {
	return len(f.ids[facet]) > 0
}

// Constraints lista todas las facetas activas en el orden de la jerarquía,
// independientemente del nivel resuelto.
func (f FilterSelection) Constraints() []Constraint {
	var out []Constraint
	for _, facet := range AllFacets() {
		if list := f.IDs(facet); list != nil {
			out = append(out, Constraint{Facet: facet, Column: facet.Column(), IDs: list})
		}
	}
	return out
}

// Days número de días del rango, ambos extremos incluidos.
func (f FilterSelection) Days() int {
	return DaysInclusive(f.From, f.To)
}

// CivilDate trunca t a medianoche UTC conservando año, mes y día.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate interpreta una fecha YYYY-MM-DD como día civil.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return CivilDate(t), nil
}

// DaysInclusive días entre from y to contando ambos extremos (puede ser <= 0 si el rango está invertido).
func DaysInclusive(from, to time.Time) int {
	return int(CivilDate(to).Sub(CivilDate(from)).Hours()/24) + 1
}
