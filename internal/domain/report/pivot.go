package report

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ItemKey identifica una fila del pivote.
type ItemKey struct {
	ItemID   int64
	Name     string
	Category string
}

// Column columna del pivote: un periodo (vista granular) o una entidad (vista por defecto).
type Column struct {
	Key   string
	Label string
}

// Rounding escala decimal aplicada una sola vez al finalizar.
// El valor cero (Exact) no redondea.
type Rounding struct {
	places  int32
	enabled bool
}

// Exact deja los montos tal cual llegan del ejecutor.
var Exact = Rounding{}

// quantityPlaces decimales con los que se muestran las cantidades.
const quantityPlaces = 3

// RoundTo redondeo a places decimales.
func RoundTo(places int32) Rounding {
	return Rounding{places: places, enabled: true}
}

// RoundingFor cantidades a 3 decimales; montos sin redondeo.
func RoundingFor(mode ValueMode) Rounding {
	if mode == ValueAmount {
		return Exact
	}
	return RoundTo(quantityPlaces)
}

func (r Rounding) apply(d decimal.Decimal) decimal.Decimal {
	if !r.enabled {
		return d
	}
	return d.Round(r.places)
}

// MatrixRow fila de ítem con una celda por columna y su total.
type MatrixRow struct {
	Item  ItemKey
	Cells []decimal.Decimal
	Total decimal.Decimal
}

// Subtotal fila de subtotal de una categoría de ítem.
type Subtotal struct {
	Category string
	Cells    []decimal.Decimal
	Total    decimal.Decimal
}

// Matrix pivote ya finalizado. Orden: filas de ítem por (categoría, nombre, id),
// subtotales por categoría y la fila de gran total al final.
type Matrix struct {
	Columns    []Column
	Rows       []MatrixRow
	Subtotals  []Subtotal
	GrandCells []decimal.Decimal
	GrandTotal decimal.Decimal
}

// Empty indica si el pivote no tiene filas de ítem.
func (m *Matrix) Empty() bool { return len(m.Rows) == 0 }

// Accumulator acumula valores en celdas (ítem × columna) con precisión completa.
// Los subtotales y totales se calculan una sola vez en Finalize.
type Accumulator struct {
	columns []Column
	index   map[string]int
	cells   map[ItemKey][]decimal.Decimal
}

// NewAccumulator crea el acumulador para columnas ya ordenadas.
func NewAccumulator(columns []Column) *Accumulator {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c.Key] = i
	}
	return &Accumulator{
		columns: append([]Column(nil), columns...),
		index:   idx,
		cells:   make(map[ItemKey][]decimal.Decimal),
	}
}

// Fold suma v en la celda (item, column). Devuelve false si la columna no existe;
// en ese caso el ítem no se registra.
func (a *Accumulator) Fold(item ItemKey, column string, v decimal.Decimal) bool {
	i, ok := a.index[column]
	if !ok {
		return false
	}
	row, ok := a.cells[item]
	if !ok {
		row = make([]decimal.Decimal, len(a.columns))
		a.cells[item] = row
	}
	row[i] = row[i].Add(v)
	return true
}

// Finalize calcula totales por fila, subtotales por categoría y gran total.
// Cada celda hoja se redondea una vez con r y todos los totales se suman a partir de
// esas celdas ya redondeadas, así filas, subtotales y gran total cuadran entre sí.
func (a *Accumulator) Finalize(r Rounding) *Matrix {
	n := len(a.columns)
	keys := make([]ItemKey, 0, len(a.cells))
	for k := range a.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Category != keys[j].Category {
			return keys[i].Category < keys[j].Category
		}
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		return keys[i].ItemID < keys[j].ItemID
	})

	m := &Matrix{
		Columns: append([]Column(nil), a.columns...),
		Rows:    make([]MatrixRow, 0, len(keys)),
	}
	catCells := make(map[string][]decimal.Decimal)
	var categories []string
	grand := zeros(n)

	for _, k := range keys {
		cells := roundAll(a.cells[k], r)
		total := decimal.Zero
		sub, ok := catCells[k.Category]
		if !ok {
			sub = zeros(n)
			catCells[k.Category] = sub
			categories = append(categories, k.Category)
		}
		for i, v := range cells {
			total = total.Add(v)
			sub[i] = sub[i].Add(v)
			grand[i] = grand[i].Add(v)
		}
		m.Rows = append(m.Rows, MatrixRow{Item: k, Cells: cells, Total: total})
	}

	sort.Strings(categories)
	grandTotal := decimal.Zero
	for _, c := range categories {
		cells := catCells[c]
		total := decimal.Zero
		for _, v := range cells {
			total = total.Add(v)
		}
		grandTotal = grandTotal.Add(total)
		m.Subtotals = append(m.Subtotals, Subtotal{Category: c, Cells: cells, Total: total})
	}
	m.GrandCells = grand
	m.GrandTotal = grandTotal
	return m
}

func zeros(n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = decimal.Zero
	}
	return out
}

func roundAll(in []decimal.Decimal, r Rounding) []decimal.Decimal {
	out := make([]decimal.Decimal, len(in))
	for i, v := range in {
		out[i] = r.apply(v)
	}
	return out
}
