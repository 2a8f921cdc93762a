package report

import (
	"strconv"
	"time"
)

// Mode vista del pivote.
type Mode string

const (
	// ModeGranular columnas = periodos normalizados.
	ModeGranular Mode = "granular"
	// ModeDefault columnas = entidades del nivel resuelto.
	ModeDefault Mode = "default"
)

// BuildInput todo lo que necesita el constructor del pivote. Rows debe estar completo:
// los subtotales requieren una pasada entera.
type BuildInput struct {
	Mode        Mode
	Rows        []FactRow
	Level       ResolvedLevel
	Names       map[int64]string
	Granularity Granularity
	From        time.Time
	To          time.Time
	PerEntity   bool
	Rounding    Rounding
}

// Sheet pivote independiente de una entidad del nivel resuelto.
type Sheet struct {
	EntityID int64
	Name     string
	Matrix   *Matrix
}

// PivotReport resultado del motor: el resumen siempre, y una hoja por entidad
// cuando se pidió el desglose y el nivel tiene más de una entidad.
type PivotReport struct {
	Mode           Mode
	Granularity    Granularity
	Level          ResolvedLevel
	Summary        *Matrix
	Sheets         []Sheet
	DroppedPeriods int
}

// Build construye el pivote según el modo pedido.
func Build(in BuildInput) *PivotReport {
	if in.Mode == ModeDefault {
		return &PivotReport{
			Mode:    ModeDefault,
			Level:   in.Level,
			Summary: BuildDefault(in.Rows, in.Level, in.Names, in.Rounding),
		}
	}
	return buildGranular(in)
}

// BuildDefault pivote ítem × entidad. Las filas de entidades fuera del nivel se ignoran.
func BuildDefault(rows []FactRow, level ResolvedLevel, names map[int64]string, r Rounding) *Matrix {
	columns := make([]Column, 0, len(level.IDs))
	for _, id := range level.IDs {
		columns = append(columns, Column{Key: entityKey(id), Label: DisplayName(id, names)})
	}
	acc := NewAccumulator(columns)
	for _, row := range rows {
		if !level.Contains(row.EntityID) {
			continue
		}
		acc.Fold(itemKey(row), entityKey(row.EntityID), row.Value)
	}
	return acc.Finalize(r)
}

// BuildGranular pivote ítem × periodo sobre todas las filas, sin nivel que las acote.
func BuildGranular(rows []FactRow, g Granularity, from, to time.Time, r Rounding) *Matrix {
	return buildGranular(BuildInput{
		Mode: ModeGranular, Rows: rows, Granularity: g, From: from, To: to, Rounding: r,
	}).Summary
}

// buildGranular con nivel resuelto ignora, igual que BuildDefault, las filas de
// entidades fuera del nivel; así las hojas por entidad suman el resumen.
func buildGranular(in BuildInput) *PivotReport {
	norm := NewNormalizer(in.Granularity, in.From, in.To)

	// columnas: la ventana completa más cualquier bucket observado que no esté en ella
	buckets := Buckets(in.Granularity, in.From, in.To)
	seen := make(map[string]bool, len(buckets))
	for _, b := range buckets {
		seen[b.Key] = true
	}
	keys := make([]string, len(in.Rows))
	for i, row := range in.Rows {
		b, ok := norm.Bucket(row.Period)
		if !ok {
			continue
		}
		keys[i] = b.Key
		if !seen[b.Key] {
			seen[b.Key] = true
			buckets = append(buckets, b)
		}
	}
	SortBuckets(buckets)
	columns := make([]Column, len(buckets))
	for i, b := range buckets {
		columns[i] = Column{Key: b.Key, Label: b.Label}
	}

	fanOut := in.PerEntity && len(in.Level.IDs) > 1
	summary := NewAccumulator(columns)
	perEntity := make(map[int64]*Accumulator)
	if fanOut {
		for _, id := range in.Level.IDs {
			perEntity[id] = NewAccumulator(columns)
		}
	}

	scoped := len(in.Level.IDs) > 0
	for i, row := range in.Rows {
		if keys[i] == "" || (scoped && !in.Level.Contains(row.EntityID)) {
			continue
		}
		item := itemKey(row)
		summary.Fold(item, keys[i], row.Value)
		if acc, ok := perEntity[row.EntityID]; ok {
			acc.Fold(item, keys[i], row.Value)
		}
	}

	out := &PivotReport{
		Mode:           ModeGranular,
		Granularity:    in.Granularity,
		Level:          in.Level,
		Summary:        summary.Finalize(in.Rounding),
		DroppedPeriods: norm.Dropped(),
	}
	if fanOut {
		for _, id := range in.Level.IDs {
			out.Sheets = append(out.Sheets, Sheet{
				EntityID: id,
				Name:     DisplayName(id, in.Names),
				Matrix:   perEntity[id].Finalize(in.Rounding),
			})
		}
	}
	return out
}

func itemKey(row FactRow) ItemKey {
	return ItemKey{ItemID: row.ItemID, Name: row.ItemName, Category: row.Category}
}

func entityKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
