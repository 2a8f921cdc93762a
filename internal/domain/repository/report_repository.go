package repository

import (
	"context"

	"github.com/jhoicas/reportes-ventas/internal/domain/report"
)

// FactRepository ejecutor de consultas sobre la tabla de hechos de ventas.
// Las implementaciones son read-only y reciben restricciones declarativas
// (report.FactQuery); nunca texto de consulta armado por el llamador.
type FactRepository interface {
	// FetchFacts devuelve las filas agregadas por (entidad del nivel, ítem, periodo).
	// Si q.Granularity está vacío, agrega sin columna de periodo.
	FetchFacts(ctx context.Context, q report.FactQuery) ([]report.FactRow, error)

	// FetchTablePage devuelve una página de filas planas (ítem, fecha, entidad) y el
	// total de filas de la consulta sin paginar.
	FetchTablePage(ctx context.Context, q report.FactQuery, limit, offset int) ([]report.TableRow, int, error)
}

// NameRepository resuelve en lote ids de una faceta a nombres visibles.
// Puede devolver un mapa parcial; los ids faltantes los completa el motor.
type NameRepository interface {
	ResolveNames(ctx context.Context, facet report.Facet, ids []int64) (map[int64]string, error)
}
