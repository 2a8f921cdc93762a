// Package csvfile exporta el consolidado del pivote como CSV plano.
package csvfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/jhoicas/reportes-ventas/internal/application/reporting"
)

var _ reporting.Renderer = (*Renderer)(nil)

// Renderer escribe sólo la matriz consolidada; las hojas por entidad son exclusivas de xlsx.
// Los valores van sin formato de miles, con punto decimal.
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

func (r *Renderer) Format() string      { return "csv" }
func (r *Renderer) ContentType() string { return "text/csv; charset=utf-8" }

func (r *Renderer) Render(_ context.Context, doc reporting.Document) ([]byte, error) {
	flat := reporting.FlattenMatrix(doc.Pivot.Summary)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Ítem", "Categoría"}
	for _, c := range flat.Columns {
		header = append(header, c.Label)
	}
	header = append(header, "Total")
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("csv: encabezado: %w", err)
	}

	separated := false
	for _, line := range flat.Rows {
		// fila en blanco entre los ítems y los totales, como en xlsx y pdf
		if line.Kind != "item" && !separated {
			separated = true
			if err := w.Write(make([]string, len(header))); err != nil {
				return nil, fmt.Errorf("csv: separador: %w", err)
			}
		}
		record := make([]string, 0, len(header))
		record = append(record, line.Name, line.Category)
		for _, v := range line.Cells {
			record = append(record, v.String())
		}
		record = append(record, line.Total.String())
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("csv: fila %q: %w", line.Name, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return buf.Bytes(), nil
}
