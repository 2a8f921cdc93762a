package reporting

import (
	"github.com/jhoicas/reportes-ventas/internal/application/dto"
	"github.com/jhoicas/reportes-ventas/internal/domain/report"
)

// Etiquetas de las filas de totales.
const (
	GrandTotalLabel     = "Total General"
	subtotalLabelPrefix = "Total "
)

func toPivotResponse(r run, p *report.PivotReport) *dto.PivotResponse {
	resp := &dto.PivotResponse{
		Report: r.rt.Name,
		Period: dto.PeriodDTO{
			StartDate: r.filters.From.Format(report.DateLayout),
			EndDate:   r.filters.To.Format(report.DateLayout),
		},
		Mode:           string(p.Mode),
		Granularity:    string(p.Granularity),
		Level:          string(p.Level.Facet),
		LevelIDs:       p.Level.IDs,
		Summary:        FlattenMatrix(p.Summary),
		DroppedPeriods: p.DroppedPeriods,
	}
	for _, s := range p.Sheets {
		resp.Sheets = append(resp.Sheets, dto.PivotSheetDTO{
			EntityID: s.EntityID,
			Name:     s.Name,
			Matrix:   FlattenMatrix(s.Matrix),
		})
	}
	return resp
}

// FlattenMatrix aplana la matriz en el orden de salida: ítems, subtotales, gran total.
// Es la misma secuencia de filas que escriben los renderers.
func FlattenMatrix(m *report.Matrix) dto.PivotMatrixDTO {
	out := dto.PivotMatrixDTO{
		Columns: make([]dto.PivotColumnDTO, 0, len(m.Columns)),
		Rows:    make([]dto.PivotRowDTO, 0, len(m.Rows)+len(m.Subtotals)+1),
	}
	for _, c := range m.Columns {
		out.Columns = append(out.Columns, dto.PivotColumnDTO{Key: c.Key, Label: c.Label})
	}
	for _, row := range m.Rows {
		out.Rows = append(out.Rows, dto.PivotRowDTO{
			Kind:     "item",
			ItemID:   row.Item.ItemID,
			Name:     row.Item.Name,
			Category: row.Item.Category,
			Cells:    row.Cells,
			Total:    row.Total,
		})
	}
	for _, st := range m.Subtotals {
		out.Rows = append(out.Rows, dto.PivotRowDTO{
			Kind:     "subtotal",
			Name:     subtotalLabelPrefix + st.Category,
			Category: st.Category,
			Cells:    st.Cells,
			Total:    st.Total,
		})
	}
	out.Rows = append(out.Rows, dto.PivotRowDTO{
		Kind:  "grand",
		Name:  GrandTotalLabel,
		Cells: m.GrandCells,
		Total: m.GrandTotal,
	})
	return out
}
