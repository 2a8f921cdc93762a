// Package xlsx escribe el pivote de ventas como libro de Excel: una hoja
// Summary con el consolidado y una hoja por entidad del nivel resuelto.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/reportes-ventas/internal/application/dto"
	"github.com/jhoicas/reportes-ventas/internal/application/reporting"
	"github.com/jhoicas/reportes-ventas/internal/domain/report"
)

var _ reporting.Renderer = (*Renderer)(nil)

// SummarySheet nombre de la hoja consolidada.
const SummarySheet = "Summary"

const (
	colorHeader   = "337A2C"
	colorCategory = "2E7D32"
	colorGrand    = "C62828"
	numberFormat  = "#,##0.00"
	columnWidth   = 15
)

// Renderer implementa reporting.Renderer con excelize.
type Renderer struct {
	sheetNameMax int
}

// NewRenderer construye el renderer; sheetNameMax <= 0 usa el límite de Excel (31).
func NewRenderer(sheetNameMax int) *Renderer {
	return &Renderer{sheetNameMax: sheetNameMax}
}

func (r *Renderer) Format() string { return "xlsx" }

func (r *Renderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

type styles struct {
	header, number, category, categoryNum, grand, grandNum int
}

// Render genera el libro completo en memoria.
func (r *Renderer) Render(ctx context.Context, doc reporting.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilos: %w", err)
	}

	namer := newSheetNamer(r.sheetNameMax)
	summary := namer.Name(SummarySheet)
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, fmt.Errorf("xlsx: hoja %s: %w", summary, err)
	}
	if err := writeMatrix(f, summary, doc.Pivot.Summary, st); err != nil {
		return nil, err
	}

	for _, sheet := range doc.Pivot.Sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := namer.Name(sheet.Name)
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("xlsx: hoja %s: %w", name, err)
		}
		if err := writeMatrix(f, name, sheet.Matrix, st); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func newStyles(f *excelize.File) (styles, error) {
	numFmt := numberFormat
	defs := []*excelize.Style{
		{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{colorHeader}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		},
		{CustomNumFmt: &numFmt},
		{Font: &excelize.Font{Bold: true, Color: colorCategory}},
		{Font: &excelize.Font{Bold: true, Color: colorCategory}, CustomNumFmt: &numFmt},
		{Font: &excelize.Font{Bold: true, Color: colorGrand}},
		{Font: &excelize.Font{Bold: true, Color: colorGrand}, CustomNumFmt: &numFmt},
	}
	ids := make([]int, len(defs))
	for i, d := range defs {
		id, err := f.NewStyle(d)
		if err != nil {
			return styles{}, err
		}
		ids[i] = id
	}
	return styles{
		header: ids[0], number: ids[1],
		category: ids[2], categoryNum: ids[3],
		grand: ids[4], grandNum: ids[5],
	}, nil
}

// writeMatrix escribe encabezado, filas de ítem, subtotales (tras una fila en blanco) y gran total.
func writeMatrix(f *excelize.File, sheet string, m *report.Matrix, st styles) error {
	flat := reporting.FlattenMatrix(m)
	lastCol := len(flat.Columns) + 3 // Ítem, Categoría, periodos…, Total

	header := make([]any, 0, lastCol)
	header = append(header, "Ítem", "Categoría")
	for _, c := range flat.Columns {
		header = append(header, c.Label)
	}
	header = append(header, "Total")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: encabezado %s: %w", sheet, err)
	}
	if err := styleRow(f, sheet, 1, 1, len(header), st.header); err != nil {
		return err
	}

	rowNum := 2
	blankDone := false
	for _, line := range flat.Rows {
		if line.Kind != "item" && !blankDone {
			rowNum++ // fila en blanco antes de los totales
			blankDone = true
		}
		values := make([]any, 0, len(header))
		switch line.Kind {
		case "item":
			values = append(values, line.Name, line.Category)
		default:
			values = append(values, line.Name, "")
		}
		for _, v := range line.Cells {
			values = append(values, v.InexactFloat64())
		}
		values = append(values, line.Total.InexactFloat64())

		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("xlsx: fila %d de %s: %w", rowNum, sheet, err)
		}
		labelStyle, numStyle := rowStyles(line, st)
		if labelStyle != 0 {
			if err := styleRow(f, sheet, rowNum, 1, 2, labelStyle); err != nil {
				return err
			}
		}
		if err := styleRow(f, sheet, rowNum, 3, len(values), numStyle); err != nil {
			return err
		}
		rowNum++
	}

	lastName, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastName, columnWidth); err != nil {
		return fmt.Errorf("xlsx: ancho de columnas %s: %w", sheet, err)
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze: true, XSplit: 2, YSplit: 1, TopLeftCell: "C2", ActivePane: "bottomRight",
	})
}

func rowStyles(line dto.PivotRowDTO, st styles) (label, number int) {
	switch line.Kind {
	case "subtotal":
		return st.category, st.categoryNum
	case "grand":
		return st.grand, st.grandNum
	default:
		return 0, st.number
	}
}

func styleRow(f *excelize.File, sheet string, row, fromCol, toCol, style int) error {
	if toCol < fromCol {
		return nil
	}
	from, err := excelize.CoordinatesToCellName(fromCol, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}
