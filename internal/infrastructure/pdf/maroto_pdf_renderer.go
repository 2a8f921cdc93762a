// Package pdf genera la versión imprimible del consolidado de ventas.
//
// Layout de la página A4 horizontal:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título del reporte  │  rango de fechas + nivel     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Ítem | Categoría | periodo… | Total                  │
//	│  SUBTOTALES por categoría (verde)                            │
//	│  TOTAL GENERAL (rojo)                                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/reportes-ventas/internal/application/dto"
	"github.com/jhoicas/reportes-ventas/internal/application/reporting"
	"github.com/jhoicas/reportes-ventas/internal/domain/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 51, Green: 122, Blue: 44}
	colorCategory = &props.Color{Red: 46, Green: 125, Blue: 50}
	colorGrand    = &props.Color{Red: 198, Green: 40, Blue: 40}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite    = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// Anchos en la grilla: ítem y categoría fijos, una unidad por periodo y el total.
const (
	itemCols     = 4
	categoryCols = 2
	totalCols    = 2
)

var _ reporting.Renderer = (*MarotoRenderer)(nil)

// MarotoRenderer implementa reporting.Renderer usando Maroto v2.
type MarotoRenderer struct{}

// NewMarotoRenderer construye el renderer.
func NewMarotoRenderer() *MarotoRenderer { return &MarotoRenderer{} }

func (g *MarotoRenderer) Format() string      { return "pdf" }
func (g *MarotoRenderer) ContentType() string { return "application/pdf" }

// Render genera el PDF del consolidado y devuelve sus bytes.
func (g *MarotoRenderer) Render(_ context.Context, doc reporting.Document) ([]byte, error) {
	flat := reporting.FlattenMatrix(doc.Pivot.Summary)
	grid := itemCols + categoryCols + len(flat.Columns) + totalCols
	title := cases.Upper(language.Spanish).String("reporte de " + nonEmpty(doc.Title, "ventas"))

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithMaxGridSize(grid).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: fontSize(len(flat.Columns))}).
		WithTitle(title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(title, doc, grid))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow(flat.Columns))
	for _, r := range bodyRows(flat.Rows) {
		m.AddRows(r)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y rango + nivel (der).
func headerRow(title string, doc reporting.Document, grid int) core.Row {
	left := grid * 7 / 12
	level := ""
	if doc.Pivot != nil {
		level = fmt.Sprintf("Nivel: %s (%d)", doc.Pivot.Level.Facet, len(doc.Pivot.Level.IDs))
	}
	return row.New(16).Add(
		col.New(left).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Valores: "+valueModeLabel(doc.ValueMode), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(grid-left).Add(
			text.New(fmt.Sprintf("Del %s al %s",
				doc.From.Format("02/01/2006"), doc.To.Format("02/01/2006"),
			), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1}),
			text.New(level, props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera con fondo verde y texto blanco.
func tableHeaderRow(columns []dto.PivotColumnDTO) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Align: a,
			Color: colorWhite, Top: 1.5, Left: 0.5, Right: 0.5,
		}))
	}
	cols := []core.Col{
		h("Ítem", itemCols, align.Left),
		h("Categoría", categoryCols, align.Left),
	}
	for _, c := range columns {
		cols = append(cols, h(c.Label, 1, align.Center))
	}
	cols = append(cols, h("Total", totalCols, align.Right))
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// bodyRows: ítems, subtotales por categoría y total general.
func bodyRows(lines []dto.PivotRowDTO) []core.Row {
	result := make([]core.Row, 0, len(lines)+1)
	blankDone := false
	for _, l := range lines {
		if l.Kind != "item" && !blankDone {
			result = append(result, row.New(3))
			blankDone = true
		}
		style := props.Text{Align: align.Right, Top: 1, Right: 0.5}
		labelStyle := props.Text{Align: align.Left, Top: 1, Left: 0.5}
		switch l.Kind {
		case "subtotal":
			style.Style, style.Color = fontstyle.Bold, colorCategory
			labelStyle.Style, labelStyle.Color = fontstyle.Bold, colorCategory
		case "grand":
			style.Style, style.Color = fontstyle.Bold, colorGrand
			labelStyle.Style, labelStyle.Color = fontstyle.Bold, colorGrand
		}

		cols := []core.Col{
			col.New(itemCols).Add(text.New(l.Name, labelStyle)),
			col.New(categoryCols).Add(text.New(categoryLabel(l), labelStyle)),
		}
		for _, v := range l.Cells {
			cols = append(cols, col.New(1).Add(text.New(formatNumber(v), style)))
		}
		cols = append(cols, col.New(totalCols).Add(text.New(formatNumber(l.Total), style)))
		result = append(result, row.New(6).Add(cols...))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func categoryLabel(l dto.PivotRowDTO) string {
	if l.Kind == "item" {
		return l.Category
	}
	return ""
}

func valueModeLabel(m report.ValueMode) string {
	if m == report.ValueAmount {
		return "monto"
	}
	return "cantidad"
}

// fontSize achica la letra cuando hay muchas columnas de periodo.
func fontSize(columns int) float64 {
	switch {
	case columns > 20:
		return 5
	case columns > 12:
		return 6
	default:
		return 7.5
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatNumber formato local con dos decimales: 1234567.891 → "1.234.567,89".
func formatNumber(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	return sign + formatMoney(intPart) + "," + frac
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
