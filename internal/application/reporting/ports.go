package reporting

import (
	"context"
	"time"

	"github.com/jhoicas/reportes-ventas/internal/domain/report"
)

// Document lo que recibe un renderizador de exportación: el pivote ya construido y su contexto.
type Document struct {
	Report    string // sales | customer | item
	Title     string
	From      time.Time
	To        time.Time
	ValueMode report.ValueMode
	Pivot     *report.PivotReport
}

// Renderer genera el archivo de exportación en un formato concreto (xlsx, csv, pdf).
type Renderer interface {
	Format() string
	ContentType() string
	Render(ctx context.Context, doc Document) ([]byte, error)
}

// ExportFile archivo listo para devolver al cliente.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
