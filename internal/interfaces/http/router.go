package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reportes-ventas/internal/application/reporting"
	"github.com/jhoicas/reportes-ventas/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ReportUC *reporting.ReportUseCase
	Log      *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api", RequestLogger(log))

	// Reportes de ventas: :type = sales | customer | item
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Post("/:type/table", RequireReport(), reportHandler.Table)
	reports.Post("/:type/pivot", RequireReport(), reportHandler.Pivot)
	reports.Post("/:type/export", RequireReport(), reportHandler.Export)
}
