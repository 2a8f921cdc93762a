package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/reportes-ventas/internal/application/reporting"
	"github.com/jhoicas/reportes-ventas/internal/infrastructure/csvfile"
	infrapdf "github.com/jhoicas/reportes-ventas/internal/infrastructure/pdf"
	"github.com/jhoicas/reportes-ventas/internal/infrastructure/postgres"
	"github.com/jhoicas/reportes-ventas/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/reportes-ventas/internal/interfaces/http"
	"github.com/jhoicas/reportes-ventas/pkg/config"
	"github.com/jhoicas/reportes-ventas/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("fact_table", cfg.Report.FactTable).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	factRepo := postgres.NewFactRepository(pool, cfg.Report.FactTable)
	nameRepo := postgres.NewNameRepository(pool)

	// El primer renderer es el formato por defecto de /export.
	reportUC := reporting.NewReportUseCase(factRepo, nameRepo, log, reporting.Options{
		RowsPerPage:      cfg.Report.RowsPerPage,
		DefaultCompanyID: cfg.Report.DefaultCompanyID,
		QueryTimeout:     cfg.Report.QueryTimeout,
	},
		xlsx.NewRenderer(cfg.Report.SheetNameMax),
		csvfile.NewRenderer(),
		infrapdf.NewMarotoRenderer(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Report.QueryTimeout + 30*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: cfg.Report.SwaggerFile,
		Path:     "docs",
		Title:    "Reportes de Ventas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_unavailable", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ReportUC: reportUC,
		Log:      log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
