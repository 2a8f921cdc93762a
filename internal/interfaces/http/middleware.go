package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/reportes-ventas/internal/application/dto"
	"github.com/jhoicas/reportes-ventas/internal/domain/report"
	"github.com/jhoicas/reportes-ventas/pkg/logger"
)

// RequireReport verifica que :type sea un reporte conocido antes de parsear el cuerpo.
// Responde 404 si no existe.
func RequireReport() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := report.LookupReport(c.Params("type")); err != nil {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Code:    "NOT_FOUND",
				Message: err.Error(),
			})
		}
		return c.Next()
	}
}

// RequestLogger asigna un request id (X-Request-ID si viene, si no uno nuevo) y
// registra método, ruta, estado y latencia de cada request. El id viaja en
// c.UserContext() hacia los casos de uso.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := c.Get(fiber.HeaderXRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.SetUserContext(logger.WithRequestID(c.UserContext(), reqID))
		c.Set(fiber.HeaderXRequestID, reqID)

		err := c.Next()

		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("request_id", reqID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}
