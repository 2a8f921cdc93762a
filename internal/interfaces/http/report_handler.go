package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reportes-ventas/internal/application/dto"
	"github.com/jhoicas/reportes-ventas/internal/application/reporting"
	"github.com/jhoicas/reportes-ventas/internal/domain"
)

// ReportHandler maneja los endpoints del motor de reportes de ventas.
type ReportHandler struct {
	uc *reporting.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reporting.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Table godoc
// @Summary      Vista tabular paginada del reporte
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        type  path   string             true   "sales | customer | item"
// @Param        page  query  int                false  "Página (desde 1)"
// @Param        body  body   dto.ReportRequest  true   "Filtros"
// @Success      200  {object}  dto.TablePageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/{type}/table [post]
func (h *ReportHandler) Table(c *fiber.Ctx) error {
	var req dto.ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code: "VALIDATION", Message: "page debe ser un entero",
				Fields: map[string]string{"page": "page debe ser un entero"},
			})
		}
		page = n
	}

	baseURL := c.BaseURL() + c.Path()
	resp, err := h.uc.Table(c.UserContext(), c.Params("type"), req, page, baseURL)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Pivot godoc
// @Summary      Pivote ítem × periodo (o ítem × entidad) en JSON
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        type  path  string             true  "sales | customer | item"
// @Param        body  body  dto.ExportRequest  true  "Filtros y vista"
// @Success      200  {object}  dto.PivotResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/{type}/pivot [post]
func (h *ReportHandler) Pivot(c *fiber.Ctx) error {
	var req dto.ExportRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	resp, err := h.uc.Pivot(c.UserContext(), c.Params("type"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Export godoc
// @Summary      Exporta el pivote a xlsx, csv o pdf
// @Tags         reports
// @Accept       json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Produce      application/pdf
// @Param        type  path  string             true  "sales | customer | item"
// @Param        body  body  dto.ExportRequest  true  "Filtros, vista y formato"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/{type}/export [post]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	var req dto.ExportRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	file, err := h.uc.Export(c.UserContext(), c.Params("type"), req)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	return c.Send(file.Content)
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code: "INVALID_BODY", Message: "cuerpo JSON inválido",
	})
}

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var verr *reporting.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: verr.Error(), Fields: verr.Fields,
		})
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: err.Error(),
		})
	case errors.Is(err, domain.ErrReportNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code: "NOT_FOUND", Message: err.Error(),
		})
	case errors.Is(err, domain.ErrQueryTimeout):
		return c.Status(fiber.StatusGatewayTimeout).JSON(dto.ErrorResponse{
			Code: "TIMEOUT", Message: "la consulta del reporte excedió el tiempo máximo",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: "error interno al generar el reporte",
		})
	}
}
