// Package reporting contiene los casos de uso del motor de reportes de ventas:
// vista tabular paginada, pivote en JSON y exportación a archivo.
//
// Flujo de cada corrida:
//
//	request → validación → nivel resuelto → hechos ∥ nombres → pivote → renderer
package reporting

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/reportes-ventas/internal/application/dto"
	"github.com/jhoicas/reportes-ventas/internal/domain/report"
	"github.com/jhoicas/reportes-ventas/internal/domain/repository"
	"github.com/jhoicas/reportes-ventas/pkg/logger"
)

// Options parámetros del motor que vienen de configuración.
type Options struct {
	RowsPerPage      int
	DefaultCompanyID int64
	QueryTimeout     time.Duration
}

// ReportUseCase orquesta resolución de nivel, consultas y construcción del pivote.
// No guarda estado entre requests.
type ReportUseCase struct {
	facts     repository.FactRepository
	names     repository.NameRepository
	renderers map[string]Renderer
	opts      Options
	log       *logger.Logger
	validate  *validator.Validate
}

// NewReportUseCase construye el caso de uso. El primer renderer es el formato por defecto.
func NewReportUseCase(
	facts repository.FactRepository,
	names repository.NameRepository,
	log *logger.Logger,
	opts Options,
	renderers ...Renderer,
) *ReportUseCase {
	if opts.RowsPerPage <= 0 {
		opts.RowsPerPage = 50
	}
	if opts.DefaultCompanyID <= 0 {
		opts.DefaultCompanyID = report.DefaultCompanyID
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = time.Minute
	}
	byFormat := make(map[string]Renderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Format()] = r
	}
	return &ReportUseCase{
		facts:     facts,
		names:     names,
		renderers: byFormat,
		opts:      opts,
		log:       log,
		validate:  newValidator(),
	}
}

// run una corrida del motor: selección ya validada → pivote.
type run struct {
	rt        report.ReportType
	filters   report.FilterSelection
	dataview  string
	perEntity bool
	log       *logger.Logger
}

// Pivot devuelve el pivote en JSON.
func (uc *ReportUseCase) Pivot(ctx context.Context, reportName string, req dto.ExportRequest) (*dto.PivotResponse, error) {
	r, err := uc.prepare(ctx, reportName, req)
	if err != nil {
		return nil, err
	}
	pivot, err := uc.build(ctx, r)
	if err != nil {
		return nil, err
	}
	return toPivotResponse(r, pivot), nil
}

// Export construye el pivote y lo renderiza en el formato pedido (xlsx por defecto).
func (uc *ReportUseCase) Export(ctx context.Context, reportName string, req dto.ExportRequest) (*ExportFile, error) {
	r, err := uc.prepare(ctx, reportName, req)
	if err != nil {
		return nil, err
	}
	format := req.FileType
	if format == "" {
		format = "xlsx"
	}
	renderer, ok := uc.renderers[format]
	if !ok {
		return nil, fieldError("file_type", fmt.Sprintf("file_type %q no disponible", format))
	}

	pivot, err := uc.build(ctx, r)
	if err != nil {
		return nil, err
	}

	content, err := renderer.Render(ctx, Document{
		Report:    r.rt.Name,
		Title:     r.rt.Title,
		From:      r.filters.From,
		To:        r.filters.To,
		ValueMode: r.filters.ValueMode,
		Pivot:     pivot,
	})
	if err != nil {
		return nil, fmt.Errorf("reporting: renderizar %s: %w", format, err)
	}

	r.log.Info().
		Str("file_type", format).
		Int("bytes", len(content)).
		Msg("reporte exportado")

	return &ExportFile{
		Filename:    ExportFilename(r.filters.From, r.filters.To, format),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

// ExportFilename Sales_Report_{desde}_to_{hasta}.{ext}
func ExportFilename(from, to time.Time, ext string) string {
	return fmt.Sprintf("Sales_Report_%s_to_%s.%s", from.Format(report.DateLayout), to.Format(report.DateLayout), ext)
}

// Table devuelve una página de la vista tabular. page empieza en 1; baseURL se usa
// para armar next_page y previous_page.
func (uc *ReportUseCase) Table(
	ctx context.Context,
	reportName string,
	req dto.ReportRequest,
	page int,
	baseURL string,
) (*dto.TablePageResponse, error) {
	if _, err := report.LookupReport(reportName); err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, fieldError("page", "page debe ser mayor o igual a 1")
	}
	if err := validateStruct(uc.validate, req); err != nil {
		return nil, err
	}
	filters, err := toFilterSelection(req)
	if err != nil {
		return nil, err
	}

	level := report.Resolve(filters, report.TablePrecedence, []int64{uc.opts.DefaultCompanyID})
	query := report.FactQuery{Filters: filters, Level: level}
	perPage := uc.opts.RowsPerPage

	ctx, cancel := context.WithTimeout(ctx, uc.opts.QueryTimeout)
	defer cancel()

	var (
		rows  []report.TableRow
		total int
		names map[int64]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, total, err = uc.facts.FetchTablePage(gctx, query, perPage, (page-1)*perPage)
		if err != nil {
			return fmt.Errorf("reporting: tabla: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		names = uc.lookupNames(gctx, uc.requestLog(ctx), level)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totalPages := (total + perPage - 1) / perPage
	resp := &dto.TablePageResponse{
		TotalRows:   total,
		TotalPages:  totalPages,
		CurrentPage: page,
		Rows:        make([]dto.TableRowDTO, 0, len(rows)),
	}
	if page < totalPages {
		resp.NextPage = pageLink(baseURL, page+1)
	}
	if page > 1 {
		resp.PreviousPage = pageLink(baseURL, min(page-1, max(totalPages, 1)))
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, dto.TableRowDTO{
			ItemCode:     row.ItemCode,
			ItemName:     row.ItemName,
			ItemCategory: row.Category,
			Date:         row.Date.Format(report.DateLayout),
			Level:        string(level.Facet),
			EntityID:     row.EntityID,
			EntityName:   report.DisplayName(row.EntityID, names),
			Value:        row.Value,
		})
	}
	return resp, nil
}

func pageLink(baseURL string, page int) *string {
	if baseURL == "" {
		s := "?page=" + strconv.Itoa(page)
		return &s
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		s := baseURL + "?page=" + strconv.Itoa(page)
		return &s
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

// requestLog sublogger con el request id del contexto, si lo hay.
func (uc *ReportUseCase) requestLog(ctx context.Context) *logger.Logger {
	if id := logger.RequestID(ctx); id != "" {
		return uc.log.Child(map[string]any{"request_id": id})
	}
	return uc.log
}

func (uc *ReportUseCase) prepare(ctx context.Context, reportName string, req dto.ExportRequest) (run, error) {
	rt, err := report.LookupReport(reportName)
	if err != nil {
		return run{}, err
	}
	if err := validateStruct(uc.validate, req); err != nil {
		return run{}, err
	}
	filters, err := toFilterSelection(req.ReportRequest)
	if err != nil {
		return run{}, err
	}
	perEntity := true
	if req.PerEntity != nil {
		perEntity = *req.PerEntity
	}
	return run{
		rt:        rt,
		filters:   filters,
		dataview:  req.Dataview,
		perEntity: perEntity,
		log:       uc.requestLog(ctx).Child(map[string]any{"run_id": uuid.NewString(), "report": rt.Name}),
	}, nil
}

// build resuelve el nivel, consulta hechos y nombres en paralelo y arma el pivote.
// Un error de hechos aborta la corrida; un error de nombres degrada a ids.
func (uc *ReportUseCase) build(ctx context.Context, r run) (*report.PivotReport, error) {
	started := time.Now()
	level := report.Resolve(r.filters, r.rt.Precedence, []int64{uc.opts.DefaultCompanyID})

	mode := report.ModeGranular
	var granularity report.Granularity
	switch r.dataview {
	case "":
		granularity = report.Choose(r.filters.From, r.filters.To)
	case string(report.ModeDefault):
		mode = report.ModeDefault
	default:
		g, err := report.ParseGranularity(r.dataview)
		if err != nil {
			return nil, fieldError("dataview", err.Error())
		}
		granularity = g
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.QueryTimeout)
	defer cancel()

	var (
		rows  []report.FactRow
		names map[int64]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = uc.facts.FetchFacts(gctx, report.FactQuery{
			Filters:     r.filters,
			Level:       level,
			Granularity: granularity,
		})
		if err != nil {
			return fmt.Errorf("reporting: hechos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		names = uc.lookupNames(gctx, r.log, level)
		return nil
	})
	if err := g.Wait(); err != nil {
		r.log.Error().Err(err).Msg("corrida de reporte fallida")
		return nil, err
	}

	pivot := report.Build(report.BuildInput{
		Mode:        mode,
		Rows:        rows,
		Level:       level,
		Names:       names,
		Granularity: granularity,
		From:        r.filters.From,
		To:          r.filters.To,
		PerEntity:   r.perEntity,
		Rounding:    report.RoundingFor(r.filters.ValueMode),
	})

	r.log.Info().
		Str("level", string(level.Facet)).
		Ints64("level_ids", level.IDs).
		Str("mode", string(mode)).
		Str("granularity", string(granularity)).
		Int("fact_rows", len(rows)).
		Int("dropped_periods", pivot.DroppedPeriods).
		Dur("elapsed", time.Since(started)).
		Msg("pivote construido")

	return pivot, nil
}

// lookupNames nunca falla: ante error registra un warn y deja que las etiquetas caigan a ids.
func (uc *ReportUseCase) lookupNames(ctx context.Context, log *logger.Logger, level report.ResolvedLevel) map[int64]string {
	partial, err := uc.names.ResolveNames(ctx, level.Facet, level.IDs)
	if err != nil {
		log.Warn().Err(err).Str("facet", string(level.Facet)).Msg("nombres no disponibles, se usan ids")
		partial = nil
	}
	return report.DisplayNames(level.IDs, partial)
}
