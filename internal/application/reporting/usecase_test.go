package reporting_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reportes-ventas/internal/application/dto"
	"github.com/jhoicas/reportes-ventas/internal/application/reporting"
	"github.com/jhoicas/reportes-ventas/internal/domain"
	"github.com/jhoicas/reportes-ventas/internal/domain/report"
	"github.com/jhoicas/reportes-ventas/pkg/logger"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeFacts struct {
	mu        sync.Mutex
	rows      []report.FactRow
	tableRows []report.TableRow
	total     int
	err       error
	queries   []report.FactQuery
	limit     int
	offset    int
}

func (f *fakeFacts) FetchFacts(_ context.Context, q report.FactQuery) ([]report.FactRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.rows, f.err
}

func (f *fakeFacts) FetchTablePage(_ context.Context, q report.FactQuery, limit, offset int) ([]report.TableRow, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	f.limit, f.offset = limit, offset
	return f.tableRows, f.total, f.err
}

type fakeNames struct {
	names map[int64]string
	err   error
}

func (n *fakeNames) ResolveNames(_ context.Context, _ report.Facet, _ []int64) (map[int64]string, error) {
	return n.names, n.err
}

type fakeRenderer struct {
	format string
	got    reporting.Document
}

func (r *fakeRenderer) Format() string      { return r.format }
func (r *fakeRenderer) ContentType() string { return "application/test" }
func (r *fakeRenderer) Render(_ context.Context, doc reporting.Document) ([]byte, error) {
	r.got = doc
	return []byte("ok"), nil
}

func newUseCase(facts *fakeFacts, names *fakeNames, renderers ...reporting.Renderer) *reporting.ReportUseCase {
	return reporting.NewReportUseCase(facts, names, logger.Nop(), reporting.Options{
		RowsPerPage:      50,
		DefaultCompanyID: 1,
		QueryTimeout:     time.Second,
	}, renderers...)
}

func exportReq(from, to string) dto.ExportRequest {
	return dto.ExportRequest{ReportRequest: dto.ReportRequest{FromDate: from, ToDate: to}}
}

func fact(entity, item int64, name, cat, period string, v int64) report.FactRow {
	return report.FactRow{EntityID: entity, ItemID: item, ItemName: name, Category: cat, Period: period, Value: decimal.NewFromInt(v)}
}

// ── Pivot ─────────────────────────────────────────────────────────────────────

func TestPivot_AutoGranularityAndDefaultCompany(t *testing.T) {
	facts := &fakeFacts{rows: []report.FactRow{
		fact(1, 10, "A1 - Agua", "Bebidas", "2024-03-01", 4),
		fact(1, 10, "A1 - Agua", "Bebidas", "2024-03-10", 6),
	}}
	uc := newUseCase(facts, &fakeNames{})

	resp, err := uc.Pivot(context.Background(), "sales", exportReq("2024-03-01", "2024-03-10"))
	require.NoError(t, err)

	assert.Equal(t, "daily", resp.Granularity)
	assert.Equal(t, "company", resp.Level)
	assert.Equal(t, []int64{1}, resp.LevelIDs)
	assert.Len(t, resp.Summary.Columns, 10)
	assert.Equal(t, "2024-03-01", resp.Summary.Columns[0].Key)

	rows := resp.Summary.Rows
	require.Len(t, rows, 3) // ítem, subtotal, gran total
	assert.Equal(t, "item", rows[0].Kind)
	assert.Equal(t, "subtotal", rows[1].Kind)
	assert.Equal(t, "grand", rows[2].Kind)
	assert.True(t, rows[2].Total.Equal(decimal.NewFromInt(10)))

	require.Len(t, facts.queries, 1)
	assert.Equal(t, report.Daily, facts.queries[0].Granularity)
}

func TestPivot_DefaultDataviewUsesEntityColumns(t *testing.T) {
	facts := &fakeFacts{rows: []report.FactRow{
		fact(5, 10, "Agua", "Bebidas", "", 3),
		fact(6, 10, "Agua", "Bebidas", "", 2),
	}}
	names := &fakeNames{names: map[int64]string{5: "Bodega Norte"}}
	uc := newUseCase(facts, names)

	req := exportReq("2024-01-01", "2024-12-31")
	req.Dataview = "default"
	req.WarehouseIDs = []int64{5, 6}

	resp, err := uc.Pivot(context.Background(), "sales", req)
	require.NoError(t, err)
	assert.Equal(t, "default", resp.Mode)
	assert.Equal(t, "warehouse", resp.Level)
	require.Len(t, resp.Summary.Columns, 2)
	assert.Equal(t, "Bodega Norte", resp.Summary.Columns[0].Label)
	assert.Equal(t, "6", resp.Summary.Columns[1].Label)
	assert.Empty(t, resp.Sheets)
	assert.Equal(t, report.Granularity(""), facts.queries[0].Granularity)
}

func TestPivot_NameFailureDegradesToIDs(t *testing.T) {
	facts := &fakeFacts{rows: []report.FactRow{fact(7, 1, "Agua", "Bebidas", "2024-05", 1)}}
	names := &fakeNames{err: errors.New("tabla de nombres caída")}
	uc := newUseCase(facts, names)

	req := exportReq("2024-01-01", "2024-12-31")
	req.RegionIDs = []int64{7, 8}

	resp, err := uc.Pivot(context.Background(), "sales", req)
	require.NoError(t, err)
	assert.Equal(t, "monthly", resp.Granularity)
	require.Len(t, resp.Sheets, 2)
	assert.Equal(t, "7", resp.Sheets[0].Name)
	assert.Equal(t, "8", resp.Sheets[1].Name)
}

func TestPivot_PerEntityFalseSkipsSheets(t *testing.T) {
	uc := newUseCase(&fakeFacts{}, &fakeNames{})
	req := exportReq("2024-01-01", "2024-01-31")
	req.RouteIDs = []int64{1, 2}
	off := false
	req.PerEntity = &off

	resp, err := uc.Pivot(context.Background(), "item", req)
	require.NoError(t, err)
	assert.Equal(t, "route", resp.Level)
	assert.Empty(t, resp.Sheets)
}

func TestPivot_FactErrorFailsRun(t *testing.T) {
	boom := errors.New("timeout")
	uc := newUseCase(&fakeFacts{err: boom}, &fakeNames{})

	_, err := uc.Pivot(context.Background(), "sales", exportReq("2024-01-01", "2024-01-02"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrValidation)
}

func TestPivot_Validation(t *testing.T) {
	uc := newUseCase(&fakeFacts{}, &fakeNames{})

	cases := []struct {
		name  string
		req   dto.ExportRequest
		field string
	}{
		{"fecha faltante", exportReq("", "2024-01-02"), "from_date"},
		{"formato inválido", exportReq("2024/01/01", "2024-01-02"), "from_date"},
		{"rango invertido", exportReq("2024-02-01", "2024-01-01"), "from_date"},
		{"search_type desconocido", func() dto.ExportRequest {
			r := exportReq("2024-01-01", "2024-01-02")
			r.SearchType = "weight"
			return r
		}(), "search_type"},
		{"id no positivo", func() dto.ExportRequest {
			r := exportReq("2024-01-01", "2024-01-02")
			r.ItemIDs = []int64{3, 0}
			return r
		}(), "item_ids[1]"},
		{"ids repetidos", func() dto.ExportRequest {
			r := exportReq("2024-01-01", "2024-01-02")
			r.AreaIDs = []int64{2, 2}
			return r
		}(), "area_ids"},
		{"dataview desconocido", func() dto.ExportRequest {
			r := exportReq("2024-01-01", "2024-01-02")
			r.Dataview = "hourly"
			return r
		}(), "dataview"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Pivot(context.Background(), "sales", tc.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)

			var verr *reporting.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}
}

func TestPivot_UnknownReport(t *testing.T) {
	uc := newUseCase(&fakeFacts{}, &fakeNames{})
	_, err := uc.Pivot(context.Background(), "promotions", exportReq("2024-01-01", "2024-01-02"))
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

// ── Export ────────────────────────────────────────────────────────────────────

func TestExport_DefaultsToXLSXAndNamesFile(t *testing.T) {
	xlsx := &fakeRenderer{format: "xlsx"}
	csv := &fakeRenderer{format: "csv"}
	uc := newUseCase(&fakeFacts{}, &fakeNames{}, xlsx, csv)

	req := exportReq("2024-03-01", "2024-03-10")
	req.SearchType = "amount"
	file, err := uc.Export(context.Background(), "customer", req)
	require.NoError(t, err)

	assert.Equal(t, "Sales_Report_2024-03-01_to_2024-03-10.xlsx", file.Filename)
	assert.Equal(t, []byte("ok"), file.Content)
	assert.Equal(t, "customer", xlsx.got.Report)
	assert.Equal(t, report.ValueAmount, xlsx.got.ValueMode)
	require.NotNil(t, xlsx.got.Pivot)
	assert.Nil(t, csv.got.Pivot)
}

func TestExport_UnavailableFormat(t *testing.T) {
	uc := newUseCase(&fakeFacts{}, &fakeNames{}, &fakeRenderer{format: "xlsx"})
	req := exportReq("2024-03-01", "2024-03-10")
	req.FileType = "pdf"

	_, err := uc.Export(context.Background(), "sales", req)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ── Table ─────────────────────────────────────────────────────────────────────

func TestTable_PaginationLinks(t *testing.T) {
	facts := &fakeFacts{
		total: 120,
		tableRows: []report.TableRow{{
			ItemCode: "A1", ItemName: "Agua", Category: "Bebidas",
			Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), EntityID: 9, Value: decimal.NewFromInt(3),
		}},
	}
	names := &fakeNames{names: map[int64]string{9: "Agua Mineral"}}
	uc := newUseCase(facts, names)

	req := dto.ReportRequest{FromDate: "2024-03-01", ToDate: "2024-03-31", ItemIDs: []int64{9}}
	resp, err := uc.Table(context.Background(), "sales", req, 2, "http://api.local/api/reports/sales/table")
	require.NoError(t, err)

	assert.Equal(t, 120, resp.TotalRows)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 2, resp.CurrentPage)
	require.NotNil(t, resp.NextPage)
	assert.Equal(t, "http://api.local/api/reports/sales/table?page=3", *resp.NextPage)
	require.NotNil(t, resp.PreviousPage)
	assert.Equal(t, "http://api.local/api/reports/sales/table?page=1", *resp.PreviousPage)

	assert.Equal(t, 50, facts.limit)
	assert.Equal(t, 50, facts.offset)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "item", resp.Rows[0].Level)
	assert.Equal(t, "Agua Mineral", resp.Rows[0].EntityName)
	assert.Equal(t, "2024-03-02", resp.Rows[0].Date)
}

func TestTable_EmptyResult(t *testing.T) {
	uc := newUseCase(&fakeFacts{}, &fakeNames{})
	resp, err := uc.Table(context.Background(), "sales",
		dto.ReportRequest{FromDate: "2024-03-01", ToDate: "2024-03-31"}, 1, "")
	require.NoError(t, err)
	assert.Zero(t, resp.TotalRows)
	assert.Zero(t, resp.TotalPages)
	assert.Nil(t, resp.NextPage)
	assert.Nil(t, resp.PreviousPage)
	assert.NotNil(t, resp.Rows)
	assert.Empty(t, resp.Rows)
}

func TestTable_InvalidPage(t *testing.T) {
	uc := newUseCase(&fakeFacts{}, &fakeNames{})
	_, err := uc.Table(context.Background(), "sales",
		dto.ReportRequest{FromDate: "2024-03-01", ToDate: "2024-03-31"}, 0, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExportFilename(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Sales_Report_2024-01-01_to_2024-01-31.csv", reporting.ExportFilename(from, to, "csv"))
}

func TestPivot_RunLogCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})
	facts := &fakeFacts{rows: []report.FactRow{fact(1, 10, "Agua", "Bebidas", "2024-03-01", 1)}}
	uc := reporting.NewReportUseCase(facts, &fakeNames{}, log, reporting.Options{QueryTimeout: time.Second})

	ctx := logger.WithRequestID(context.Background(), "req-42")
	_, err := uc.Pivot(ctx, "item", exportReq("2024-03-01", "2024-03-02"))
	require.NoError(t, err)

	var built map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["message"] == "pivote construido" {
			built = entry
		}
	}
	require.NotNil(t, built)
	assert.Equal(t, "req-42", built["request_id"])
	assert.Equal(t, "item", built["report"])
	assert.NotEmpty(t, built["run_id"])
}
