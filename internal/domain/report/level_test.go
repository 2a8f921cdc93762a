package report_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reportes-ventas/internal/domain"
	"github.com/jhoicas/reportes-ventas/internal/domain/report"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := report.ParseDate(s)
	require.NoError(t, err)
	return d
}

func selection(t *testing.T, ids map[report.Facet][]int64) report.FilterSelection {
	t.Helper()
	f, err := report.NewFilterSelection(date(t, "2024-01-01"), date(t, "2024-01-31"),
		report.ValueQuantity, report.FreeGoodInclude, ids)
	require.NoError(t, err)
	return f
}

func TestResolve_PrimeraFacetaConSeleccionGana(t *testing.T) {
	precedence := report.Precedence{
		report.FacetCustomer, report.FacetCustomerCategory,
		report.FacetWarehouse, report.FacetRegion, report.FacetCompany,
	}
	f := selection(t, map[report.Facet][]int64{
		report.FacetWarehouse: {5},
		report.FacetRegion:    {9},
	})

	got := report.Resolve(f, precedence, nil)

	assert.Equal(t, report.ResolvedLevel{Facet: report.FacetWarehouse, IDs: []int64{5}}, got)
}

func TestResolve_SinFacetasUsaFallback(t *testing.T) {
	f := selection(t, nil)

	got := report.Resolve(f, report.SalesPrecedence, []int64{7, 8})
	assert.Equal(t, report.FacetCompany, got.Facet)
	assert.Equal(t, []int64{7, 8}, got.IDs)

	got = report.Resolve(f, report.SalesPrecedence, nil)
	assert.Equal(t, report.FacetCompany, got.Facet)
	assert.Equal(t, []int64{report.DefaultCompanyID}, got.IDs, "nunca debe devolver un conjunto vacío")
}

func TestResolve_Idempotente(t *testing.T) {
	f := selection(t, map[report.Facet][]int64{
		report.FacetCustomerChannel: {3, 4},
		report.FacetArea:            {2},
	})
	first := report.Resolve(f, report.SalesPrecedence, nil)
	second := report.Resolve(f, report.SalesPrecedence, nil)
	assert.Equal(t, first, second)
	assert.Equal(t, report.FacetCustomerChannel, first.Facet)
}

func TestResolve_PrecedenciaPorTipoDeReporte(t *testing.T) {
	f := selection(t, map[report.Facet][]int64{
		report.FacetCustomer: {11},
		report.FacetRoute:    {21},
		report.FacetItem:     {31},
	})

	tests := []struct {
		name       string
		precedence report.Precedence
		want       report.Facet
	}{
		{"ventas prioriza clientes", report.SalesPrecedence, report.FacetCustomer},
		{"ítems sólo mira la organización", report.ItemPrecedence, report.FacetRoute},
		{"tabla prioriza el ítem", report.TablePrecedence, report.FacetItem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, report.Resolve(f, tt.precedence, nil).Facet)
		})
	}
}

func TestResolve_DimensionOmitidaSigueComoRestriccion(t *testing.T) {
	f := selection(t, map[report.Facet][]int64{
		report.FacetItem:   {31, 32},
		report.FacetRegion: {4},
	})
	level := report.Resolve(f, report.ItemPrecedence, nil)
	require.Equal(t, report.FacetRegion, level.Facet)

	q := report.FactQuery{Filters: f, Level: level}
	var facets []report.Facet
	for _, c := range q.Constraints() {
		facets = append(facets, c.Facet)
	}
	assert.ElementsMatch(t, []report.Facet{report.FacetRegion, report.FacetItem}, facets)
}

func TestFactQuery_ConstraintsAgregaNivelPorDefecto(t *testing.T) {
	f := selection(t, map[report.Facet][]int64{report.FacetBrand: {2}})
	level := report.Resolve(f, report.ItemPrecedence, nil)

	cs := report.FactQuery{Filters: f, Level: level}.Constraints()

	require.Len(t, cs, 2)
	assert.Equal(t, report.Constraint{Facet: report.FacetBrand, Column: "brand_id", IDs: []int64{2}}, cs[0])
	assert.Equal(t, report.Constraint{Facet: report.FacetCompany, Column: "company_id", IDs: []int64{1}}, cs[1])
}

func TestNewFilterSelection_FacetaDesconocida(t *testing.T) {
	_, err := report.NewFilterSelection(time.Now(), time.Now(), "", "",
		map[report.Facet][]int64{"planet": {1}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestFilterSelection_EsInmutable(t *testing.T) {
	ids := []int64{1, 2}
	f := selection(t, map[report.Facet][]int64{report.FacetWarehouse: ids})
	ids[0] = 99
	got := f.IDs(report.FacetWarehouse)
	got[1] = 77
	assert.Equal(t, []int64{1, 2}, f.IDs(report.FacetWarehouse))
	assert.Equal(t, report.ValueQuantity, f.ValueMode)
	assert.Equal(t, report.FreeGoodInclude, f.FreeGoodMode)
}

func TestLookupReport(t *testing.T) {
	rt, err := report.LookupReport("item")
	require.NoError(t, err)
	assert.Equal(t, report.ItemPrecedence, rt.Precedence)

	_, err = report.LookupReport("stock")
	assert.True(t, errors.Is(err, domain.ErrReportNotFound))
	assert.Equal(t, []string{"customer", "item", "sales"}, report.ReportNames())
}

func TestHierarchy_ColumnasDeCadaFaceta(t *testing.T) {
	assert.Len(t, report.AllFacets(), 12)
	for _, f := range report.AllFacets() {
		assert.NotEmpty(t, f.Column(), "faceta %s sin columna", f)
	}
	chains := report.Hierarchy()
	require.Len(t, chains, 4)
	assert.Equal(t, report.FacetCompany, chains[0].Levels[0].Facet)
	assert.Equal(t, report.FacetRoute, chains[0].Levels[4].Facet)

	chains[0].Levels[0].Column = "hack"
	assert.Equal(t, "company_id", report.FacetCompany.Column())
}
