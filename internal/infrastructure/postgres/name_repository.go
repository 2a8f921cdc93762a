package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/reportes-ventas/internal/domain"
	"github.com/jhoicas/reportes-ventas/internal/domain/report"
	"github.com/jhoicas/reportes-ventas/internal/domain/repository"
)

var _ repository.NameRepository = (*NameRepo)(nil)

type nameSource struct {
	table string
	id    string
	name  string
}

// nameSources tabla maestra de cada faceta. Conjunto cerrado: nunca se arma SQL con datos del request.
var nameSources = map[report.Facet]nameSource{
	report.FacetCompany:          {"tbl_company", "id", "company_name"},
	report.FacetRegion:           {"tbl_region", "id", "region_name"},
	report.FacetArea:             {"tbl_areas", "id", "area_name"},
	report.FacetWarehouse:        {"tbl_warehouse", "id", "warehouse_name"},
	report.FacetRoute:            {"tbl_route", "id", "route_name"},
	report.FacetSalesman:         {"salesman", "id", "name"},
	report.FacetCustomerChannel:  {"outlet_channel", "id", "outlet_channel"},
	report.FacetCustomerCategory: {"customer_categories", "id", "customer_category_name"},
	report.FacetCustomer:         {"agent_customers", "id", "name"},
	report.FacetItemCategory:     {"item_categories", "id", "category_name"},
	report.FacetBrand:            {"item_brands", "id", "brand_name"},
	report.FacetItem:             {"items", "id", "name"},
}

// NameRepo resuelve nombres visibles de entidades contra las tablas maestras.
type NameRepo struct {
	q Querier
}

func NewNameRepository(q Querier) *NameRepo {
	return &NameRepo{q: q}
}

func nameSQL(facet report.Facet) (string, error) {
	src, ok := nameSources[facet]
	if !ok {
		return "", fmt.Errorf("%w: faceta %q sin tabla de nombres", domain.ErrInvalidInput, facet)
	}
	return fmt.Sprintf(`
	SELECT %s, COALESCE(%s::TEXT, '')
	FROM %s
	WHERE %s = ANY($1)`, src.id, src.name, src.table, src.id), nil
}

// ResolveNames devuelve id -> nombre para los ids encontrados. Los ausentes
// simplemente no aparecen en el mapa.
func (r *NameRepo) ResolveNames(ctx context.Context, facet report.Facet, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	sql, err := nameSQL(facet)
	if err != nil {
		return nil, fmt.Errorf("names.ResolveNames: %w", err)
	}

	rows, err := r.q.Query(ctx, sql, ids)
	if err != nil {
		return nil, wrapQueryErr("names.ResolveNames", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("names.ResolveNames scan: %w", err)
		}
		out[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("names.ResolveNames rows: %w", err)
	}
	return out, nil
}
