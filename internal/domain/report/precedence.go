package report

import (
	"fmt"
	"sort"

	"github.com/jhoicas/reportes-ventas/internal/domain"
)

// Precedencias por tipo de reporte. Son configuración fija: cada reporte conserva
// su propio orden (clientes primero en ventas, organización primero en ítems).
var (
	SalesPrecedence = Precedence{
		FacetCustomer, FacetCustomerCategory, FacetCustomerChannel,
		FacetSalesman,
		FacetRoute, FacetWarehouse, FacetArea, FacetRegion, FacetCompany,
	}

	CustomerPrecedence = Precedence{
		FacetCustomer, FacetCustomerCategory, FacetCustomerChannel,
		FacetRoute, FacetWarehouse, FacetArea, FacetRegion,
		FacetSalesman,
		FacetCompany,
	}

	// En el reporte de ítems los productos son las filas, por eso el nivel sale sólo de la organización.
	ItemPrecedence = Precedence{
		FacetRoute, FacetWarehouse, FacetArea, FacetRegion, FacetCompany,
	}

	// TablePrecedence nivel de la vista tabular: el ítem manda sobre cualquier otra faceta.
	TablePrecedence = Precedence{
		FacetItem, FacetBrand, FacetItemCategory,
		FacetCustomer, FacetCustomerCategory, FacetCustomerChannel,
		FacetSalesman,
		FacetRoute, FacetWarehouse, FacetArea, FacetRegion, FacetCompany,
	}
)

// ReportType tipo de reporte expuesto por la API.
type ReportType struct {
	Name       string
	Title      string
	Precedence Precedence
}

var reportTypes = map[string]ReportType{
	"sales":    {Name: "sales", Title: "ventas", Precedence: SalesPrecedence},
	"customer": {Name: "customer", Title: "ventas por cliente", Precedence: CustomerPrecedence},
	"item":     {Name: "item", Title: "ventas por ítem", Precedence: ItemPrecedence},
}

// LookupReport busca el tipo de reporte por nombre.
func LookupReport(name string) (ReportType, error) {
	rt, ok := reportTypes[name]
	if !ok {
		return ReportType{}, fmt.Errorf("%w: %q", domain.ErrReportNotFound, name)
	}
	rt.Precedence = append(Precedence(nil), rt.Precedence...)
	return rt, nil
}

// ReportNames nombres de los reportes disponibles, ordenados.
func ReportNames() []string {
	names := make([]string, 0, len(reportTypes))
	for n := range reportTypes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
