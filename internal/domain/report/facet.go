// Package report contiene el motor de reportes de ventas: resolución del nivel de
// agregación a partir de los filtros, elección de la granularidad temporal,
// normalización de periodos y construcción de las matrices pivote que se exportan.
//
// El paquete no hace I/O: recibe filas ya agregadas por el ejecutor de hechos y
// devuelve estructuras listas para que un sink (XLSX, CSV, PDF, JSON) las dibuje.
package report

// Facet nombre de una dimensión filtrable del reporte (ej. "warehouse").
type Facet string

const (
	FacetCompany          Facet = "company"
	FacetRegion           Facet = "region"
	FacetArea             Facet = "area"
	FacetWarehouse        Facet = "warehouse"
	FacetRoute            Facet = "route"
	FacetSalesman         Facet = "salesman"
	FacetCustomerChannel  Facet = "customer_channel"
	FacetCustomerCategory Facet = "customer_category"
	FacetCustomer         Facet = "customer"
	FacetItemCategory     Facet = "item_category"
	FacetBrand            Facet = "brand"
	FacetItem             Facet = "item"
)

// Binding asocia una faceta con la columna de la tabla de hechos que la representa.
type Binding struct {
	Facet  Facet
	Column string
}

// Chain cadena de una dimensión, ordenada de la faceta más general a la más profunda.
type Chain struct {
	Name   string
	Levels []Binding
}

// hierarchy es fija: codifica los únicos órdenes de precedencia válidos.
// Salesman es ortogonal a la organización y vive en su propia cadena.
var hierarchy = []Chain{
	{Name: "organization", Levels: []Binding{
		{FacetCompany, "company_id"},
		{FacetRegion, "region_id"},
		{FacetArea, "area_id"},
		{FacetWarehouse, "warehouse_id"},
		{FacetRoute, "route_id"},
	}},
	{Name: "customer", Levels: []Binding{
		{FacetCustomerChannel, "channel_id"},
		{FacetCustomerCategory, "customer_category_id"},
		{FacetCustomer, "customer_id"},
	}},
	{Name: "item", Levels: []Binding{
		{FacetItemCategory, "item_category_id"},
		{FacetBrand, "brand_id"},
		{FacetItem, "item_id"},
	}},
	{Name: "salesman", Levels: []Binding{
		{FacetSalesman, "salesman_id"},
	}},
}

var columnsByFacet = func() map[Facet]string {
	m := make(map[Facet]string)
	for _, ch := range hierarchy {
		for _, b := range ch.Levels {
			m[b.Facet] = b.Column
		}
	}
	return m
}()

// Hierarchy devuelve una copia de las cadenas de dimensiones.
func Hierarchy() []Chain {
	out := make([]Chain, len(hierarchy))
	for i, ch := range hierarchy {
		out[i] = Chain{Name: ch.Name, Levels: append([]Binding(nil), ch.Levels...)}
	}
	return out
}

// AllFacets devuelve todas las facetas en el orden de la jerarquía.
func AllFacets() []Facet {
	var out []Facet
	for _, ch := range hierarchy {
		for _, b := range ch.Levels {
			out = append(out, b.Facet)
		}
	}
	return out
}

// Valid indica si la faceta pertenece a la jerarquía.
func (f Facet) Valid() bool {
	_, ok := columnsByFacet[f]
	return ok
}

// Column devuelve la columna de la tabla de hechos ligada a la faceta ("" si no existe).
func (f Facet) Column() string {
	return columnsByFacet[f]
}
