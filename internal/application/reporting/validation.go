package reporting

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/reportes-ventas/internal/application/dto"
	"github.com/jhoicas/reportes-ventas/internal/domain"
	"github.com/jhoicas/reportes-ventas/internal/domain/report"
)

// ValidationError errores de validación por campo (nombre JSON -> mensaje).
// errors.Is(err, domain.ErrValidation) es verdadero.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", domain.ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return domain.ErrValidation }

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateStruct(v *validator.Validate, obj any) error {
	err := v.Struct(obj)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldName(fe)] = errorMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

// fieldName nombre JSON del campo; en listas incluye el índice (item_ids[2]).
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	// ExportRequest embebe ReportRequest: quitar el prefijo del struct embebido.
	return strings.TrimPrefix(ns, "ReportRequest.")
}

func errorMessage(fe validator.FieldError) string {
	field := fieldName(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es obligatorio", field)
	case "datetime":
		return fmt.Sprintf("%s debe tener formato YYYY-MM-DD", field)
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, fe.Param())
	case "unique":
		return fmt.Sprintf("%s no admite ids repetidos", field)
	case "gt":
		return fmt.Sprintf("%s debe ser mayor que %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s no es válido", field)
	}
}

// toFilterSelection convierte el request ya validado en la selección de filtros del dominio.
func toFilterSelection(req dto.ReportRequest) (report.FilterSelection, error) {
	from, err := report.ParseDate(req.FromDate)
	if err != nil {
		return report.FilterSelection{}, fieldError("from_date", "from_date debe tener formato YYYY-MM-DD")
	}
	to, err := report.ParseDate(req.ToDate)
	if err != nil {
		return report.FilterSelection{}, fieldError("to_date", "to_date debe tener formato YYYY-MM-DD")
	}
	if from.After(to) {
		return report.FilterSelection{}, fieldError("from_date", "from_date no puede ser posterior a to_date")
	}

	valueMode := report.ValueQuantity
	if req.SearchType == string(report.ValueAmount) {
		valueMode = report.ValueAmount
	}
	freeGood := report.FreeGoodInclude
	if req.DisplayQuantity == "without_free_good" {
		freeGood = report.FreeGoodExclude
	}

	return report.NewFilterSelection(from, to, valueMode, freeGood, map[report.Facet][]int64{
		report.FacetCompany:          req.CompanyIDs,
		report.FacetRegion:           req.RegionIDs,
		report.FacetArea:             req.AreaIDs,
		report.FacetWarehouse:        req.WarehouseIDs,
		report.FacetRoute:            req.RouteIDs,
		report.FacetSalesman:         req.SalesmanIDs,
		report.FacetCustomerChannel:  req.CustomerChannelIDs,
		report.FacetCustomerCategory: req.CustomerCategoryIDs,
		report.FacetCustomer:         req.CustomerIDs,
		report.FacetItemCategory:     req.ItemCategoryIDs,
		report.FacetBrand:            req.BrandIDs,
		report.FacetItem:             req.ItemIDs,
	})
}
