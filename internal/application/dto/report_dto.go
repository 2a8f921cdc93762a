package dto

import "github.com/shopspring/decimal"

// ── Request ───────────────────────────────────────────────────────────────────

// ReportRequest cuerpo común de /api/reports/:type/{table,pivot,export}.
// Las listas de ids vacías u omitidas no filtran.
type ReportRequest struct {
	FromDate        string `json:"from_date" validate:"required,datetime=2006-01-02"`
	ToDate          string `json:"to_date" validate:"required,datetime=2006-01-02"`
	SearchType      string `json:"search_type" validate:"omitempty,oneof=quantity amount"`
	DisplayQuantity string `json:"display_quantity" validate:"omitempty,oneof=with_free_good without_free_good"`

	CompanyIDs          []int64 `json:"company_ids" validate:"omitempty,unique,dive,gt=0"`
	RegionIDs           []int64 `json:"region_ids" validate:"omitempty,unique,dive,gt=0"`
	AreaIDs             []int64 `json:"area_ids" validate:"omitempty,unique,dive,gt=0"`
	WarehouseIDs        []int64 `json:"warehouse_ids" validate:"omitempty,unique,dive,gt=0"`
	RouteIDs            []int64 `json:"route_ids" validate:"omitempty,unique,dive,gt=0"`
	SalesmanIDs         []int64 `json:"salesman_ids" validate:"omitempty,unique,dive,gt=0"`
	CustomerChannelIDs  []int64 `json:"customer_channel_ids" validate:"omitempty,unique,dive,gt=0"`
	CustomerCategoryIDs []int64 `json:"customer_category_ids" validate:"omitempty,unique,dive,gt=0"`
	CustomerIDs         []int64 `json:"customer_ids" validate:"omitempty,unique,dive,gt=0"`
	ItemCategoryIDs     []int64 `json:"item_category_ids" validate:"omitempty,unique,dive,gt=0"`
	BrandIDs            []int64 `json:"brand_ids" validate:"omitempty,unique,dive,gt=0"`
	ItemIDs             []int64 `json:"item_ids" validate:"omitempty,unique,dive,gt=0"`
}

// ExportRequest ReportRequest más las opciones del archivo.
type ExportRequest struct {
	ReportRequest
	Dataview  string `json:"dataview" validate:"omitempty,oneof=default daily weekly monthly yearly"`
	FileType  string `json:"file_type" validate:"omitempty,oneof=xlsx csv pdf"`
	PerEntity *bool  `json:"per_entity"` // nil = true
}

// ── Tabla paginada ────────────────────────────────────────────────────────────

// TableRowDTO fila de la vista tabular.
type TableRowDTO struct {
	ItemCode     string          `json:"item_code"`
	ItemName     string          `json:"item_name"`
	ItemCategory string          `json:"item_category"`
	Date         string          `json:"date"`
	Level        string          `json:"level"`
	EntityID     int64           `json:"entity_id"`
	EntityName   string          `json:"entity_name"`
	Value        decimal.Decimal `json:"value"`
}

// TablePageResponse respuesta de POST /api/reports/:type/table.
type TablePageResponse struct {
	TotalRows    int           `json:"total_rows"`
	TotalPages   int           `json:"total_pages"`
	CurrentPage  int           `json:"current_page"`
	NextPage     *string       `json:"next_page"`
	PreviousPage *string       `json:"previous_page"`
	Rows         []TableRowDTO `json:"rows"`
}

// ── Pivote ────────────────────────────────────────────────────────────────────

// PivotColumnDTO columna del pivote.
type PivotColumnDTO struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// PivotRowDTO fila de ítem, subtotal de categoría o gran total.
type PivotRowDTO struct {
	Kind     string            `json:"kind"` // item | subtotal | grand
	ItemID   int64             `json:"item_id,omitempty"`
	Name     string            `json:"name"`
	Category string            `json:"category,omitempty"`
	Cells    []decimal.Decimal `json:"cells"`
	Total    decimal.Decimal   `json:"total"`
}

// PivotMatrixDTO una matriz ya ordenada: ítems, subtotales y gran total.
type PivotMatrixDTO struct {
	Columns []PivotColumnDTO `json:"columns"`
	Rows    []PivotRowDTO    `json:"rows"`
}

// PivotSheetDTO pivote de una entidad del nivel.
type PivotSheetDTO struct {
	EntityID int64          `json:"entity_id"`
	Name     string         `json:"name"`
	Matrix   PivotMatrixDTO `json:"matrix"`
}

// PivotResponse respuesta de POST /api/reports/:type/pivot.
type PivotResponse struct {
	Report         string          `json:"report"`
	Period         PeriodDTO       `json:"period"`
	Mode           string          `json:"mode"`
	Granularity    string          `json:"granularity,omitempty"`
	Level          string          `json:"level"`
	LevelIDs       []int64         `json:"level_ids"`
	Summary        PivotMatrixDTO  `json:"summary"`
	Sheets         []PivotSheetDTO `json:"sheets,omitempty"`
	DroppedPeriods int             `json:"dropped_periods"`
}
