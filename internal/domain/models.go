// internal/domain/models.go
package domain

import "time"

// SalesRecord is a normalized sales aggregate, unique per (date, city, sku_id).
type SalesRecord struct {
	Date           time.Time `json:"date"`
	City           string    `json:"city"`
	SKUID          string    `json:"sku_id"`
	SKUDescription string    `json:"sku_description"`
	SalesQty       float64   `json:"sales_qty"`
}

// InventoryRecord is a normalized stock snapshot, unique per (city, sku_id).
type InventoryRecord struct {
	City           string  `json:"city"`
	SKUID          string  `json:"sku_id"`
	SKUDescription string  `json:"sku_description"`
	InventoryUnits float64 `json:"inventory_units"`
}

// BaseRow is one reconciled row of the base table: current inventory joined
// with windowed sales for a (city, sku_id) pair seen in either source.
type BaseRow struct {
	City           string  `json:"city"`
	SKUID          string  `json:"sku_id"`
	SKUDescription string  `json:"sku_description"`
	InventoryUnits float64 `json:"inventory_units"`
	SalesQty       float64 `json:"sales_qty"`
}

// BaseTable carries the reconciled rows together with the trailing window
// that produced them.
type BaseTable struct {
	Rows       []BaseRow `json:"rows"`
	WindowDays int       `json:"window_days"`
	StartDate  time.Time `json:"start_date"`
	MaxDate    time.Time `json:"max_date"`
}

// ResultRow is one aggregated row of a report. The populated key fields
// depend on the resolved view: pan-product rows carry no city, pan-city rows
// carry no SKU description.
type ResultRow struct {
	SKUDescription string  `json:"sku_description,omitempty"`
	City           string  `json:"city,omitempty"`
	SalesQty       float64 `json:"sales_qty"`
	InventoryUnits float64 `json:"inventory_units"`
	DOI            int     `json:"doi"`
}

// Result is a computed report: the resolved view, the window it was built
// over, and the aggregated rows. A ViewNone result has no rows and means
// "nothing selected yet", not an error.
type Result struct {
	View       ViewKind    `json:"view"`
	WindowDays int         `json:"window_days"`
	StartDate  time.Time   `json:"start_date"`
	MaxDate    time.Time   `json:"max_date"`
	Rows       []ResultRow `json:"rows"`
}

// DatasetInfo summarizes an ingested workbook. ID is the fingerprint of the
// uploaded bytes, so re-uploading the same file maps to the same dataset.
type DatasetInfo struct {
	ID               string `json:"id"`
	SalesRecords     int    `json:"sales_records"`
	InventoryRecords int    `json:"inventory_records"`
}

// FilterOptions lists the SKU and city choices present in a base table.
type FilterOptions struct {
	SKUs   []string `json:"skus"`
	Cities []string `json:"cities"`
}
