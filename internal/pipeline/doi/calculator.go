package doi

import (
	"math"

	"github.com/priyankgupta/doi-monitor/internal/domain"
)

// DOI computes days of inventory for one row. Zero inventory is zero days
// regardless of sales; zero sales with stock on hand floors the unit count
// itself; otherwise the stock is scaled by the window length over the sales
// volume and floored. The single expression keeps exact divisions exact, so
// matching inventory and sales always report the full window.
func DOI(inventoryUnits, salesQty float64, windowDays int) int {
	if inventoryUnits == 0 {
		return 0
	}
	if salesQty == 0 {
		return int(math.Floor(inventoryUnits))
	}
	return int(math.Floor(inventoryUnits * float64(windowDays) / salesQty))
}

// ApplyDOI returns a copy of rows with the DOI column filled in from each
// row's inventory and sales figures.
func ApplyDOI(rows []domain.ResultRow, windowDays int) []domain.ResultRow {
	out := make([]domain.ResultRow, len(rows))
	for i, row := range rows {
		row.DOI = DOI(row.InventoryUnits, row.SalesQty, windowDays)
		out[i] = row
	}
	return out
}
