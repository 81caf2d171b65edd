package doi

import (
	"fmt"
	"sort"
	"time"

	"github.com/priyankgupta/doi-monitor/internal/domain"
)

// BuildBase aggregates sales over the trailing windowDays-day window ending at
// the latest sales date, then full-outer-joins the totals with inventory on
// (sku_id, city). Pairs present on only one side get zero for the other
// side's measure. Descriptions prefer the inventory sheet and fall back to
// sales.
func BuildBase(sales []domain.SalesRecord, inventory []domain.InventoryRecord, windowDays int) (*domain.BaseTable, error) {
	if windowDays < 1 {
		return nil, fmt.Errorf("window must be at least 1 day, got %d", windowDays)
	}
	if len(sales) == 0 {
		return nil, &EmptyDataError{Reason: "sales data has no rows, cannot determine analysis window"}
	}

	maxDate := sales[0].Date
	for _, rec := range sales[1:] {
		if rec.Date.After(maxDate) {
			maxDate = rec.Date
		}
	}
	startDate := maxDate.AddDate(0, 0, -(windowDays - 1))

	type pairKey struct {
		sku  string
		city string
	}
	type pairAgg struct {
		salesQty       float64
		inventoryUnits float64
		salesDesc      string
		inventoryDesc  string
	}

	pairs := make(map[pairKey]*pairAgg)
	lookup := func(key pairKey) *pairAgg {
		agg, ok := pairs[key]
		if !ok {
			agg = &pairAgg{}
			pairs[key] = agg
		}
		return agg
	}

	for _, rec := range sales {
		if !withinWindow(rec.Date, startDate, maxDate) {
			continue
		}
		agg := lookup(pairKey{sku: rec.SKUID, city: rec.City})
		agg.salesQty += rec.SalesQty
		if agg.salesDesc == "" {
			agg.salesDesc = rec.SKUDescription
		}
	}

	for _, rec := range inventory {
		agg := lookup(pairKey{sku: rec.SKUID, city: rec.City})
		agg.inventoryUnits += rec.InventoryUnits
		if agg.inventoryDesc == "" {
			agg.inventoryDesc = rec.SKUDescription
		}
	}

	rows := make([]domain.BaseRow, 0, len(pairs))
	for key, agg := range pairs {
		desc := agg.inventoryDesc
		if desc == "" {
			desc = agg.salesDesc
		}
		rows = append(rows, domain.BaseRow{
			City:           key.city,
			SKUID:          key.sku,
			SKUDescription: desc,
			InventoryUnits: agg.inventoryUnits,
			SalesQty:       agg.salesQty,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].City != rows[j].City {
			return rows[i].City < rows[j].City
		}
		return rows[i].SKUID < rows[j].SKUID
	})

	return &domain.BaseTable{
		Rows:       rows,
		WindowDays: windowDays,
		StartDate:  startDate,
		MaxDate:    maxDate,
	}, nil
}

// withinWindow reports whether t falls in the closed interval [start, end].
func withinWindow(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
