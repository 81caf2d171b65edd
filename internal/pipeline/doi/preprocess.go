package doi

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/priyankgupta/doi-monitor/internal/cities"
	"github.com/priyankgupta/doi-monitor/internal/domain"
)

// Tables holds the cleaned and aggregated records ready for windowing.
type Tables struct {
	Sales     []domain.SalesRecord
	Inventory []domain.InventoryRecord
}

// Preprocess normalizes city names in both raw sheets, parses sales dates and
// aggregates duplicate rows so each (date, city, sku) appears once in sales
// and each (city, sku) appears once in inventory.
func Preprocess(raw *RawTables) (*Tables, error) {
	sales, err := preprocessSales(raw.Sales)
	if err != nil {
		return nil, err
	}
	inventory := preprocessInventory(raw.Inventory)

	return &Tables{Sales: sales, Inventory: inventory}, nil
}

type salesKey struct {
	date time.Time
	city string
	sku  string
	desc string
}

func preprocessSales(rows []RawSalesRow) ([]domain.SalesRecord, error) {
	totals := make(map[salesKey]float64, len(rows))
	for _, row := range rows {
		date, err := parseSalesDate(row.Date)
		if err != nil {
			return nil, &ParseError{Sheet: salesSheetName, Row: row.Row, Value: row.Date, Err: err}
		}
		key := salesKey{
			date: date,
			city: cities.Normalize(cities.Sales, row.City),
			sku:  row.SKUID,
			desc: row.Description,
		}
		totals[key] += row.Quantity
	}

	records := make([]domain.SalesRecord, 0, len(totals))
	for key, qty := range totals {
		records = append(records, domain.SalesRecord{
			Date:           key.date,
			City:           key.city,
			SKUID:          key.sku,
			SKUDescription: key.desc,
			SalesQty:       qty,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.City != b.City {
			return a.City < b.City
		}
		if a.SKUID != b.SKUID {
			return a.SKUID < b.SKUID
		}
		return a.SKUDescription < b.SKUDescription
	})

	return records, nil
}

type inventoryKey struct {
	city string
	sku  string
	desc string
}

func preprocessInventory(rows []RawInventoryRow) []domain.InventoryRecord {
	totals := make(map[inventoryKey]float64, len(rows))
	for _, row := range rows {
		key := inventoryKey{
			city: cities.Normalize(cities.Inventory, row.City),
			sku:  row.SKUID,
			desc: row.Description,
		}
		totals[key] += row.StockOnHand
	}

	records := make([]domain.InventoryRecord, 0, len(totals))
	for key, units := range totals {
		records = append(records, domain.InventoryRecord{
			City:           key.city,
			SKUID:          key.sku,
			SKUDescription: key.desc,
			InventoryUnits: units,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.City != b.City {
			return a.City < b.City
		}
		if a.SKUID != b.SKUID {
			return a.SKUID < b.SKUID
		}
		return a.SKUDescription < b.SKUDescription
	})

	return records
}

var salesDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/06 15:04",
	"01-02-06",
}

// parseSalesDate accepts either an Excel serial number or one of the common
// textual layouts the exports use, truncated to the calendar day.
func parseSalesDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errEmptyDate
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return truncateToDay(t), nil
	}
	var lastErr error
	for _, layout := range salesDateLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return truncateToDay(t), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
