package doi

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	salesSheetName     = "Sales"
	inventorySheetName = "Inventory"
)

// RawSalesRow is one line of the Sales sheet before normalization. Date is
// kept verbatim; parsing happens during preprocessing so a bad value can be
// reported with its sheet position.
type RawSalesRow struct {
	Row         int
	Date        string
	City        string
	SKUID       string
	Description string
	Quantity    float64
}

// RawInventoryRow is one line of the Inventory sheet before normalization.
type RawInventoryRow struct {
	Row         int
	City        string
	SKUID       string
	Description string
	StockOnHand float64
}

// RawTables holds both sheets of an uploaded workbook.
type RawTables struct {
	Sales     []RawSalesRow
	Inventory []RawInventoryRow
}

// ReadWorkbook reads an XLSX workbook containing the "Sales" and "Inventory"
// sheets and extracts their rows. Sheet names are matched ignoring case and
// surrounding whitespace; columns are located by normalized header name. A
// missing sheet or column yields a *SchemaError.
func ReadWorkbook(r io.Reader) (*RawTables, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	salesRows, err := sheetRows(f, salesSheetName)
	if err != nil {
		return nil, err
	}
	inventoryRows, err := sheetRows(f, inventorySheetName)
	if err != nil {
		return nil, err
	}

	sales, err := parseSalesSheet(salesRows)
	if err != nil {
		return nil, err
	}
	inventory, err := parseInventorySheet(inventoryRows)
	if err != nil {
		return nil, err
	}

	return &RawTables{Sales: sales, Inventory: inventory}, nil
}

// sheetRows returns all rows of the named sheet, matching the name loosely.
func sheetRows(f *excelize.File, name string) ([][]string, error) {
	for _, sheet := range f.GetSheetList() {
		if !strings.EqualFold(strings.TrimSpace(sheet), name) {
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		return rows, nil
	}

	return nil, &SchemaError{Sheet: name}
}

func parseSalesSheet(rows [][]string) ([]RawSalesRow, error) {
	if len(rows) == 0 {
		return nil, &SchemaError{Sheet: salesSheetName, Column: "date_range"}
	}

	header := rows[0]
	idxDate := columnIndex(header, "date_range")
	idxCity := columnIndex(header, "source_city_name")
	idxSKU := columnIndex(header, "source_sku_id")
	idxDesc := columnIndex(header, "sku_description")
	idxQty := columnIndex(header, "total_quantity")

	for col, idx := range map[string]int{
		"date_range":       idxDate,
		"source_city_name": idxCity,
		"source_sku_id":    idxSKU,
		"sku_description":  idxDesc,
		"total_quantity":   idxQty,
	} {
		if idx < 0 {
			return nil, &SchemaError{Sheet: salesSheetName, Column: col}
		}
	}

	parsed := make([]RawSalesRow, 0, len(rows)-1)
	for i, record := range rows[1:] {
		row := RawSalesRow{
			Row:         i + 2, // 1-based, after the header row
			Date:        cell(record, idxDate),
			City:        cell(record, idxCity),
			SKUID:       cell(record, idxSKU),
			Description: cell(record, idxDesc),
			Quantity:    numericCell(record, idxQty),
		}
		if row.Date == "" && row.City == "" && row.SKUID == "" && row.Description == "" {
			continue
		}
		parsed = append(parsed, row)
	}

	return parsed, nil
}

func parseInventorySheet(rows [][]string) ([]RawInventoryRow, error) {
	if len(rows) == 0 {
		return nil, &SchemaError{Sheet: inventorySheetName, Column: "city"}
	}

	header := rows[0]
	idxCity := columnIndex(header, "city")
	idxSKU := columnIndex(header, "sku_id")
	idxDesc := columnIndex(header, "sku_description")
	idxSOH := columnIndex(header, "soh")

	for col, idx := range map[string]int{
		"city":            idxCity,
		"sku_id":          idxSKU,
		"sku_description": idxDesc,
		"soh":             idxSOH,
	} {
		if idx < 0 {
			return nil, &SchemaError{Sheet: inventorySheetName, Column: col}
		}
	}

	parsed := make([]RawInventoryRow, 0, len(rows)-1)
	for i, record := range rows[1:] {
		row := RawInventoryRow{
			Row:         i + 2,
			City:        cell(record, idxCity),
			SKUID:       cell(record, idxSKU),
			Description: cell(record, idxDesc),
			StockOnHand: numericCell(record, idxSOH),
		}
		if row.City == "" && row.SKUID == "" && row.Description == "" {
			continue
		}
		parsed = append(parsed, row)
	}

	return parsed, nil
}

// columnIndex finds a header column by any of the given names, comparing
// normalized forms so "SKU Description" and "sku_description" both match.
func columnIndex(header []string, names ...string) int {
	targets := make(map[string]struct{}, len(names))
	for _, name := range names {
		targets[normalizeColumnName(name)] = struct{}{}
	}
	for i, h := range header {
		if _, ok := targets[normalizeColumnName(h)]; ok {
			return i
		}
	}
	return -1
}

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// numericCell parses a quantity cell leniently: blanks count as zero and
// thousands separators are stripped, matching how the source exports format
// numbers.
func numericCell(record []string, idx int) float64 {
	v := cell(record, idx)
	if v == "" {
		return 0
	}
	v = strings.ReplaceAll(v, ",", "")
	f, _ := strconv.ParseFloat(v, 64)
	return f
}
