package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/priyankgupta/doi-monitor/internal/domain"
)

func resultHeader(view domain.ViewKind) []string {
	switch view {
	case domain.ViewPanProduct:
		return []string{"SKU Description", "Sales Qty", "Inventory Units", "DOI"}
	case domain.ViewPanCity:
		return []string{"City", "Sales Qty", "Inventory Units", "DOI"}
	default:
		return []string{"SKU Description", "City", "Sales Qty", "Inventory Units", "DOI"}
	}
}

func rowCells(view domain.ViewKind, row domain.ResultRow, num func(float64) string) []string {
	var cells []string
	switch view {
	case domain.ViewPanProduct:
		cells = []string{row.SKUDescription}
	case domain.ViewPanCity:
		cells = []string{row.City}
	default:
		cells = []string{row.SKUDescription, row.City}
	}
	return append(cells, num(row.SalesQty), num(row.InventoryUnits), strconv.Itoa(row.DOI))
}

func writeCSV(w io.Writer, result *domain.Result) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	num := func(v float64) string { return fmt.Sprintf("%.2f", v) }

	if err := writer.Write(resultHeader(result.View)); err != nil {
		return err
	}
	for _, row := range result.Rows {
		if err := writer.Write(rowCells(result.View, row, num)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, result *domain.Result) {
	num := func(v float64) string { return formatINFloat(v, 2) }

	header := resultHeader(result.View)
	rows := make([][]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		rows = append(rows, rowCells(result.View, row, num))
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, cells := range rows {
		for i, cell := range cells {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = strings.Repeat("-", widths[i])
	}
	printRow(sep)
	for _, cells := range rows {
		printRow(cells)
	}

	fmt.Fprintf(w, "\nWindow: %d days (%s to %s), %d rows\n",
		result.WindowDays,
		result.StartDate.Format("2006-01-02"),
		result.MaxDate.Format("2006-01-02"),
		len(result.Rows))
}

// formatINFloat formats a float using Indian locale digit grouping: the last
// three integer digits form one group and the remaining digits group in twos.
// When the fractional part is zero after rounding, the decimal part is omitted.
// Example: 1234567.5 (2 decimals) => "12,34,567.50"; 1000.0 => "1,000".
func formatINFloat(v float64, decimals int) string {
	neg := v < 0
	if neg {
		v = -v
	}

	if decimals < 0 {
		decimals = 0
	}

	// round to requested decimal places
	factor := math.Pow(10, float64(decimals))
	scaled := math.Round(v * factor)
	intPart := int64(scaled) / int64(factor)
	fracPart := int64(scaled) % int64(factor)

	// group integer digits: three from the right, then twos
	s := strconv.FormatInt(intPart, 10)
	if len(s) > 3 {
		var buf []byte
		count := 0
		group := 3
		for i := len(s) - 1; i >= 0; i-- {
			buf = append(buf, s[i])
			count++
			if count == group && i != 0 {
				buf = append(buf, ',')
				count = 0
				group = 2
			}
		}
		// reverse buf
		for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
			buf[i], buf[j] = buf[j], buf[i]
		}
		s = string(buf)
	}

	prefix := ""
	if neg {
		prefix = "-"
	}

	// If there is no fractional part after rounding, omit decimals entirely
	if decimals == 0 || fracPart == 0 {
		return prefix + s
	}

	// Left-pad fractional part with zeros up to the requested precision
	fracStr := strconv.FormatInt(fracPart, 10)
	for len(fracStr) < decimals {
		fracStr = "0" + fracStr
	}

	return fmt.Sprintf("%s%s.%s", prefix, s, fracStr)
}
