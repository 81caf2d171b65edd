package doi

import (
	"sort"

	"github.com/priyankgupta/doi-monitor/internal/domain"
)

// filterRule pairs a selection predicate with the grouping it produces. Rules
// are evaluated in fixed priority order and the first match wins, so exactly
// one view is ever active.
type filterRule struct {
	view    domain.ViewKind
	matches func(domain.Selection) bool
	apply   func([]domain.BaseRow, domain.Selection) []domain.ResultRow
}

var filterRules = []filterRule{
	{
		view:    domain.ViewSKUCity,
		matches: func(s domain.Selection) bool { return s.HasSKU() && s.HasCity() },
		apply: func(rows []domain.BaseRow, s domain.Selection) []domain.ResultRow {
			rows = filterRows(rows, func(r domain.BaseRow) bool {
				return r.SKUDescription == s.SKU && r.City == s.City
			})
			return groupSum(rows, true, true)
		},
	},
	{
		view:    domain.ViewSKU,
		matches: func(s domain.Selection) bool { return s.HasSKU() },
		apply: func(rows []domain.BaseRow, s domain.Selection) []domain.ResultRow {
			rows = filterRows(rows, func(r domain.BaseRow) bool {
				return r.SKUDescription == s.SKU
			})
			return groupSum(rows, true, true)
		},
	},
	{
		view:    domain.ViewCity,
		matches: func(s domain.Selection) bool { return s.HasCity() },
		apply: func(rows []domain.BaseRow, s domain.Selection) []domain.ResultRow {
			rows = filterRows(rows, func(r domain.BaseRow) bool {
				return r.City == s.City
			})
			return groupSum(rows, true, true)
		},
	},
	{
		view:    domain.ViewPanProduct,
		matches: func(s domain.Selection) bool { return s.Pan == domain.PanProduct },
		apply: func(rows []domain.BaseRow, _ domain.Selection) []domain.ResultRow {
			return groupSum(rows, true, false)
		},
	},
	{
		view:    domain.ViewPanCity,
		matches: func(s domain.Selection) bool { return s.Pan == domain.PanCity },
		apply: func(rows []domain.BaseRow, _ domain.Selection) []domain.ResultRow {
			return groupSum(rows, false, true)
		},
	},
}

// ApplyFilter resolves the selection against the base table and returns the
// aggregated view with DOI computed per row. A selection with nothing set
// yields a ViewNone result with no rows, which callers present as "nothing
// selected yet" rather than an error.
func ApplyFilter(base *domain.BaseTable, sel domain.Selection) *domain.Result {
	result := &domain.Result{
		View:       domain.ViewNone,
		WindowDays: base.WindowDays,
		StartDate:  base.StartDate,
		MaxDate:    base.MaxDate,
		Rows:       []domain.ResultRow{},
	}
	for _, rule := range filterRules {
		if !rule.matches(sel) {
			continue
		}
		result.View = rule.view
		result.Rows = ApplyDOI(rule.apply(base.Rows, sel), base.WindowDays)
		break
	}

	return result
}

func filterRows(rows []domain.BaseRow, keep func(domain.BaseRow) bool) []domain.BaseRow {
	out := make([]domain.BaseRow, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

type resultKey struct {
	desc string
	city string
}

// groupSum aggregates sales and inventory over the chosen key columns. Rows
// without a description are skipped when grouping by description, since they
// cannot be keyed.
func groupSum(rows []domain.BaseRow, byDesc, byCity bool) []domain.ResultRow {
	type totals struct {
		salesQty       float64
		inventoryUnits float64
	}

	sums := make(map[resultKey]*totals)
	order := make([]resultKey, 0)
	for _, row := range rows {
		var key resultKey
		if byDesc {
			if row.SKUDescription == "" {
				continue
			}
			key.desc = row.SKUDescription
		}
		if byCity {
			key.city = row.City
		}
		agg, ok := sums[key]
		if !ok {
			agg = &totals{}
			sums[key] = agg
			order = append(order, key)
		}
		agg.salesQty += row.SalesQty
		agg.inventoryUnits += row.InventoryUnits
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].desc != order[j].desc {
			return order[i].desc < order[j].desc
		}
		return order[i].city < order[j].city
	})

	out := make([]domain.ResultRow, 0, len(order))
	for _, key := range order {
		agg := sums[key]
		out = append(out, domain.ResultRow{
			SKUDescription: key.desc,
			City:           key.city,
			SalesQty:       agg.salesQty,
			InventoryUnits: agg.inventoryUnits,
		})
	}

	return out
}
