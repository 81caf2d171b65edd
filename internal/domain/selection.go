package domain

import "strings"

// PanMode is the pan-India aggregation axis of a selection.
type PanMode string

const (
	PanNone    PanMode = "None"
	PanProduct PanMode = "Product Wise"
	PanCity    PanMode = "City Wise"
)

var panModes = map[string]PanMode{
	"none":         PanNone,
	"":             PanNone,
	"product wise": PanProduct,
	"product_wise": PanProduct,
	"city wise":    PanCity,
	"city_wise":    PanCity,
}

// ParsePanMode returns the pan mode for a given label (case-insensitive).
func ParsePanMode(label string) (PanMode, bool) {
	mode, ok := panModes[strings.ToLower(strings.TrimSpace(label))]

	return mode, ok
}

// ViewKind names the five report shapes plus the explicit "nothing selected"
// state.
type ViewKind string

const (
	ViewNone       ViewKind = "none"
	ViewSKUCity    ViewKind = "sku_city"
	ViewSKU        ViewKind = "sku"
	ViewCity       ViewKind = "city"
	ViewPanProduct ViewKind = "pan_product"
	ViewPanCity    ViewKind = "pan_city"
)

// Selection holds the three filter dimensions a user can set. The dimensions
// are mutually exclusive view axes: picking a concrete SKU or city drops the
// pan mode, and picking a pan mode drops both individual choices. The zero
// value means nothing is selected.
type Selection struct {
	SKU  string  `json:"sku"`
	City string  `json:"city"`
	Pan  PanMode `json:"pan"`
}

// noneValue reports whether a raw choice means "unselected". The upstream
// dropdowns send the literal string "None" for that.
func noneValue(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "None")
}

// HasSKU reports whether a concrete SKU is selected.
func (s Selection) HasSKU() bool { return !noneValue(s.SKU) }

// HasCity reports whether a concrete city is selected.
func (s Selection) HasCity() bool { return !noneValue(s.City) }

// WithSKU returns the selection after the SKU dropdown changes to sku.
// Choosing a concrete SKU resets the pan mode.
func (s Selection) WithSKU(sku string) Selection {
	if noneValue(sku) {
		s.SKU = ""
		return s
	}
	s.SKU = sku
	s.Pan = PanNone
	return s
}

// WithCity returns the selection after the city dropdown changes to city.
// Choosing a concrete city resets the pan mode.
func (s Selection) WithCity(city string) Selection {
	if noneValue(city) {
		s.City = ""
		return s
	}
	s.City = city
	s.Pan = PanNone
	return s
}

// WithPan returns the selection after the pan-India dropdown changes to mode.
// Choosing an actual pan view resets both individual choices.
func (s Selection) WithPan(mode PanMode) Selection {
	s.Pan = mode
	if mode != PanNone {
		s.SKU = ""
		s.City = ""
	}
	return s
}

// View resolves the selection to the report shape it asks for, in the fixed
// priority order: SKU+city, SKU, city, pan product, pan city. A selection
// with nothing set resolves to ViewNone.
func (s Selection) View() ViewKind {
	switch {
	case s.HasSKU() && s.HasCity():
		return ViewSKUCity
	case s.HasSKU():
		return ViewSKU
	case s.HasCity():
		return ViewCity
	case s.Pan == PanProduct:
		return ViewPanProduct
	case s.Pan == PanCity:
		return ViewPanCity
	}

	return ViewNone
}
