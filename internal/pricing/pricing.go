// Package pricing derives line item and document totals from raw quotation inputs.
//
// Every function here is pure: same input, same output, no validation and no clamping
// of negative results. Callers validate before invoking and recompute after every
// mutation of the inputs listed on Adjustments and Item.
package pricing

// DiscountType selects how Adjustments.DiscountValue is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Valid reports whether t is one of the known discount types.
func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// Item is the priced part of a line item.
type Item struct {
	Quantity        float64
	UnitPrice       float64
	DiscountPercent float64
	TaxPercent      float64
	// MaxDiscount is the optional per-item discount ceiling carried from a product.
	MaxDiscount *float64
}

// LineBreakdown holds every intermediate value of a line total.
type LineBreakdown struct {
	Subtotal           float64 `json:"subtotal"`
	DiscountAmount     float64 `json:"discount_amount"`
	PriceAfterDiscount float64 `json:"price_after_discount"`
	TaxAmount          float64 `json:"tax_amount"`
	Total              float64 `json:"total"`
}

// Line computes the breakdown for a single item.
func Line(item Item) LineBreakdown {
	subtotal := item.UnitPrice * item.Quantity
	discount := subtotal * (item.DiscountPercent / 100)
	afterDiscount := subtotal - discount
	tax := afterDiscount * (item.TaxPercent / 100)
	return LineBreakdown{
		Subtotal:           subtotal,
		DiscountAmount:     discount,
		PriceAfterDiscount: afterDiscount,
		TaxAmount:          tax,
		Total:              afterDiscount + tax,
	}
}

// LineTotal is Line(item).Total.
func LineTotal(item Item) float64 {
	return Line(item).Total
}

// ClampDiscount bounds a requested discount by the item's MaxDiscount.
// It reports whether the requested value was reduced.
func ClampDiscount(requested float64, maxDiscount *float64) (float64, bool) {
	if maxDiscount == nil {
		return requested, false
	}
	if requested > *maxDiscount {
		return *maxDiscount, true
	}
	return requested, false
}

// Adjustments are the document-level discount, tax and shipping inputs.
type Adjustments struct {
	DiscountType  DiscountType
	DiscountValue float64
	TaxPercentage float64
	Shipping      float64
}

// Totals are the derived document-level money fields.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxableAmount  float64 `json:"taxable_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	Total          float64 `json:"total"`
}

// DocumentDiscount returns the discount amount for a subtotal.
// Unknown discount types apply no discount.
func DocumentDiscount(subtotal float64, adj Adjustments) float64 {
	switch adj.DiscountType {
	case DiscountPercentage:
		return subtotal * (adj.DiscountValue / 100)
	case DiscountFixed:
		return adj.DiscountValue
	default:
		return 0
	}
}

// Document sums already-computed line totals and applies the adjustments.
func Document(lineTotals []float64, adj Adjustments) Totals {
	var subtotal float64
	for _, total := range lineTotals {
		subtotal += total
	}

	discount := DocumentDiscount(subtotal, adj)
	taxable := subtotal - discount
	tax := taxable * (adj.TaxPercentage / 100)
	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxableAmount:  taxable,
		TaxAmount:      tax,
		Total:          taxable + tax + adj.Shipping,
	}
}

// Compute prices every item and then the document.
// The returned slice is index-aligned with items.
func Compute(items []Item, adj Adjustments) ([]LineBreakdown, Totals) {
	lines := make([]LineBreakdown, len(items))
	lineTotals := make([]float64, len(items))
	for i, item := range items {
		lines[i] = Line(item)
		lineTotals[i] = lines[i].Total
	}
	return lines, Document(lineTotals, adj)
}
