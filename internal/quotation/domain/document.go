package domain

import (
	"strings"

	"github.com/smallbiznis/quotely/internal/money"
	"github.com/smallbiznis/quotely/internal/pricing"
)

// Adjustments returns the document-level pricing inputs.
func (q *Quotation) Adjustments() pricing.Adjustments {
	return pricing.Adjustments{
		DiscountType:  q.DiscountType,
		DiscountValue: q.DiscountValue,
		TaxPercentage: q.TaxPercentage,
		Shipping:      q.Shipping,
	}
}

// TaxableAmount is the subtotal after the document discount.
func (q *Quotation) TaxableAmount() float64 {
	return q.Subtotal - q.DiscountAmount
}

// Recompute refreshes every derived money field from the current inputs.
// Call it after each change to items, discount, tax or shipping.
func (q *Quotation) Recompute() pricing.Totals {
	q.ensureItems()

	items := make([]pricing.Item, len(q.Items))
	for i := range q.Items {
		items[i] = q.Items[i].PricingItem()
	}
	lines, totals := pricing.Compute(items, q.Adjustments())
	for i := range q.Items {
		q.Items[i].Total = lines[i].Total
		q.Items[i].Position = i
	}

	q.Subtotal = totals.Subtotal
	q.DiscountAmount = totals.DiscountAmount
	q.TaxAmount = totals.TaxAmount
	q.Total = totals.Total
	return totals
}

// AddItem appends an item and recomputes.
func (q *Quotation) AddItem(item LineItem) {
	clamped, _ := pricing.ClampDiscount(item.DiscountPercent, item.MaxDiscount)
	item.DiscountPercent = clamped
	q.Items = append(q.Items, item)
	q.Recompute()
}

// RemoveItem drops the item at index. Removing the last item leaves one default item.
func (q *Quotation) RemoveItem(index int) error {
	if index < 0 || index >= len(q.Items) {
		return ErrItemNotFound
	}
	q.Items = append(q.Items[:index:index], q.Items[index+1:]...)
	q.Recompute()
	return nil
}

// ItemPatch carries the fields of an item edit; nil fields are left unchanged.
type ItemPatch struct {
	Name            *string
	Description     *string
	Quantity        *float64
	UnitPrice       *float64
	DiscountPercent *float64
	TaxPercent      *float64
}

// UpdateItem applies patch to the item at index, clamping the discount to the
// item's MaxDiscount first. It reports whether the discount was clamped.
func (q *Quotation) UpdateItem(index int, patch ItemPatch) (bool, error) {
	if index < 0 || index >= len(q.Items) {
		return false, ErrItemNotFound
	}
	item := &q.Items[index]
	if patch.Name != nil {
		item.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		item.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.UnitPrice != nil {
		item.UnitPrice = *patch.UnitPrice
	}
	if patch.TaxPercent != nil {
		item.TaxPercent = *patch.TaxPercent
	}

	clamped := false
	if patch.DiscountPercent != nil {
		item.DiscountPercent, clamped = pricing.ClampDiscount(*patch.DiscountPercent, item.MaxDiscount)
	}

	q.Recompute()
	return clamped, nil
}

func (q *Quotation) ensureItems() {
	if len(q.Items) == 0 {
		q.Items = []LineItem{NewLineItem()}
	}
}

// Validate checks the preconditions callers run before persisting a quotation.
// Pricing and rendering never call it.
func (q *Quotation) Validate() error {
	if strings.TrimSpace(q.Client.Name) == "" {
		return ErrInvalidClient
	}
	if len(q.Items) == 0 {
		return ErrInvalidItems
	}
	for _, item := range q.Items {
		if strings.TrimSpace(item.Name) == "" {
			return ErrInvalidItemName
		}
	}
	if !q.DiscountType.Valid() {
		return ErrInvalidDiscountType
	}
	if !money.IsISOCurrency(q.Currency) {
		return ErrInvalidCurrency
	}
	if !q.Status.Valid() {
		return ErrInvalidStatus
	}
	if q.IssueDate.IsZero() || q.ValidUntil.IsZero() {
		return ErrInvalidDates
	}
	return nil
}
