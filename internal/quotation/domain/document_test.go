package domain

import (
	"testing"
	"time"

	"github.com/smallbiznis/quotely/internal/pricing"
)

func sampleQuotation() *Quotation {
	return &Quotation{
		Client:        Client{Name: "Acme"},
		Currency:      "USD",
		DiscountType:  pricing.DiscountPercentage,
		DiscountValue: 10,
		TaxPercentage: 18,
		Shipping:      50,
		Status:        StatusDraft,
		IssueDate:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:    time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Items: []LineItem{
			{Name: "Design", Quantity: 6, UnitPrice: 100},
			{Name: "Build", Quantity: 4, UnitPrice: 100},
		},
	}
}

func TestRecompute(t *testing.T) {
	q := sampleQuotation()
	q.Recompute()

	if q.Items[0].Total != 600 || q.Items[1].Total != 400 {
		t.Fatalf("unexpected item totals: %v, %v", q.Items[0].Total, q.Items[1].Total)
	}
	if q.Subtotal != 1000 || q.DiscountAmount != 100 || q.TaxAmount != 162 || q.Total != 1112 {
		t.Fatalf("unexpected totals: %+v", q)
	}
	if q.TaxableAmount() != 900 {
		t.Fatalf("expected taxable 900, got %v", q.TaxableAmount())
	}
	if q.Items[1].Position != 1 {
		t.Fatalf("expected positions to follow item order")
	}
}

func TestRecomputeIgnoresStaleTotals(t *testing.T) {
	q := sampleQuotation()
	q.Items[0].Total = 99999
	q.Total = -1
	q.Recompute()

	if q.Items[0].Total != 600 || q.Total != 1112 {
		t.Fatalf("stale totals leaked into recompute: item=%v total=%v", q.Items[0].Total, q.Total)
	}
}

func TestRemoveOnlyItemLeavesDefault(t *testing.T) {
	q := &Quotation{Items: []LineItem{{Name: "Only", Quantity: 3, UnitPrice: 10}}}

	if err := q.RemoveItem(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(q.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(q.Items))
	}
	item := q.Items[0]
	if item.Name != "" || item.Quantity != 1 || item.UnitPrice != 0 || item.Total != 0 {
		t.Fatalf("expected default item, got %+v", item)
	}
}

func TestRemoveItemOutOfRange(t *testing.T) {
	q := sampleQuotation()
	if err := q.RemoveItem(5); err != ErrItemNotFound {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if err := q.RemoveItem(-1); err != ErrItemNotFound {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestRemoveItemKeepsOthers(t *testing.T) {
	q := sampleQuotation()
	q.Recompute()

	if err := q.RemoveItem(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(q.Items) != 1 || q.Items[0].Name != "Build" {
		t.Fatalf("unexpected items: %+v", q.Items)
	}
	if q.Subtotal != 400 {
		t.Fatalf("expected subtotal 400 after removal, got %v", q.Subtotal)
	}
}

func TestUpdateItemClampsDiscount(t *testing.T) {
	maxDiscount := 20.0
	q := &Quotation{Items: []LineItem{{Name: "Seat", Quantity: 1, UnitPrice: 100, MaxDiscount: &maxDiscount}}}

	requested := 35.0
	clamped, err := q.UpdateItem(0, ItemPatch{DiscountPercent: &requested})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !clamped {
		t.Fatalf("expected clamp to be reported")
	}
	if q.Items[0].DiscountPercent != 20 {
		t.Fatalf("expected stored discount 20, got %v", q.Items[0].DiscountPercent)
	}
	if q.Items[0].Total != 80 {
		t.Fatalf("expected total 80, got %v", q.Items[0].Total)
	}
}

func TestUpdateItemWithoutBound(t *testing.T) {
	q := &Quotation{Items: []LineItem{{Name: "Seat", Quantity: 2, UnitPrice: 50}}}

	discount := 35.0
	qty := 4.0
	clamped, err := q.UpdateItem(0, ItemPatch{DiscountPercent: &discount, Quantity: &qty})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if clamped || q.Items[0].DiscountPercent != 35 {
		t.Fatalf("expected unbounded discount 35, got %v clamped=%v", q.Items[0].DiscountPercent, clamped)
	}
	if q.Items[0].Total != 130 {
		t.Fatalf("expected total 130, got %v", q.Items[0].Total)
	}
}

func TestAddItemClampsDiscount(t *testing.T) {
	maxDiscount := 5.0
	q := sampleQuotation()
	q.AddItem(LineItem{Name: "Extra", Quantity: 1, UnitPrice: 100, DiscountPercent: 50, MaxDiscount: &maxDiscount})

	if got := q.Items[2].DiscountPercent; got != 5 {
		t.Fatalf("expected clamped discount 5, got %v", got)
	}
	if q.Subtotal != 1095 {
		t.Fatalf("expected subtotal 1095, got %v", q.Subtotal)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(q *Quotation)
		want   error
	}{
		{"valid", func(q *Quotation) {}, nil},
		{"missing client", func(q *Quotation) { q.Client.Name = " " }, ErrInvalidClient},
		{"no items", func(q *Quotation) { q.Items = nil }, ErrInvalidItems},
		{"unnamed item", func(q *Quotation) { q.Items[1].Name = "" }, ErrInvalidItemName},
		{"discount type", func(q *Quotation) { q.DiscountType = "bogus" }, ErrInvalidDiscountType},
		{"currency", func(q *Quotation) { q.Currency = "DOLLARS" }, ErrInvalidCurrency},
		{"status", func(q *Quotation) { q.Status = "archived" }, ErrInvalidStatus},
		{"dates", func(q *Quotation) { q.ValidUntil = time.Time{} }, ErrInvalidDates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := sampleQuotation()
			tt.mutate(q)
			if err := q.Validate(); err != tt.want {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(2025, 7); got != "QUO-2025-0007" {
		t.Fatalf("unexpected number %q", got)
	}
	if got := FormatNumber(2025, 12345); got != "QUO-2025-12345" {
		t.Fatalf("unexpected number %q", got)
	}
}

func TestNextNumber(t *testing.T) {
	tests := []struct {
		last string
		want string
	}{
		{"", "QUO-2025-0001"},
		{"QUO-2025-0009", "QUO-2025-0010"},
		{"QUO-2025-9999", "QUO-2025-10000"},
		{"QUO-2024-0042", "QUO-2025-0001"},
		{"QUO-2025-abc", "QUO-2025-0001"},
	}
	for _, tt := range tests {
		if got := NextNumber(2025, tt.last); got != tt.want {
			t.Fatalf("NextNumber(%q) = %q, want %q", tt.last, got, tt.want)
		}
	}
}
