package money

import (
	"math"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency string
		want     string
	}{
		{"usd grouping", 1112, "USD", "$1,112.00"},
		{"usd fraction", 283.5, "usd", "$283.50"},
		{"negative", -50, "USD", "-$50.00"},
		{"jpy no decimals", 1234567.4, "JPY", "¥1,234,567"},
		{"empty defaults to usd", 0.5, "", "$0.50"},
		{"unknown code prefixes code", 10, "XYZ", "XYZ 10.00"},
		{"eur millions", 1000000, "EUR", "€1,000,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.amount, tt.currency); got != tt.want {
				t.Fatalf("Format(%v, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}

func TestFormatPercentAndQuantity(t *testing.T) {
	if got := FormatPercent(12.5); got != "12.5%" {
		t.Fatalf("expected 12.5%%, got %q", got)
	}
	if got := FormatPercent(18); got != "18%" {
		t.Fatalf("expected 18%%, got %q", got)
	}
	if got := FormatQuantity(3); got != "3" {
		t.Fatalf("expected 3, got %q", got)
	}
	if got := FormatQuantity(2.25); got != "2.25" {
		t.Fatalf("expected 2.25, got %q", got)
	}
}

func TestIsISOCurrency(t *testing.T) {
	if !IsISOCurrency("usd") {
		t.Fatalf("expected usd to be valid")
	}
	if IsISOCurrency("DOLLARS") {
		t.Fatalf("expected DOLLARS to be invalid")
	}
	if IsISOCurrency("") {
		t.Fatalf("expected empty code to be invalid")
	}
}

func TestFormatNonFinite(t *testing.T) {
	large := 1e200
	overflow := large * large
	values := []float64{overflow, -overflow, math.NaN()}

	for _, value := range values {
		if got := Format(value, "USD"); got != NotANumber {
			t.Fatalf("Format(%v) = %q, want %q", value, got, NotANumber)
		}
		if got := FormatNumber(value, "USD"); got != NotANumber {
			t.Fatalf("FormatNumber(%v) = %q, want %q", value, got, NotANumber)
		}
		if got := FormatPercent(value); got != NotANumber {
			t.Fatalf("FormatPercent(%v) = %q, want %q", value, got, NotANumber)
		}
		if got := FormatQuantity(value); got != NotANumber {
			t.Fatalf("FormatQuantity(%v) = %q, want %q", value, got, NotANumber)
		}
	}
}
