// Package money formats amounts for display. Nothing here feeds back into pricing.
package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const DefaultCurrency = "USD"

// NotANumber is displayed for amounts that overflowed to ±Inf or NaN.
const NotANumber = "n/a"

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
	"IDR": "Rp",
	"AUD": "A$",
	"CAD": "C$",
	"SGD": "S$",
	"AED": "AED ",
	"CHF": "CHF ",
}

// NormalizeCurrency upper-cases and trims a currency code, defaulting to USD.
func NormalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	return code
}

// IsISOCurrency reports whether code is a recognized ISO 4217 currency.
func IsISOCurrency(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return false
	}
	_, err := currency.ParseISO(code)
	return err == nil
}

// Scale returns the number of minor-unit digits displayed for a currency.
func Scale(code string) int32 {
	unit, err := currency.ParseISO(NormalizeCurrency(code))
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale)
}

// Symbol returns the display prefix for a currency code.
func Symbol(code string) string {
	code = NormalizeCurrency(code)
	if sym, ok := symbols[code]; ok {
		return sym
	}
	return code + " "
}

// Format renders amount with symbol, thousands grouping and the currency's decimals.
// Negative amounts keep their sign in front of the symbol.
func Format(amount float64, code string) string {
	if !finite(amount) {
		return NotANumber
	}
	code = NormalizeCurrency(code)
	value := decimal.NewFromFloat(amount).Round(Scale(code))

	sign := ""
	if value.IsNegative() {
		sign = "-"
		value = value.Neg()
	}
	return sign + Symbol(code) + group(value.StringFixed(Scale(code)))
}

// FormatNumber renders amount with grouping and the currency's decimals but no symbol.
func FormatNumber(amount float64, code string) string {
	if !finite(amount) {
		return NotANumber
	}
	scale := Scale(code)
	value := decimal.NewFromFloat(amount).Round(scale)
	if value.IsNegative() {
		return "-" + group(value.Neg().StringFixed(scale))
	}
	return group(value.StringFixed(scale))
}

// FormatPercent renders a percentage without trailing zeros, e.g. 12.5%.
func FormatPercent(value float64) string {
	if !finite(value) {
		return NotANumber
	}
	return trimZeros(decimal.NewFromFloat(value).Round(2).StringFixed(2)) + "%"
}

// FormatQuantity renders a quantity with at most two decimals.
func FormatQuantity(value float64) string {
	if !finite(value) {
		return NotANumber
	}
	return trimZeros(decimal.NewFromFloat(value).Round(2).StringFixed(2))
}

func finite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}

func trimZeros(value string) string {
	if !strings.Contains(value, ".") {
		return value
	}
	return strings.TrimRight(strings.TrimRight(value, "0"), ".")
}

func group(fixed string) string {
	intPart, fracPart, hasFrac := strings.Cut(fixed, ".")
	if len(intPart) <= 3 {
		if hasFrac {
			return intPart + "." + fracPart
		}
		return intPart
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}
