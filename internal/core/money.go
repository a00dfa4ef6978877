// Package core holds the pure financial computations shared by every tool
// page: invoice totals, record aggregation, goal and budget progress, and
// subscription cost normalization.
//
// This file contains amount parsing and currency display helpers. Parsing
// follows the "coerce, never fail" rule: any input that is not a valid
// number is treated as zero so a half-typed form field can never break a
// running calculation.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// currencySymbols maps ISO currency codes to their display symbols.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
	"CNY": "¥",
	"AUD": "A$",
	"CAD": "C$",
	"CHF": "CHF",
	"SGD": "S$",
	"AED": "د.إ",
	"BRL": "R$",
	"ZAR": "R",
}

// CurrencySymbol returns the display symbol for a currency code, falling
// back to the code itself for anything unlisted.
func CurrencySymbol(code string) string {
	if sym, ok := currencySymbols[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return sym
	}
	return code
}

// ParseAmount converts a free-form numeric string to a decimal amount.
// Accepts both dot and comma decimal separators. Anything unparsable
// yields zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders an amount with its currency symbol at two decimal
// places, e.g. "$1180.00". No digit grouping.
func FormatAmount(a decimal.Decimal, code string) string {
	return CurrencySymbol(code) + a.StringFixed(2)
}

// PercentOf returns part/whole expressed as a percentage, or zero when the
// whole is zero. Guarding here keeps NaN and Inf out of every downstream
// breakdown.
func PercentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100))
}
