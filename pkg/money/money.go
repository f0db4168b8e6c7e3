// Package money provides currency-aware amount parsing and formatting for
// bank-statement values. Amounts are decimal.Decimal throughout; go-money
// supplies ISO-4217 currency metadata for display.
package money

import (
	"errors"
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Common currency codes (ISO-4217)
const (
	GBP = "GBP"
	EUR = "EUR"
	USD = "USD"
)

// ErrEmptyAmount is returned when an amount string contains no digits.
var ErrEmptyAmount = errors.New("empty amount")

// currencySymbols are stripped before numeric parsing. Multi-rune symbols
// come before their single-rune prefixes.
var currencySymbols = []string{"R$", "£", "€", "$", "¥", "₹", "GBP", "EUR", "USD"}

// ParseAmount parses a statement amount string into a decimal value.
// It strips currency symbols and whitespace, treats parenthesized values as
// negative (accounting notation), and removes thousands separators.
// When european is true the input uses 1.234,56 formatting.
func ParseAmount(raw string, european bool) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = strings.TrimPrefix(s, "-")
	}
	s = strings.TrimPrefix(s, "+")

	if european {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// DetectCurrency returns the ISO code hinted by a symbol inside the raw
// string, or "" when none is present.
func DetectCurrency(raw string) string {
	switch {
	case strings.Contains(raw, "£") || strings.Contains(raw, "GBP"):
		return GBP
	case strings.Contains(raw, "R$") || strings.Contains(raw, "BRL"):
		return "BRL"
	case strings.Contains(raw, "€") || strings.Contains(raw, "EUR"):
		return EUR
	case strings.Contains(raw, "$") || strings.Contains(raw, "USD"):
		return USD
	}
	return ""
}

// ValidCurrency reports whether code is a known ISO-4217 currency.
func ValidCurrency(code string) bool {
	return gomoney.GetCurrency(strings.ToUpper(code)) != nil
}

// Format renders an amount with the currency's symbol and fraction digits,
// e.g. Format(d, "GBP") -> "£1,234.56".
func Format(amount decimal.Decimal, currencyCode string) string {
	currency := gomoney.GetCurrency(strings.ToUpper(currencyCode))
	if currency == nil {
		currency = gomoney.GetCurrency(GBP)
	}
	minor := amount.Mul(decimal.New(1, int32(currency.Fraction))).Round(0).IntPart()
	return gomoney.New(minor, currency.Code).Display()
}

// Symbol returns the display symbol for a currency code.
func Symbol(currencyCode string) string {
	currency := gomoney.GetCurrency(strings.ToUpper(currencyCode))
	if currency == nil {
		return currencyCode
	}
	return currency.Grapheme
}
