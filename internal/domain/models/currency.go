package models

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the symbol a monetary amount is recorded in.
type Currency string

const (
	CurrencyUSD Currency = "$"
	CurrencyEUR Currency = "€"
	CurrencyTRY Currency = "₺"
	CurrencyGBP Currency = "£"
)

var isoCodes = map[Currency]string{
	CurrencyUSD: money.USD,
	CurrencyEUR: money.EUR,
	CurrencyTRY: money.TRY,
	CurrencyGBP: money.GBP,
}

// Currencies returns the curated selector set in display order.
func Currencies() []Currency {
	return []Currency{CurrencyUSD, CurrencyEUR, CurrencyTRY, CurrencyGBP}
}

// ParseCurrency accepts a curated symbol or its ISO code. Anything else is kept
// as free text.
func ParseCurrency(value string) Currency {
	trimmed := strings.TrimSpace(value)
	for symbol, code := range isoCodes {
		if strings.EqualFold(trimmed, code) {
			return symbol
		}
	}
	return Currency(trimmed)
}

// IsBlank reports whether the currency tag is empty.
func (c Currency) IsBlank() bool { return strings.TrimSpace(string(c)) == "" }

// IsKnown reports whether the currency belongs to the curated set.
func (c Currency) IsKnown() bool {
	_, ok := isoCodes[ParseCurrency(string(c))]
	return ok
}

// Code returns the ISO 4217 code for curated currencies and the raw tag otherwise.
func (c Currency) Code() string {
	normalized := ParseCurrency(string(c))
	if code, ok := isoCodes[normalized]; ok {
		return code
	}
	return string(normalized)
}

// Same reports whether both tags denote the same currency.
func (c Currency) Same(other Currency) bool {
	return c.Code() == other.Code()
}

// Format renders an amount in the currency's conventional notation.
func (c Currency) Format(amount decimal.Decimal) string {
	if !c.IsKnown() {
		return strings.TrimSpace(amount.StringFixed(2) + " " + string(c))
	}

	cur := *money.New(0, c.Code()).Currency()
	minor := amount.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}
