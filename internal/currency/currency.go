// Package currency provides the static ISO 4217 registry used to format and
// round monetary values.
package currency

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownCurrency is returned when a code is not in the registry.
var ErrUnknownCurrency = errors.New("unknown currency")

// Info describes a currency.
type Info struct {
	// Code is the ISO 4217 alphabetic code, upper case (e.g., "USD").
	Code string

	// Symbol is the display prefix (e.g., "$"). Falls back to the code.
	Symbol string

	// MinorUnits is the number of digits after the decimal point (2 for cents).
	MinorUnits int32
}

// Multiplier returns the number of minor units in one major unit (100 for USD).
func (i Info) Multiplier() decimal.Decimal {
	return decimal.New(1, i.MinorUnits)
}

// ErrorMargin returns the smallest difference that is considered significant
// when reconciling amounts: one minor unit.
func (i Info) ErrorMargin() decimal.Decimal {
	return decimal.New(1, -i.MinorUnits)
}

// String returns the currency code.
func (i Info) String() string {
	return i.Code
}

var registry = map[string]Info{
	"AUD": {Code: "AUD", Symbol: "A$", MinorUnits: 2},
	"BHD": {Code: "BHD", Symbol: "BHD ", MinorUnits: 3},
	"BRL": {Code: "BRL", Symbol: "R$", MinorUnits: 2},
	"CAD": {Code: "CAD", Symbol: "C$", MinorUnits: 2},
	"CHF": {Code: "CHF", Symbol: "CHF ", MinorUnits: 2},
	"CLP": {Code: "CLP", Symbol: "CLP ", MinorUnits: 0},
	"CNY": {Code: "CNY", Symbol: "¥", MinorUnits: 2},
	"CZK": {Code: "CZK", Symbol: "Kč ", MinorUnits: 2},
	"DKK": {Code: "DKK", Symbol: "kr ", MinorUnits: 2},
	"EUR": {Code: "EUR", Symbol: "€", MinorUnits: 2},
	"GBP": {Code: "GBP", Symbol: "£", MinorUnits: 2},
	"HKD": {Code: "HKD", Symbol: "HK$", MinorUnits: 2},
	"HUF": {Code: "HUF", Symbol: "Ft ", MinorUnits: 2},
	"IDR": {Code: "IDR", Symbol: "Rp ", MinorUnits: 2},
	"ILS": {Code: "ILS", Symbol: "₪", MinorUnits: 2},
	"INR": {Code: "INR", Symbol: "₹", MinorUnits: 2},
	"ISK": {Code: "ISK", Symbol: "kr ", MinorUnits: 0},
	"JOD": {Code: "JOD", Symbol: "JOD ", MinorUnits: 3},
	"JPY": {Code: "JPY", Symbol: "¥", MinorUnits: 0},
	"KRW": {Code: "KRW", Symbol: "₩", MinorUnits: 0},
	"KWD": {Code: "KWD", Symbol: "KWD ", MinorUnits: 3},
	"MXN": {Code: "MXN", Symbol: "MX$", MinorUnits: 2},
	"NOK": {Code: "NOK", Symbol: "kr ", MinorUnits: 2},
	"NZD": {Code: "NZD", Symbol: "NZ$", MinorUnits: 2},
	"PLN": {Code: "PLN", Symbol: "zł ", MinorUnits: 2},
	"SEK": {Code: "SEK", Symbol: "kr ", MinorUnits: 2},
	"SGD": {Code: "SGD", Symbol: "S$", MinorUnits: 2},
	"TND": {Code: "TND", Symbol: "TND ", MinorUnits: 3},
	"TRY": {Code: "TRY", Symbol: "₺", MinorUnits: 2},
	"USD": {Code: "USD", Symbol: "$", MinorUnits: 2},
	"VND": {Code: "VND", Symbol: "₫", MinorUnits: 0},
	"ZAR": {Code: "ZAR", Symbol: "R ", MinorUnits: 2},
}

// USD is the fallback currency for zero values.
var USD = registry["USD"]

// Lookup returns the currency registered under code. Matching is case-insensitive.
func Lookup(code string) (Info, error) {
	info, ok := registry[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Info{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return info, nil
}

// MustLookup is like Lookup but panics on unknown codes.
func MustLookup(code string) Info {
	info, err := Lookup(code)
	if err != nil {
		panic(err)
	}
	return info
}

// Codes returns all registered codes in alphabetical order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
