// Package money provides an exact decimal monetary value bound to a currency.
//
// Amounts keep full precision through every operation. Rounding to the
// currency's minor units only happens when a value is read for display
// (Value, Float64, String), so chains of tax multiplications and proration
// divisions do not accumulate drift.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitbill/internal/currency"
)

// DivisionPrecision is the number of digits kept after the decimal point when dividing.
const DivisionPrecision = 50

// ErrCurrencyMismatch is returned when two amounts in different currencies are combined or compared.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Money is an amount in a specific currency. The zero value is zero USD.
type Money struct {
	amount   decimal.Decimal
	currency currency.Info
}

// New creates a Money from a float. The float is converted through its shortest
// decimal representation, so New(30.95, usd) holds exactly 30.95.
func New(value float64, cur currency.Info) Money {
	return Money{amount: decimal.NewFromFloat(value), currency: cur}
}

// NewFromDecimal creates a Money holding amount exactly.
func NewFromDecimal(amount decimal.Decimal, cur currency.Info) Money {
	return Money{amount: amount, currency: cur}
}

// NewFromString parses a decimal string in the currency identified by code.
func NewFromString(value, code string) (Money, error) {
	cur, err := currency.Lookup(code)
	if err != nil {
		return Money{}, err
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return Money{amount: amount, currency: cur}, nil
}

// Zero returns zero in the given currency.
func Zero(cur currency.Info) Money {
	return Money{amount: decimal.Zero, currency: cur}
}

// Currency returns the currency of m.
func (m Money) Currency() currency.Info {
	if m.currency.Code == "" {
		return currency.USD
	}
	return m.currency
}

// Amount returns the full-precision amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Value returns the amount rounded to the currency's minor units, half away from zero.
func (m Money) Value() decimal.Decimal {
	return m.amount.Round(m.Currency().MinorUnits)
}

// Float64 returns Value as a float64, for display and approximate comparisons only.
func (m Money) Float64() float64 {
	return m.Value().InexactFloat64()
}

func (m Money) sameCurrency(other Money) error {
	if m.Currency().Code != other.Currency().Code {
		return fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.Currency().Code, other.Currency().Code)
	}
	return nil
}

// Add returns m + other.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns m - other.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// MultiplyMoney returns m * other.
func (m Money) MultiplyMoney(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Mul(other.amount), currency: m.currency}, nil
}

// DivideMoney returns m / other. Panics if other is zero.
func (m Money) DivideMoney(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return m.Divide(other.amount), nil
}

// MustAdd is like Add but panics on a currency mismatch.
func (m Money) MustAdd(other Money) Money {
	sum, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return sum
}

// MustSubtract is like Subtract but panics on a currency mismatch.
func (m Money) MustSubtract(other Money) Money {
	diff, err := m.Subtract(other)
	if err != nil {
		panic(err)
	}
	return diff
}

// Multiply scales m by a dimensionless factor.
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// MultiplyInt scales m by n.
func (m Money) MultiplyInt(n int) Money {
	return m.Multiply(decimal.NewFromInt(int64(n)))
}

// Divide divides m by a dimensionless divisor. Panics if divisor is zero.
func (m Money) Divide(divisor decimal.Decimal) Money {
	if divisor.IsZero() {
		panic("money: division by zero")
	}
	return Money{amount: m.amount.DivRound(divisor, DivisionPrecision), currency: m.currency}
}

// DivideInt divides m by n. Panics if n is zero.
func (m Money) DivideInt(n int) Money {
	return m.Divide(decimal.NewFromInt(int64(n)))
}

// Cmp compares m and other: -1 if m < other, 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) (int, error) {
	if err := m.sameCurrency(other); err != nil {
		return 0, err
	}
	return m.amount.Cmp(other.amount), nil
}

// EqualAmount reports whether m and other hold the same full-precision
// amount. It fails with ErrCurrencyMismatch across currencies.
func (m Money) EqualAmount(other Money) (bool, error) {
	cmp, err := m.Cmp(other)
	if err != nil {
		return false, err
	}
	return cmp == 0, nil
}

// Equal reports whether m and other have the same currency and the same
// full-precision amount. It is the structural check used to match values;
// use EqualAmount or Cmp when a currency mismatch must surface as an error.
func (m Money) Equal(other Money) bool {
	return m.Currency().Code == other.Currency().Code && m.amount.Equal(other.amount)
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Abs returns the absolute value of m.
func (m Money) Abs() Money {
	return Money{amount: m.amount.Abs(), currency: m.currency}
}

// String formats the rounded value with the currency symbol, e.g. "$148.83".
func (m Money) String() string {
	cur := m.Currency()
	symbol := cur.Symbol
	if symbol == "" {
		symbol = cur.Code + " "
	}
	value := m.Value()
	if value.IsNegative() {
		return "-" + symbol + value.Abs().StringFixed(cur.MinorUnits)
	}
	return symbol + value.StringFixed(cur.MinorUnits)
}
