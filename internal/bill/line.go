package bill

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitbill/internal/money"
)

// BillLine is one charge on a bill.
type BillLine struct {
	Name        string
	Description string

	// TaxRate is fractional: 0.07 means 7%.
	TaxRate decimal.Decimal

	// Amount is the pre-tax charge.
	Amount money.Money

	// Split marks a usage line, prorated by presence. General lines
	// (Split == false) are divided evenly regardless of presence.
	Split bool
}

// NewLine returns a usage line. The default tax rate is supplied by the caller.
func NewLine(name string, amount money.Money, taxRate decimal.Decimal) BillLine {
	return BillLine{
		Name:    name,
		TaxRate: taxRate,
		Amount:  amount,
		Split:   true,
	}
}

// Taxed returns Amount * (1 + TaxRate).
func (l BillLine) Taxed() money.Money {
	return l.Amount.Multiply(decimal.NewFromInt(1).Add(l.TaxRate))
}

// Equal reports whether every field of l and other matches.
func (l BillLine) Equal(other BillLine) bool {
	return l.Name == other.Name &&
		l.Description == other.Description &&
		l.TaxRate.Equal(other.TaxRate) &&
		l.Amount.Equal(other.Amount) &&
		l.Split == other.Split
}
