// Package bill aggregates the lines of a shared bill and apportions it among
// the people who share it.
//
// A Bill is a plain in-memory value. It is not safe for concurrent mutation;
// callers that share one across goroutines must synchronize access.
package bill

import (
	"errors"
	"fmt"

	"github.com/mmynk/splitbill/internal/currency"
	"github.com/mmynk/splitbill/internal/money"
)

var (
	// ErrOutOfRange is returned for line positions outside the bill.
	ErrOutOfRange = errors.New("line position out of range")

	// ErrLineNotFound is returned when removing a line that is not on the bill.
	ErrLineNotFound = errors.New("line not found")
)

// ValidationError is the outcome of the reconciliation check.
type ValidationError int

const (
	// Valid means the taxed line sum matches the stated total.
	Valid ValidationError = iota

	// LineSumNotTotal means the taxed line sum differs from the stated total
	// by at least the currency's error margin.
	LineSumNotTotal
)

func (v ValidationError) String() string {
	switch v {
	case Valid:
		return "valid"
	case LineSumNotTotal:
		return "line_sum_not_total"
	default:
		return fmt.Sprintf("ValidationError(%d)", int(v))
	}
}

// SplitBill holds the usage and general totals of a bill.
type SplitBill struct {
	Usage   money.Money
	General money.Money
}

// Total returns Usage + General.
func (s SplitBill) Total() money.Money {
	return s.Usage.MustAdd(s.General)
}

// BillPortion is one person's share of a bill.
type BillPortion struct {
	Name string
	SplitBill
}

// Bill is an ordered list of lines and the total printed on the bill.
// Every amount on a bill is in the bill's currency. The zero value is an
// empty USD bill.
type Bill struct {
	currency    currency.Info
	totalAmount money.Money
	lines       []BillLine
}

// New returns an empty bill in cur with a zero stated total.
func New(cur currency.Info) *Bill {
	b := &Bill{currency: cur}
	b.totalAmount = money.Zero(b.Currency())
	return b
}

// Currency returns the bill's currency.
func (b *Bill) Currency() currency.Info {
	if b.currency.Code == "" {
		return currency.USD
	}
	return b.currency
}

// TotalAmount returns the total printed on the bill.
func (b *Bill) TotalAmount() money.Money {
	if b.totalAmount.Currency().Code != b.Currency().Code {
		return money.Zero(b.Currency())
	}
	return b.totalAmount
}

// SetTotalAmount sets the total printed on the bill.
func (b *Bill) SetTotalAmount(total money.Money) error {
	if err := b.checkCurrency(total); err != nil {
		return err
	}
	b.totalAmount = total
	return nil
}

// Lines returns a copy of the lines in order.
func (b *Bill) Lines() []BillLine {
	lines := make([]BillLine, len(b.lines))
	copy(lines, b.lines)
	return lines
}

// LineCount returns the number of lines.
func (b *Bill) LineCount() int {
	return len(b.lines)
}

// Line returns the line at pos.
func (b *Bill) Line(pos int) (BillLine, error) {
	if err := b.checkPosition(pos, len(b.lines)); err != nil {
		return BillLine{}, err
	}
	return b.lines[pos], nil
}

// AddLine appends line.
func (b *Bill) AddLine(line BillLine) error {
	return b.InsertLine(len(b.lines), line)
}

// InsertLine inserts line at pos, shifting later lines back. pos may equal
// LineCount to append.
func (b *Bill) InsertLine(pos int, line BillLine) error {
	if err := b.checkPosition(pos, len(b.lines)+1); err != nil {
		return err
	}
	if err := b.checkCurrency(line.Amount); err != nil {
		return fmt.Errorf("line %q: %w", line.Name, err)
	}
	b.lines = append(b.lines, BillLine{})
	copy(b.lines[pos+1:], b.lines[pos:])
	b.lines[pos] = line
	return nil
}

// UpdateLine replaces the line at pos.
func (b *Bill) UpdateLine(pos int, line BillLine) error {
	if err := b.checkPosition(pos, len(b.lines)); err != nil {
		return err
	}
	if err := b.checkCurrency(line.Amount); err != nil {
		return fmt.Errorf("line %q: %w", line.Name, err)
	}
	b.lines[pos] = line
	return nil
}

// RemoveLineAt removes the line at pos.
func (b *Bill) RemoveLineAt(pos int) error {
	if err := b.checkPosition(pos, len(b.lines)); err != nil {
		return err
	}
	b.lines = append(b.lines[:pos], b.lines[pos+1:]...)
	return nil
}

// RemoveLine removes the first line equal to line. It returns ErrLineNotFound
// if there is none.
func (b *Bill) RemoveLine(line BillLine) error {
	for i, l := range b.lines {
		if l.Equal(line) {
			return b.RemoveLineAt(i)
		}
	}
	return fmt.Errorf("%w: %q", ErrLineNotFound, line.Name)
}

// Total sums the taxed lines into usage and general totals.
func (b *Bill) Total() SplitBill {
	if len(b.lines) == 0 {
		return SplitBill{Usage: money.Zero(b.Currency()), General: money.Zero(b.Currency())}
	}

	var usageLines, generalLines []BillLine
	for _, line := range b.lines {
		if line.Split {
			usageLines = append(usageLines, line)
		} else {
			generalLines = append(generalLines, line)
		}
	}

	// Keep something to divide downstream even when one kind is missing.
	if len(usageLines) == 0 {
		usageLines = append(usageLines, BillLine{Amount: money.Zero(b.Currency()), Split: true})
	}
	if len(generalLines) == 0 {
		generalLines = append(generalLines, BillLine{Amount: money.Zero(b.Currency())})
	}

	return SplitBill{
		Usage:   b.sumTaxed(usageLines),
		General: b.sumTaxed(generalLines),
	}
}

// IsValid reports whether the taxed line sum matches the stated total within
// the currency's error margin.
func (b *Bill) IsValid() (bool, ValidationError) {
	diff := b.Total().Total().MustSubtract(b.TotalAmount()).Abs()
	if diff.Amount().LessThan(b.Currency().ErrorMargin()) {
		return true, Valid
	}
	return false, LineSumNotTotal
}

func (b *Bill) sumTaxed(lines []BillLine) money.Money {
	sum := money.Zero(b.Currency())
	for _, line := range lines {
		sum = sum.MustAdd(line.Taxed())
	}
	return sum
}

func (b *Bill) checkPosition(pos, limit int) error {
	if pos < 0 || pos >= limit {
		return fmt.Errorf("%w: %d (bill has %d lines)", ErrOutOfRange, pos, len(b.lines))
	}
	return nil
}

func (b *Bill) checkCurrency(m money.Money) error {
	if m.Currency().Code != b.Currency().Code {
		return fmt.Errorf("%w: bill is in %s, got %s", money.ErrCurrencyMismatch, b.Currency().Code, m.Currency().Code)
	}
	return nil
}
