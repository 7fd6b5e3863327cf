package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitbill/internal/bill"
	"github.com/mmynk/splitbill/internal/currency"
	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/money"
	"github.com/mmynk/splitbill/internal/period"
)

// errInvalidInput marks request values that cannot be parsed.
var errInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errInvalidInput, fmt.Sprintf(format, args...))
}

// resolveCurrency looks up code, falling back to the default currency.
func (d Defaults) resolveCurrency(code string) (currency.Info, error) {
	if code == "" {
		return d.Currency, nil
	}
	return currency.Lookup(code)
}

// resolveLine fills in the default tax rate and split flag.
func (d Defaults) resolveLine(l Line) models.Line {
	line := models.Line{
		Name:        l.Name,
		Description: l.Description,
		TaxRate:     l.TaxRate,
		Amount:      l.Amount,
		Split:       true,
	}
	if line.TaxRate == "" {
		line.TaxRate = d.TaxRate.String()
	}
	if l.Split != nil {
		line.Split = *l.Split
	}
	return line
}

func (d Defaults) resolveLines(lines []Line) []models.Line {
	out := make([]models.Line, len(lines))
	for i, l := range lines {
		out[i] = d.resolveLine(l)
	}
	return out
}

// buildBill assembles a calculation bill from stored lines.
func buildBill(cur currency.Info, totalAmount string, lines []models.Line) (*bill.Bill, error) {
	b := bill.New(cur)
	if totalAmount != "" {
		total, err := decimal.NewFromString(totalAmount)
		if err != nil {
			return nil, invalidf("total_amount %q is not a decimal", totalAmount)
		}
		if err := b.SetTotalAmount(money.NewFromDecimal(total, cur)); err != nil {
			return nil, err
		}
	}

	for i, l := range lines {
		amount, err := decimal.NewFromString(l.Amount)
		if err != nil {
			return nil, invalidf("line %d amount %q is not a decimal", i, l.Amount)
		}
		taxRate, err := decimal.NewFromString(l.TaxRate)
		if err != nil {
			return nil, invalidf("line %d tax_rate %q is not a decimal", i, l.TaxRate)
		}
		err = b.AddLine(bill.BillLine{
			Name:        l.Name,
			Description: l.Description,
			TaxRate:     taxRate,
			Amount:      money.NewFromDecimal(amount, cur),
			Split:       l.Split,
		})
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

func parseRange(start, end string) (period.Range, error) {
	r, err := period.ParseRange(start, end)
	if err != nil && !errors.Is(err, period.ErrDegenerateRange) {
		return period.Range{}, fmt.Errorf("%w: %w", errInvalidInput, err)
	}
	return r, err
}

func parsePresence(presence []models.Presence) ([]period.PersonPeriod, error) {
	out := make([]period.PersonPeriod, len(presence))
	for i, p := range presence {
		pp, err := period.ParsePersonPeriod(p.Name, p.Start, p.End)
		if err != nil {
			if errors.Is(err, period.ErrDegenerateRange) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", errInvalidInput, err)
		}
		out[i] = pp
	}
	return out, nil
}

func presenceModels(presence []Presence) []models.Presence {
	out := make([]models.Presence, len(presence))
	for i, p := range presence {
		out[i] = models.Presence{Name: p.Name, Start: p.Start, End: p.End}
	}
	return out
}

func moneyMessage(m money.Money) Money {
	return Money{
		Amount:    m.Value().StringFixed(m.Currency().MinorUnits),
		Exact:     m.Amount().String(),
		Formatted: m.String(),
	}
}

func totalsMessage(b *bill.Bill) Totals {
	totals := b.Total()
	return Totals{
		Currency: b.Currency().Code,
		Usage:    moneyMessage(totals.Usage),
		General:  moneyMessage(totals.General),
		Total:    moneyMessage(totals.Total()),
	}
}

func summaryMessage(b *bill.Bill) BillSummary {
	valid, verr := b.IsValid()
	return BillSummary{
		Totals: totalsMessage(b),
		Valid:  valid,
		Error:  verr.String(),
	}
}

func portionMessages(portions []bill.BillPortion) []Portion {
	out := make([]Portion, len(portions))
	for i, p := range portions {
		out[i] = Portion{
			Name:    p.Name,
			Usage:   moneyMessage(p.Usage),
			General: moneyMessage(p.General),
			Total:   moneyMessage(p.Total()),
		}
	}
	return out
}

func billMessage(b *models.Bill) Bill {
	msg := Bill{
		ID:          b.ID,
		Title:       b.Title,
		Currency:    b.Currency,
		TotalAmount: b.TotalAmount,
		PeriodStart: b.PeriodStart,
		PeriodEnd:   b.PeriodEnd,
		Lines:       make([]Line, len(b.Lines)),
		People:      b.People,
		HouseholdID: b.HouseholdID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	for i, l := range b.Lines {
		split := l.Split
		msg.Lines[i] = Line{
			Name:        l.Name,
			Description: l.Description,
			TaxRate:     l.TaxRate,
			Amount:      l.Amount,
			Split:       &split,
		}
	}
	for _, p := range b.Presence {
		msg.Presence = append(msg.Presence, Presence{Name: p.Name, Start: p.Start, End: p.End})
	}
	return msg
}

func householdMessage(h *models.Household) Household {
	members := h.Members
	if members == nil {
		members = []string{}
	}
	return Household{
		ID:        h.ID,
		Name:      h.Name,
		Members:   members,
		CreatedAt: h.CreatedAt,
	}
}
