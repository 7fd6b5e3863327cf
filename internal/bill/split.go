package bill

import (
	"context"

	"github.com/mmynk/splitbill/internal/calculator"
	"github.com/mmynk/splitbill/internal/period"
)

// Split apportions the bill among people over r. Usage totals are prorated
// by the presence periods; general totals are divided evenly. Portions are
// returned in the order of people.
func (b *Bill) Split(r period.Range, presence []period.PersonPeriod, people []string) ([]BillPortion, error) {
	return b.SplitContext(context.Background(), r, presence, people)
}

// SplitContext is Split that gives up with ctx.Err() once ctx is done.
func (b *Bill) SplitContext(ctx context.Context, r period.Range, presence []period.PersonPeriod, people []string) ([]BillPortion, error) {
	totals := b.Total()
	shares, err := calculator.ProrateContext(ctx, totals.Usage, totals.General, r, presence, people)
	if err != nil {
		return nil, err
	}

	portions := make([]BillPortion, len(shares))
	for i, share := range shares {
		portions[i] = BillPortion{
			Name:      share.Name,
			SplitBill: SplitBill{Usage: share.Usage, General: share.General},
		}
	}
	return portions, nil
}

// SplitDates is Split over the ISO-8601 dates start through end, inclusive.
func (b *Bill) SplitDates(start, end string, presence []period.PersonPeriod, people []string) ([]BillPortion, error) {
	if len(people) == 0 {
		return []BillPortion{}, nil
	}
	r, err := period.ParseRange(start, end)
	if err != nil {
		return nil, err
	}
	return b.Split(r, presence, people)
}
