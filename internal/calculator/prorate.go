package calculator

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/mmynk/splitbill/internal/money"
	"github.com/mmynk/splitbill/internal/period"
)

// ErrDuplicatePerson is returned when a roster names the same person twice.
var ErrDuplicatePerson = errors.New("duplicate person in roster")

// Share is one person's calculated portion of a bill.
type Share struct {
	Name    string
	Usage   money.Money
	General money.Money
}

// Prorate divides usage and general totals among people over the billing range.
//
// Algorithm:
//   - usage is spread evenly over the days of r
//   - each day's usage is divided among the presence periods covering that day
//   - a day nobody claimed is split evenly across the whole roster
//   - general is split evenly across the roster regardless of presence
//
// Presence periods for names that are not on the roster are ignored so that
// the shares always add up to usage + general. Shares are returned in roster
// order. An empty roster yields no shares and no error.
func Prorate(usage, general money.Money, r period.Range, presence []period.PersonPeriod, people []string) ([]Share, error) {
	return ProrateContext(context.Background(), usage, general, r, presence, people)
}

// ProrateContext is Prorate that stops with ctx.Err() once ctx is done.
func ProrateContext(ctx context.Context, usage, general money.Money, r period.Range, presence []period.PersonPeriod, people []string) ([]Share, error) {
	if len(people) == 0 {
		return []Share{}, nil
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	onRoster := make(map[string]bool, len(people))
	for _, name := range people {
		if onRoster[name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePerson, name)
		}
		onRoster[name] = true
	}

	var counted []period.PersonPeriod
	for _, p := range presence {
		if onRoster[p.Name] {
			counted = append(counted, p)
		}
	}

	usagePart := usage.DivideInt(r.Days())
	days := r.Dates()

	// First pass: how many parts each day is split into.
	dayParts := make(map[civil.Date]int, len(days))
	everyoneDays := 0
	for _, day := range days {
		parts := 0
		for _, p := range counted {
			if p.Period.Contains(day) {
				parts++
			}
		}
		if parts == 0 {
			parts = len(people)
			everyoneDays++
		}
		dayParts[day] = parts
	}
	everyoneUsage := usagePart.DivideInt(len(people)).MultiplyInt(everyoneDays)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Second pass: what presence on a given day costs.
	dayAmounts := make(map[civil.Date]money.Money, len(days))
	for _, day := range days {
		dayAmounts[day] = usagePart.DivideInt(dayParts[day])
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Third pass: total each person's contribution.
	generalChunk := general.DivideInt(len(people))
	shares := make([]Share, 0, len(people))
	for _, name := range people {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		personUsage := everyoneUsage
		for _, p := range counted {
			if p.Name != name {
				continue
			}
			for _, day := range days {
				if p.Period.Contains(day) {
					personUsage = personUsage.MustAdd(dayAmounts[day])
				}
			}
		}
		shares = append(shares, Share{Name: name, Usage: personUsage, General: generalChunk})
	}

	return shares, nil
}
