// Package period provides inclusive calendar date ranges and the presence
// periods that tie a person to the days they were present.
package period

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// ErrDegenerateRange is returned for ranges that cover less than one day.
var ErrDegenerateRange = errors.New("date range must cover at least one day")

// Range is a span of calendar days. Both Start and End are included.
type Range struct {
	Start civil.Date
	End   civil.Date
}

// NewRange returns the inclusive range [start, end].
func NewRange(start, end civil.Date) (Range, error) {
	r := Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// ParseRange parses ISO-8601 dates (YYYY-MM-DD) into an inclusive range.
func ParseRange(start, end string) (Range, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Range{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return Range{}, err
	}
	return NewRange(s, e)
}

// ParseDate parses an ISO-8601 calendar date.
func ParseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// Days returns the number of days in the range, counting both ends.
func (r Range) Days() int {
	return r.End.DaysSince(r.Start) + 1
}

// Validate checks that the range covers at least one valid day.
func (r Range) Validate() error {
	if !r.Start.IsValid() || !r.End.IsValid() {
		return fmt.Errorf("%w: invalid date in %s", ErrDegenerateRange, r)
	}
	if r.Days() < 1 {
		return fmt.Errorf("%w: %s", ErrDegenerateRange, r)
	}
	return nil
}

// Contains reports whether day falls within the range.
func (r Range) Contains(day civil.Date) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}

// Dates returns every day in the range in order.
func (r Range) Dates() []civil.Date {
	n := r.Days()
	if n < 1 {
		return nil
	}
	dates := make([]civil.Date, 0, n)
	for day := r.Start; !day.After(r.End); day = day.AddDays(1) {
		dates = append(dates, day)
	}
	return dates
}

// String formats the range as "start..end".
func (r Range) String() string {
	return r.Start.String() + ".." + r.End.String()
}

// PersonPeriod records that a person was present for a range of days.
// One person may have several disjoint periods.
type PersonPeriod struct {
	Name   string
	Period Range
}

// NewPersonPeriod returns a presence period for name.
func NewPersonPeriod(name string, r Range) PersonPeriod {
	return PersonPeriod{Name: name, Period: r}
}

// ParsePersonPeriod returns a presence period for name from ISO-8601 start and
// end dates. The end date is included.
func ParsePersonPeriod(name, start, end string) (PersonPeriod, error) {
	r, err := ParseRange(start, end)
	if err != nil {
		return PersonPeriod{}, fmt.Errorf("presence for %q: %w", name, err)
	}
	return PersonPeriod{Name: name, Period: r}, nil
}

// Today returns a one-day presence period for name on the current local date.
func Today(name string) PersonPeriod {
	today := civil.DateOf(time.Now())
	return PersonPeriod{Name: name, Period: Range{Start: today, End: today}}
}

// Start returns the first day as an ISO-8601 string.
func (p PersonPeriod) Start() string {
	return p.Period.Start.String()
}

// End returns the last day as an ISO-8601 string.
func (p PersonPeriod) End() string {
	return p.Period.End.String()
}

// SetStart moves the first day of the period.
func (p *PersonPeriod) SetStart(start string) error {
	d, err := ParseDate(start)
	if err != nil {
		return err
	}
	p.Period.Start = d
	return nil
}

// SetEnd moves the last day of the period.
func (p *PersonPeriod) SetEnd(end string) error {
	d, err := ParseDate(end)
	if err != nil {
		return err
	}
	p.Period.End = d
	return nil
}

// Names returns the distinct names in periods, in the order they first appear.
func Names(periods []PersonPeriod) []string {
	seen := make(map[string]bool, len(periods))
	var names []string
	for _, p := range periods {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		names = append(names, p.Name)
	}
	return names
}
