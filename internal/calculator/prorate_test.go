package calculator

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitbill/internal/currency"
	"github.com/mmynk/splitbill/internal/money"
	"github.com/mmynk/splitbill/internal/period"
)

var usd = currency.MustLookup("USD")

func mustRange(t *testing.T, start, end string) period.Range {
	t.Helper()
	r, err := period.ParseRange(start, end)
	require.NoError(t, err)
	return r
}

func mustPresence(t *testing.T, name, start, end string) period.PersonPeriod {
	t.Helper()
	p, err := period.ParsePersonPeriod(name, start, end)
	require.NoError(t, err)
	return p
}

func sumShares(shares []Share) money.Money {
	total := money.Zero(usd)
	for _, s := range shares {
		total = total.MustAdd(s.Usage).MustAdd(s.General)
	}
	return total
}

// assertConserved checks the shares add back up to usage + general well below one minor unit.
func assertConserved(t *testing.T, shares []Share, usage, general money.Money) {
	t.Helper()
	diff := sumShares(shares).MustSubtract(usage.MustAdd(general)).Abs()
	assert.True(t, diff.Amount().LessThan(decimal.New(1, -30)), "shares drift from total by %s", diff.Amount())
}

func TestProrate(t *testing.T) {
	tests := []struct {
		name        string
		usage       float64
		general     float64
		start, end  string
		presence    func(t *testing.T) []period.PersonPeriod
		people      []string
		wantUsage   map[string]float64
		wantGeneral float64
	}{
		{
			name:        "nobody present splits everything evenly",
			usage:       90,
			general:     30,
			start:       "2020-01-01",
			end:         "2020-01-30",
			presence:    func(t *testing.T) []period.PersonPeriod { return nil },
			people:      []string{"Alice", "Bob", "Carol"},
			wantUsage:   map[string]float64{"Alice": 30, "Bob": 30, "Carol": 30},
			wantGeneral: 10,
		},
		{
			name:    "single present person takes every claimed day",
			usage:   100,
			general: 0,
			start:   "2020-01-01",
			end:     "2020-01-10",
			presence: func(t *testing.T) []period.PersonPeriod {
				return []period.PersonPeriod{mustPresence(t, "Alice", "2020-01-01", "2020-01-10")}
			},
			people:      []string{"Alice", "Bob"},
			wantUsage:   map[string]float64{"Alice": 100, "Bob": 0},
			wantGeneral: 0,
		},
		{
			name:    "half claimed half open",
			usage:   100,
			general: 50,
			start:   "2020-01-01",
			end:     "2020-01-10",
			presence: func(t *testing.T) []period.PersonPeriod {
				return []period.PersonPeriod{mustPresence(t, "Alice", "2020-01-01", "2020-01-05")}
			},
			people: []string{"Alice", "Bob"},
			// Alice: 50 claimed + 25 open; Bob: 25 open.
			wantUsage:   map[string]float64{"Alice": 75, "Bob": 25},
			wantGeneral: 25,
		},
		{
			name:    "overlap shares the day",
			usage:   40,
			general: 0,
			start:   "2020-01-01",
			end:     "2020-01-04",
			presence: func(t *testing.T) []period.PersonPeriod {
				return []period.PersonPeriod{
					mustPresence(t, "Alice", "2020-01-01", "2020-01-04"),
					mustPresence(t, "Bob", "2020-01-03", "2020-01-04"),
				}
			},
			people: []string{"Alice", "Bob"},
			// Days 1-2: Alice alone (10 each); days 3-4: 5 each.
			wantUsage:   map[string]float64{"Alice": 30, "Bob": 10},
			wantGeneral: 0,
		},
		{
			name:    "presence outside the range is clipped",
			usage:   30,
			general: 0,
			start:   "2020-01-01",
			end:     "2020-01-03",
			presence: func(t *testing.T) []period.PersonPeriod {
				return []period.PersonPeriod{mustPresence(t, "Alice", "2019-12-01", "2020-01-01")}
			},
			people:      []string{"Alice", "Bob"},
			wantUsage:   map[string]float64{"Alice": 20, "Bob": 10},
			wantGeneral: 0,
		},
		{
			name:    "presence of someone off the roster is ignored",
			usage:   20,
			general: 0,
			start:   "2020-01-01",
			end:     "2020-01-02",
			presence: func(t *testing.T) []period.PersonPeriod {
				return []period.PersonPeriod{mustPresence(t, "Mallory", "2020-01-01", "2020-01-02")}
			},
			people:      []string{"Alice", "Bob"},
			wantUsage:   map[string]float64{"Alice": 10, "Bob": 10},
			wantGeneral: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usage, general := money.New(tt.usage, usd), money.New(tt.general, usd)
			shares, err := Prorate(usage, general, mustRange(t, tt.start, tt.end), tt.presence(t), tt.people)
			require.NoError(t, err)
			require.Len(t, shares, len(tt.people))

			for i, share := range shares {
				assert.Equal(t, tt.people[i], share.Name, "shares must follow roster order")
				assert.InDelta(t, tt.wantUsage[share.Name], share.Usage.Float64(), 0.01, "%s usage", share.Name)
				assert.InDelta(t, tt.wantGeneral, share.General.Float64(), 0.01, "%s general", share.Name)
				assert.False(t, share.Usage.IsNegative())
			}
			assertConserved(t, shares, usage, general)
		})
	}
}

func TestProrateEmptyRoster(t *testing.T) {
	shares, err := Prorate(money.New(10, usd), money.New(10, usd), period.Range{}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, shares)
}

func TestProrateDegenerateRange(t *testing.T) {
	r := period.Range{
		Start: civil.Date{Year: 2020, Month: time.January, Day: 5},
		End:   civil.Date{Year: 2020, Month: time.January, Day: 4},
	}
	_, err := Prorate(money.New(10, usd), money.Zero(usd), r, nil, []string{"Alice"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, period.ErrDegenerateRange))
}

func TestProrateDuplicatePerson(t *testing.T) {
	_, err := Prorate(money.New(10, usd), money.Zero(usd), mustRange(t, "2020-01-01", "2020-01-02"), nil, []string{"Alice", "Alice"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicatePerson))
}

func TestProrateConservesAwkwardAmounts(t *testing.T) {
	usage, general := money.New(84.7665, usd), money.New(64.0665, usd)
	presence := []period.PersonPeriod{
		mustPresence(t, "A", "2021-02-03", "2021-02-17"),
		mustPresence(t, "B", "2021-02-10", "2021-03-02"),
		mustPresence(t, "B", "2021-03-05", "2021-03-06"),
		mustPresence(t, "C", "2021-02-28", "2021-03-07"),
	}
	people := []string{"A", "B", "C", "D", "E", "F", "G"}

	shares, err := Prorate(usage, general, mustRange(t, "2021-02-01", "2021-03-07"), presence, people)
	require.NoError(t, err)
	require.Len(t, shares, len(people))
	assertConserved(t, shares, usage, general)
}

func TestProrateContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ProrateContext(ctx, money.New(10, usd), money.Zero(usd), mustRange(t, "2020-01-01", "2020-12-31"), nil, []string{"Alice", "Bob"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
