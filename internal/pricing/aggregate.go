package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DayStats summarises the records of a single calendar day. The zero value
// is returned whenever the filtered set is empty. CheapestAt and
// MostExpensiveAt carry the raw timestamps of the winning records; hour
// formatting is left to the presentation layer.
type DayStats struct {
	CheapestAt         string
	MostExpensiveAt    string
	CheapestPrice      decimal.Decimal
	MostExpensivePrice decimal.Decimal
	AveragePrice       decimal.Decimal
	Count              int
}

// Aggregate filters records to those whose timestamp begins with dayKey and
// computes the day's summary statistics. The filter is a plain string-prefix
// match, so dayKey must use the same serialization as the leading characters
// of Timestamp (e.g. "2024-05-01"). A single linear pass keeps extremum
// tie-breaks at the leftmost record. An empty dayKey yields no matches.
func Aggregate(records []Record, dayKey string) ([]Record, DayStats) {
	if dayKey == "" {
		return nil, DayStats{}
	}

	filtered := make([]Record, 0, 24)
	for _, rec := range records {
		if strings.HasPrefix(rec.Timestamp, dayKey) {
			filtered = append(filtered, rec)
		}
	}
	if len(filtered) == 0 {
		return nil, DayStats{}
	}

	cheapest := filtered[0]
	dearest := filtered[0]
	sum := filtered[0].Price
	for _, rec := range filtered[1:] {
		if rec.Price.LessThan(cheapest.Price) {
			cheapest = rec
		}
		if rec.Price.GreaterThan(dearest.Price) {
			dearest = rec
		}
		sum = sum.Add(rec.Price)
	}

	stats := DayStats{
		CheapestAt:         cheapest.Timestamp,
		MostExpensiveAt:    dearest.Timestamp,
		CheapestPrice:      cheapest.Price,
		MostExpensivePrice: dearest.Price,
		AveragePrice:       sum.Div(decimal.NewFromInt(int64(len(filtered)))),
		Count:              len(filtered),
	}
	return filtered, stats
}
