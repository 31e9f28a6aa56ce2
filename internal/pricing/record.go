package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unit is the label applied to every record after conversion.
const Unit = "c/kWh"

var (
	mwhToKwh      = decimal.NewFromFloat(0.1)
	vatMultiplier = decimal.NewFromFloat(1.24)
)

// Record is one hourly spot-price observation after conversion.
type Record struct {
	Timestamp    string          `json:"timestamp"`
	Price        decimal.Decimal `json:"price"`
	DeliveryArea string          `json:"deliveryArea"`
	Unit         string          `json:"unit"`
}

// Convert maps a raw feed price (EUR/MWh) to VAT-inclusive cents per kWh.
func Convert(raw decimal.Decimal) decimal.Decimal {
	return raw.Mul(mwhToKwh).Mul(vatMultiplier)
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Time parses the record's raw timestamp. The aggregation core never
// depends on this succeeding; it exists for presentation and charting.
func (r Record) Time() (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, r.Timestamp)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
