package fetcher

import (
	"context"

	"spotwatch/internal/pricing"
)

// PriceFetcher retrieves the day-ahead spot-price feed.
type PriceFetcher interface {
	FetchPrices(ctx context.Context) ([]pricing.Record, error)
}
