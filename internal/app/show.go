package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"spotwatch/internal/dashboard"
	"spotwatch/internal/pricing"
	"spotwatch/internal/service"
)

// Show fetches the feed once and prints the selected day's hourly prices
// and statistics.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	day := opts.Day
	if day == "" {
		day = time.Now().Local().Format(service.DayKeyFormat)
	}

	filtered, stats, err := a.loadDay(ctx, day)
	if err != nil {
		return err
	}
	if stats.Count == 0 {
		fmt.Fprintf(os.Stdout, "no prices for %s\n", day)
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Hour\tPrice (%s)\tArea\n", pricing.Unit)
	for _, rec := range filtered {
		fmt.Fprintf(writer, "%s\t%s\t%s\n", pricing.FormatHour(rec.Timestamp), rec.Price.StringFixed(3), rec.DeliveryArea)
	}
	writer.Flush()

	fmt.Fprintf(os.Stdout, "\nCheapest hour:       %s (%s %s)\n", pricing.FormatHour(stats.CheapestAt), stats.CheapestPrice.StringFixed(3), pricing.Unit)
	fmt.Fprintf(os.Stdout, "Most expensive hour: %s (%s %s)\n", pricing.FormatHour(stats.MostExpensiveAt), stats.MostExpensivePrice.StringFixed(3), pricing.Unit)
	fmt.Fprintf(os.Stdout, "Average price:       %s %s\n", stats.AveragePrice.StringFixed(3), pricing.Unit)
	return nil
}

// loadDay runs one fetch through the dashboard state machine and derives
// the day view.
func (a *App) loadDay(ctx context.Context, day string) ([]pricing.Record, pricing.DayStats, error) {
	state := dashboard.NewState().DaySelected(day)
	state, gen := state.LoadStarted()

	records, err := a.newFetcher().FetchPrices(ctx)
	if err != nil {
		state = state.LoadFailed(gen, err.Error())
		return nil, pricing.DayStats{}, fmt.Errorf("fetch prices: %s", state.Err)
	}

	state = state.LoadSucceeded(gen, records)
	filtered, stats := state.View()
	return filtered, stats, nil
}
