package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"

	"spotwatch/internal/pricing"
)

// Export renders a day's hourly prices as CSV and/or a PNG bar chart.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}
	if opts.Day == "" {
		return errors.New("--day must be provided")
	}

	filtered, stats, err := a.loadDay(ctx, opts.Day)
	if err != nil {
		return err
	}
	if stats.Count == 0 {
		a.Logger.Info().Str("day", opts.Day).Msg("no prices found for export day")
		return nil
	}

	a.Logger.Info().Str("day", opts.Day).Int("hours", len(filtered)).Msg("exporting day prices")

	if opts.CSVPath != "" {
		if err := writePricesCSV(opts.CSVPath, filtered); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := a.writePricesPNG(opts.PNGPath, opts.Day, filtered); err != nil {
			return err
		}
	}

	return nil
}

func writePricesCSV(path string, records []pricing.Record) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"timestamp", "price", "delivery_area", "unit"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, rec := range records {
		row := []string{
			rec.Timestamp,
			rec.Price.String(),
			rec.DeliveryArea,
			rec.Unit,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}

func (a *App) writePricesPNG(path, day string, records []pricing.Record) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	bars := make([]chart.Value, 0, len(records))
	for _, rec := range records {
		bars = append(bars, chart.Value{
			Label: pricing.FormatHour(rec.Timestamp),
			Value: rec.Price.InexactFloat64(),
		})
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Spot prices %s", day),
		Width:    a.Config.Export.ChartWidth,
		Height:   a.Config.Export.ChartHeight,
		BarWidth: 30,
		XAxis: chart.Style{
			TextRotationDegrees: 90,
		},
		YAxis: chart.YAxis{
			Name: fmt.Sprintf("Price (%s)", pricing.Unit),
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.2f")
			},
		},
		Bars: bars,
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
