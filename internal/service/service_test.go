package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"spotwatch/internal/alerting"
	"spotwatch/internal/config"
	"spotwatch/internal/dashboard"
	"spotwatch/internal/pricing"
)

type staticFetcher struct {
	records []pricing.Record
	err     error
}

func (f *staticFetcher) FetchPrices(ctx context.Context) ([]pricing.Record, error) {
	return f.records, f.err
}

type captureNotifier struct {
	notes []alerting.Notification
}

func (n *captureNotifier) Notify(ctx context.Context, note alerting.Notification) error {
	n.notes = append(n.notes, note)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Alerting: config.AlertingConfig{
			Enabled:        true,
			CheapThreshold: 1.5,
			Channels:       []string{"telegram"},
		},
	}
}

func dayRecords(day string, prices ...float64) []pricing.Record {
	records := make([]pricing.Record, 0, len(prices))
	for i, p := range prices {
		records = append(records, pricing.Record{
			Timestamp:    day + "T" + time.Date(0, 1, 1, i, 0, 0, 0, time.UTC).Format("15:04:05"),
			Price:        decimal.NewFromFloat(p),
			DeliveryArea: "fi",
			Unit:         pricing.Unit,
		})
	}
	return records
}

func tickFor(day string) time.Time {
	ts, err := time.ParseInLocation("2006-01-02", day, time.Local)
	if err != nil {
		panic(err)
	}
	return ts.Add(12 * time.Hour)
}

func TestRefreshSuccess(t *testing.T) {
	feed := &staticFetcher{records: dayRecords("2024-05-01", 1.24, 2.48)}
	svc := New(testConfig(), nil, feed, nil, zerolog.Nop())

	if err := svc.Refresh(context.Background(), tickFor("2024-05-01")); err != nil {
		t.Fatalf("refresh should succeed: %v", err)
	}

	state := svc.State()
	if state.Status != dashboard.StatusReady {
		t.Fatalf("expected ready state, got %s", state.Status)
	}

	filtered, stats := state.View()
	if len(filtered) != 2 {
		t.Fatalf("expected 2 records in view, got %d", len(filtered))
	}
	if !stats.AveragePrice.Equal(decimal.NewFromFloat(1.86)) {
		t.Fatalf("average price: want 1.86, got %s", stats.AveragePrice)
	}
}

func TestRefreshFetchFailure(t *testing.T) {
	feed := &staticFetcher{records: dayRecords("2024-05-01", 1.24)}
	svc := New(testConfig(), nil, feed, nil, zerolog.Nop())

	if err := svc.Refresh(context.Background(), tickFor("2024-05-01")); err != nil {
		t.Fatalf("first refresh should succeed: %v", err)
	}

	feed.records = nil
	feed.err = errors.New("price feed error (500)")
	if err := svc.Refresh(context.Background(), tickFor("2024-05-01")); err == nil {
		t.Fatal("refresh should surface the fetch error")
	}

	state := svc.State()
	if state.Status != dashboard.StatusFailed {
		t.Fatalf("expected failed state, got %s", state.Status)
	}
	if state.Err == "" {
		t.Fatal("error message should be recorded")
	}
	if len(state.Records) != 0 {
		t.Fatal("records must be cleared after a failed fetch")
	}
	if _, stats := state.View(); stats.Count != 0 {
		t.Fatal("no stats may be derived from a failed load")
	}
}

func TestRefreshNotifiesOncePerDay(t *testing.T) {
	feed := &staticFetcher{records: dayRecords("2024-05-01", 0.62, 4.96)}
	sink := &captureNotifier{}
	svc := New(testConfig(), nil, feed, sink, zerolog.Nop())

	tick := tickFor("2024-05-01")
	for i := 0; i < 3; i++ {
		if err := svc.Refresh(context.Background(), tick); err != nil {
			t.Fatalf("refresh %d failed: %v", i, err)
		}
	}

	if len(sink.notes) != 1 {
		t.Fatalf("expected exactly 1 notification for the day, got %d", len(sink.notes))
	}
	note := sink.notes[0]
	if note.DayKey != "2024-05-01" {
		t.Fatalf("unexpected day key %q", note.DayKey)
	}
	if note.CheapestHour != "00:00" {
		t.Fatalf("expected cheapest hour 00:00, got %q", note.CheapestHour)
	}
	if !note.CheapestPrice.Equal(decimal.NewFromFloat(0.62)) {
		t.Fatalf("unexpected cheapest price %s", note.CheapestPrice)
	}
}

func TestRefreshAboveThresholdStaysQuiet(t *testing.T) {
	feed := &staticFetcher{records: dayRecords("2024-05-01", 3.1, 4.96)}
	sink := &captureNotifier{}
	svc := New(testConfig(), nil, feed, sink, zerolog.Nop())

	if err := svc.Refresh(context.Background(), tickFor("2024-05-01")); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if len(sink.notes) != 0 {
		t.Fatalf("no notification expected above threshold, got %d", len(sink.notes))
	}
}
