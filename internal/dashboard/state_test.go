package dashboard

import (
	"testing"

	"github.com/shopspring/decimal"

	"spotwatch/internal/pricing"
)

func batch() []pricing.Record {
	return []pricing.Record{
		{Timestamp: "2024-05-01T00:00:00", Price: decimal.NewFromFloat(1.24), DeliveryArea: "fi", Unit: pricing.Unit},
		{Timestamp: "2024-05-01T01:00:00", Price: decimal.NewFromFloat(2.48), DeliveryArea: "fi", Unit: pricing.Unit},
	}
}

func TestStateLoadLifecycle(t *testing.T) {
	state := NewState()
	if state.Status != StatusIdle {
		t.Fatalf("fresh state should be idle, got %s", state.Status)
	}

	state, gen := state.LoadStarted()
	if state.Status != StatusLoading {
		t.Fatalf("expected loading, got %s", state.Status)
	}

	state = state.LoadSucceeded(gen, batch())
	if state.Status != StatusReady {
		t.Fatalf("expected ready, got %s", state.Status)
	}
	if len(state.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(state.Records))
	}
}

func TestStateLoadFailedClearsRecords(t *testing.T) {
	state := NewState()
	state, gen := state.LoadStarted()
	state = state.LoadSucceeded(gen, batch())

	state, gen = state.LoadStarted()
	state = state.LoadFailed(gen, "price feed error (500)")

	if state.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", state.Status)
	}
	if state.Err == "" {
		t.Fatal("error message should be set")
	}
	if len(state.Records) != 0 {
		t.Fatal("records must be cleared on failure")
	}

	_, stats := state.DaySelected("2024-05-01").View()
	if stats.Count != 0 {
		t.Fatal("no stats should be derivable after a failed load")
	}
}

func TestStateSupersedingLoads(t *testing.T) {
	state := NewState()
	state, staleGen := state.LoadStarted()
	state, freshGen := state.LoadStarted()

	state = state.LoadSucceeded(freshGen, batch())
	if len(state.Records) != 2 {
		t.Fatal("latest load result should be applied")
	}

	stale := state.LoadFailed(staleGen, "late failure")
	if stale.Status != StatusReady || len(stale.Records) != 2 {
		t.Fatal("a superseded load result must be ignored")
	}

	stale = state.LoadSucceeded(staleGen, nil)
	if len(stale.Records) != 2 {
		t.Fatal("a superseded success must be ignored")
	}
}

func TestStateViewDerivesStats(t *testing.T) {
	state := NewState()
	state, gen := state.LoadStarted()
	state = state.LoadSucceeded(gen, batch())
	state = state.DaySelected("2024-05-01")

	filtered, stats := state.View()
	if len(filtered) != 2 {
		t.Fatalf("expected 2 filtered records, got %d", len(filtered))
	}
	if !stats.AveragePrice.Equal(decimal.NewFromFloat(1.86)) {
		t.Fatalf("average price: want 1.86, got %s", stats.AveragePrice)
	}

	_, stats = state.DaySelected("2024-06-01").View()
	if stats.Count != 0 {
		t.Fatal("day with no records should yield zero stats")
	}
}
