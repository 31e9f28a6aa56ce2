package dashboard

import (
	"spotwatch/internal/pricing"
)

// Status tracks the lifecycle of the in-flight price load.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// State is an immutable snapshot of the dashboard. Transitions return a new
// State and never mutate the receiver, so every view is a pure function of
// the current snapshot. The generation counter gives superseding semantics:
// a load result that does not carry the latest generation is ignored, which
// closes the stale-response race when a new fetch starts before a previous
// one resolves.
type State struct {
	Records    []pricing.Record
	DayKey     string
	Status     Status
	Err        string
	generation uint64
}

// NewState returns the initial, empty dashboard state.
func NewState() State {
	return State{Status: StatusIdle}
}

// Generation identifies the most recently started load.
func (s State) Generation() uint64 {
	return s.generation
}

// LoadStarted begins a new load, superseding any in-flight one. The returned
// generation must accompany the matching LoadSucceeded or LoadFailed.
func (s State) LoadStarted() (State, uint64) {
	next := s
	next.Status = StatusLoading
	next.Err = ""
	next.generation++
	return next, next.generation
}

// LoadSucceeded replaces the record set wholesale. Results from superseded
// loads are dropped.
func (s State) LoadSucceeded(gen uint64, records []pricing.Record) State {
	if gen != s.generation {
		return s
	}
	next := s
	next.Records = records
	next.Status = StatusReady
	next.Err = ""
	return next
}

// LoadFailed records the error and clears the record set so stale data is
// never presented alongside an error message.
func (s State) LoadFailed(gen uint64, msg string) State {
	if gen != s.generation {
		return s
	}
	next := s
	next.Records = nil
	next.Status = StatusFailed
	next.Err = msg
	return next
}

// DaySelected switches the filter day without touching the loaded batch.
func (s State) DaySelected(dayKey string) State {
	next := s
	next.DayKey = dayKey
	return next
}

// View derives the selected day's records and statistics.
func (s State) View() ([]pricing.Record, pricing.DayStats) {
	return pricing.Aggregate(s.Records, s.DayKey)
}
