package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"spotwatch/internal/alerting"
	"spotwatch/internal/config"
	"spotwatch/internal/dashboard"
	"spotwatch/internal/fetcher"
	"spotwatch/internal/pricing"
	"spotwatch/internal/scheduler"
)

// DayKeyFormat is the calendar-day prefix shared by the feed's timestamps.
const DayKeyFormat = "2006-01-02"

// Service orchestrates the watch loop: refresh the feed, supersede the
// in-memory batch, derive the selected day's statistics, and dispatch the
// cheap-hour notification.
type Service struct {
	scheduler *scheduler.Scheduler
	feed      fetcher.PriceFetcher
	notifier  alerting.Notifier
	logger    zerolog.Logger

	threshold decimal.Decimal
	channels  []string
	alertsOn  bool

	mu             sync.Mutex
	state          dashboard.State
	lastAlertedDay string
}

// New constructs the watch service.
func New(cfg *config.Config, sched *scheduler.Scheduler, feed fetcher.PriceFetcher, notifier alerting.Notifier, logger zerolog.Logger) *Service {
	threshold := decimal.Zero
	if cfg.Alerting.Enabled && cfg.Alerting.CheapThreshold > 0 {
		threshold = decimal.NewFromFloat(cfg.Alerting.CheapThreshold)
	}

	return &Service{
		scheduler: sched,
		feed:      feed,
		notifier:  notifier,
		logger:    logger.With().Str("component", "service").Logger(),
		threshold: threshold,
		channels:  cfg.Alerting.Channels,
		alertsOn:  cfg.Alerting.Enabled,
		state:     dashboard.NewState(),
	}
}

// Run begins the periodic refresh loop.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, s.Refresh)
}

// Refresh pulls the feed once and recomputes the day view for the tick's
// local calendar day. Fetch failures clear the batch so stale prices are
// never reported next to an error.
func (s *Service) Refresh(ctx context.Context, tick time.Time) error {
	dayKey := tick.Local().Format(DayKeyFormat)

	s.mu.Lock()
	next, gen := s.state.DaySelected(dayKey).LoadStarted()
	s.state = next
	s.mu.Unlock()

	records, err := s.feed.FetchPrices(ctx)

	s.mu.Lock()
	if err != nil {
		s.state = s.state.LoadFailed(gen, err.Error())
		s.mu.Unlock()
		return fmt.Errorf("fetch prices: %w", err)
	}
	s.state = s.state.LoadSucceeded(gen, records)
	filtered, stats := s.state.View()
	s.mu.Unlock()

	if stats.Count == 0 {
		s.logger.Info().Str("day", dayKey).Msg("no records for selected day")
		return nil
	}

	s.logger.Info().Str("day", dayKey).
		Int("hours", len(filtered)).
		Str("cheapest_at", pricing.FormatHour(stats.CheapestAt)).
		Str("cheapest_price", stats.CheapestPrice.StringFixed(3)).
		Str("most_expensive_at", pricing.FormatHour(stats.MostExpensiveAt)).
		Str("most_expensive_price", stats.MostExpensivePrice.StringFixed(3)).
		Str("average_price", stats.AveragePrice.StringFixed(3)).
		Msg("day statistics recomputed")

	s.maybeNotify(ctx, dayKey, stats)
	return nil
}

// State returns the current dashboard snapshot.
func (s *Service) State() dashboard.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Service) maybeNotify(ctx context.Context, dayKey string, stats pricing.DayStats) {
	if !s.alertsOn || s.notifier == nil || s.threshold.IsZero() {
		return
	}
	if stats.CheapestPrice.GreaterThan(s.threshold) {
		return
	}

	s.mu.Lock()
	already := s.lastAlertedDay == dayKey
	if !already {
		s.lastAlertedDay = dayKey
	}
	s.mu.Unlock()
	if already {
		return
	}

	note := alerting.Notification{
		DayKey:             dayKey,
		CheapestHour:       pricing.FormatHour(stats.CheapestAt),
		CheapestPrice:      stats.CheapestPrice,
		MostExpensiveHour:  pricing.FormatHour(stats.MostExpensiveAt),
		MostExpensivePrice: stats.MostExpensivePrice,
		AveragePrice:       stats.AveragePrice,
		ThresholdPrice:     s.threshold,
		Unit:               pricing.Unit,
		Channels:           s.channels,
	}
	if err := s.notifier.Notify(ctx, note); err != nil {
		s.logger.Error().Err(err).Str("day", dayKey).Msg("failed to dispatch cheap-hour notification")
	}
}
