package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"spotwatch/internal/alerting"
	"spotwatch/internal/config"
	"spotwatch/internal/fetcher"
	"spotwatch/internal/scheduler"
	"spotwatch/internal/service"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newFetcher() fetcher.PriceFetcher {
	return fetcher.NewSpot(fetcher.SpotOptions{
		BaseURL:       a.Config.Feed.BaseURL,
		Timeout:       a.Config.Feed.RequestTimeout,
		RetryAttempts: a.Config.Feed.RetryAttempts,
		RetryBackoff:  a.Config.Feed.RetryBackoff,
		UserAgent:     a.Config.Feed.UserAgent,
	}, a.Logger)
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

// Watch executes the long-running watch loop.
func (a *App) Watch(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Scheduler.Interval,
		AlignToStart: a.Config.Scheduler.AlignToBucket,
		StartupDelay: a.Config.Scheduler.StartupDelay,
	}, a.Logger)

	svc := service.New(a.Config, sched, a.newFetcher(), a.newNotifier(), a.Logger)

	a.Logger.Info().Msg("starting spot-price watcher")
	err := svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("watcher terminated with error")
		return err
	}

	a.Logger.Info().Msg("spot-price watcher stopped")
	return nil
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Day string
}

// ExportOptions hold parameters for exporting a day's prices.
type ExportOptions struct {
	Day     string
	PNGPath string
	CSVPath string
}
