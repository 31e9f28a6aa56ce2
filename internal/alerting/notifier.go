package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Notification carries the day summary pushed when a cheap hour is found.
type Notification struct {
	DayKey             string
	CheapestHour       string
	CheapestPrice      decimal.Decimal
	MostExpensiveHour  string
	MostExpensivePrice decimal.Decimal
	AveragePrice       decimal.Decimal
	ThresholdPrice     decimal.Decimal
	Unit               string
	Channels           []string
}

// Notifier delivers cheap-hour notifications.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// TelegramNotifier pushes messages through the Telegram Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier constructs a Telegram notifier.
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

// Notify sends the rendered day summary via the sendMessage API.
func (n *TelegramNotifier) Notify(ctx context.Context, note Notification) error {
	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    renderMessage(note),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram unexpected status: %d", resp.StatusCode)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		if !result.OK {
			return fmt.Errorf("telegram returned ok=false")
		}
	}

	n.logger.Info().Str("day", note.DayKey).
		Str("cheapest_hour", note.CheapestHour).
		Str("channels", strings.Join(note.Channels, ",")).
		Msg("cheap-hour notification sent (Telegram)")
	return nil
}

func renderMessage(note Notification) string {
	builder := strings.Builder{}
	builder.WriteString("[Spot Price Alert]\n")
	builder.WriteString(fmt.Sprintf("Day: %s\n", note.DayKey))
	builder.WriteString(fmt.Sprintf("Cheapest: %s at %s %s\n", note.CheapestPrice.StringFixed(3), note.CheapestHour, note.Unit))
	builder.WriteString(fmt.Sprintf("Most expensive: %s at %s %s\n", note.MostExpensivePrice.StringFixed(3), note.MostExpensiveHour, note.Unit))
	builder.WriteString(fmt.Sprintf("Average: %s %s\n", note.AveragePrice.StringFixed(3), note.Unit))
	builder.WriteString(fmt.Sprintf("Threshold: %s %s\n", note.ThresholdPrice.StringFixed(3), note.Unit))
	if len(note.Channels) > 0 {
		builder.WriteString(fmt.Sprintf("Channels: %s\n", strings.Join(note.Channels, ",")))
	}
	return builder.String()
}

var _ Notifier = (*TelegramNotifier)(nil)
