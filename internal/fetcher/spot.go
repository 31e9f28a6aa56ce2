package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"

	"spotwatch/internal/pricing"
)

const pricesPath = "/api/v1/prices"

// ErrMalformedPayload marks feed responses that are not a valid record array.
var ErrMalformedPayload = errors.New("malformed price payload")

// FeedError reports a non-success HTTP response from the feed.
type FeedError struct {
	Status int
	Body   string
}

func (e *FeedError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body != "" {
		return fmt.Sprintf("price feed error (%d): %s", e.Status, body)
	}
	return fmt.Sprintf("price feed error (%d)", e.Status)
}

// SpotOptions parameterise the spot-price feed client.
type SpotOptions struct {
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration
	UserAgent     string
}

// Spot fetches day-ahead prices over HTTP and converts them at load time.
type Spot struct {
	opts    SpotOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewSpot constructs a spot-price feed client.
func NewSpot(opts SpotOptions, logger zerolog.Logger) *Spot {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")

	return &Spot{
		opts:    opts,
		logger:  logger.With().Str("component", "spot_fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

type feedRecord struct {
	Timestamp    string          `json:"timestamp"`
	Price        decimal.Decimal `json:"price"`
	DeliveryArea string          `json:"deliveryArea"`
	Unit         string          `json:"unit"`
}

// FetchPrices retrieves the full price batch. Transport and HTTP 5xx
// failures are retried with exponential backoff; the converted batch
// replaces any previous one wholesale at the caller.
func (s *Spot) FetchPrices(ctx context.Context) ([]pricing.Record, error) {
	if s.baseURL == "" {
		return nil, errors.New("feed base url not configured")
	}

	backoff := s.opts.RetryBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	attempts := s.opts.RetryAttempts
	if attempts < 0 {
		attempts = 0
	}

	var records []pricing.Record
	err := retry.Do(ctx, retry.WithMaxRetries(uint64(attempts), retry.NewExponential(backoff)), func(ctx context.Context) error {
		batch, err := s.fetchOnce(ctx)
		if err != nil {
			if retryable(err) {
				s.logger.Warn().Err(err).Msg("feed request failed, will retry")
				return retry.RetryableError(err)
			}
			return err
		}
		records = batch
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Int("records", len(records)).Msg("price batch loaded")
	return records, nil
}

func (s *Spot) fetchOnce(ctx context.Context) ([]pricing.Record, error) {
	endpoint := s.baseURL + pricesPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(s.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "spotwatch/1.0")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &FeedError{Status: resp.StatusCode, Body: string(payload)}
	}

	var raw []feedRecord
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	records := make([]pricing.Record, 0, len(raw))
	for _, fr := range raw {
		records = append(records, pricing.Record{
			Timestamp:    fr.Timestamp,
			Price:        pricing.Convert(fr.Price),
			DeliveryArea: fr.DeliveryArea,
			Unit:         pricing.Unit,
		})
	}
	return records, nil
}

func retryable(err error) bool {
	var feedErr *FeedError
	if errors.As(err, &feedErr) {
		return feedErr.Status >= http.StatusInternalServerError
	}
	return !errors.Is(err, ErrMalformedPayload)
}

var _ PriceFetcher = (*Spot)(nil)
