package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/iwvelando/salary-tax-compare/pkg/constants"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ClientOption represents a function that can modify the ExchangeRateClient
type ClientOption func(*ExchangeRateClient)

// ExchangeRateClient fetches USD rates from the exchangerate-api v6 API.
type ExchangeRateClient struct {
	logger          *zap.Logger
	httpClient      *http.Client
	baseURL         string
	apiKey          string
	maxRetries      int
	initialInterval time.Duration
}

// WithBaseURL sets the API base URL, without the trailing key segment.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *ExchangeRateClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout bounds each HTTP attempt.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ExchangeRateClient) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithMaxRetries sets how many times a failed attempt is retried.
func WithMaxRetries(maxRetries int) ClientOption {
	return func(c *ExchangeRateClient) {
		if maxRetries >= 0 {
			c.maxRetries = maxRetries
		}
	}
}

// WithRetryInterval sets the first backoff interval.
func WithRetryInterval(interval time.Duration) ClientOption {
	return func(c *ExchangeRateClient) {
		if interval > 0 {
			c.initialInterval = interval
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *ExchangeRateClient) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewExchangeRateClient creates a client authenticated with apiKey.
func NewExchangeRateClient(logger *zap.Logger, apiKey string, options ...ClientOption) *ExchangeRateClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := &ExchangeRateClient{
		logger:          logger,
		httpClient:      &http.Client{Timeout: constants.DefaultRateTimeout},
		baseURL:         constants.DefaultRateBaseURL,
		apiKey:          strings.TrimSpace(apiKey),
		maxRetries:      constants.DefaultRateMaxRetries,
		initialInterval: 200 * time.Millisecond,
	}

	for _, option := range options {
		option(client)
	}
	return client
}

// FetchRates returns the latest rates quoted against USD. Transport errors,
// 429 and 5xx responses are retried with exponential backoff.
func (c *ExchangeRateClient) FetchRates(ctx context.Context) (RateTable, error) {
	if c.apiKey == "" {
		return RateTable{}, ErrMissingAPIKey
	}

	url := fmt.Sprintf("%s/%s/latest/%s", c.baseURL, c.apiKey, constants.CurrencyUSD)
	start := time.Now()
	attempts := 0

	var table RateTable
	operation := func() error {
		attempts++
		var err error
		table, err = c.fetchOnce(ctx, url)
		return err
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = c.initialInterval
	expBackoff.MaxElapsedTime = c.httpClient.Timeout * time.Duration(c.maxRetries+1)

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(expBackoff, uint64(c.maxRetries)), ctx))
	if err != nil {
		c.logger.Debug("exchange rate lookup failed",
			zap.String("op", "currency.FetchRates"),
			zap.String("baseURL", c.baseURL),
			zap.Int("attempts", attempts),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return RateTable{}, err
	}

	c.logger.Debug("exchange rates fetched",
		zap.String("op", "currency.FetchRates"),
		zap.String("base", table.BaseCode),
		zap.Int("attempts", attempts),
		zap.Duration("duration", time.Since(start)),
	)
	return table, nil
}

func (c *ExchangeRateClient) fetchOnce(ctx context.Context, url string) (RateTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return RateTable{}, backoff.Permanent(errors.Wrap(err, "failed to build rate request"))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The URL carries the API key, so only the underlying cause is kept.
		return RateTable{}, errors.Wrap(unwrapURLError(err), "rate request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		_, _ = io.Copy(io.Discard, resp.Body)
		return RateTable{}, errors.Errorf("retryable status code: %d", resp.StatusCode)
	}

	var table RateTable
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		return RateTable{}, backoff.Permanent(errors.Wrapf(err, "failed to decode rate response (status %d)", resp.StatusCode))
	}

	if table.Result != "success" {
		detail := table.ErrorType
		if detail == "" {
			detail = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return RateTable{}, backoff.Permanent(errors.Wrapf(ErrUnsuccessfulResponse, "result %q: %s", table.Result, detail))
	}
	return table, nil
}

func unwrapURLError(err error) error {
	var urlErr *neturl.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
