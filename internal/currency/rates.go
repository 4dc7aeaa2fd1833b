package currency

import (
	"context"
	"errors"
)

var (
	// ErrMissingAPIKey is returned when no exchange rate API key is configured.
	ErrMissingAPIKey = errors.New("missing exchange rate API key")

	// ErrUnsuccessfulResponse is returned when the provider reports a failure.
	ErrUnsuccessfulResponse = errors.New("exchange rate provider reported failure")

	// ErrRateNotFound is returned when the rate table lacks a usable INR rate.
	ErrRateNotFound = errors.New("INR rate not found")
)

// RateTable is the latest rates response of the exchange rate provider,
// quoted against BaseCode.
type RateTable struct {
	Result          string             `json:"result"`
	ErrorType       string             `json:"error-type,omitempty"`
	BaseCode        string             `json:"base_code"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// RateProvider looks up live USD based exchange rates.
type RateProvider interface {
	FetchRates(ctx context.Context) (RateTable, error)
}

// RateProviderFunc adapts a function to RateProvider.
type RateProviderFunc func(ctx context.Context) (RateTable, error)

// FetchRates calls f.
func (f RateProviderFunc) FetchRates(ctx context.Context) (RateTable, error) {
	return f(ctx)
}

// RateFetchError wraps any failure of a live rate lookup. It never escapes
// Convert; it is carried on the Conversion for the caller to report.
type RateFetchError struct {
	Err error
}

func (e *RateFetchError) Error() string {
	return "live rate lookup failed: " + e.Err.Error()
}

func (e *RateFetchError) Unwrap() error {
	return e.Err
}
