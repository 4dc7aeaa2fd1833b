package currency

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/salary-tax-compare/pkg/constants"
	"github.com/iwvelando/salary-tax-compare/pkg/mathutil"
	"go.uber.org/zap"
)

// ErrUnsupportedCurrency is returned for currencies other than INR and USD.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Currency is an ISO 4217 code accepted as salary input.
type Currency string

const (
	INR Currency = constants.CurrencyINR
	USD Currency = constants.CurrencyUSD
)

// ParseCurrency resolves a currency code, case-insensitively.
func ParseCurrency(value string) (Currency, error) {
	switch Currency(strings.ToUpper(strings.TrimSpace(value))) {
	case INR:
		return INR, nil
	case USD:
		return USD, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, value)
}

// Conversion is the outcome of converting an amount to INR.
type Conversion struct {
	AmountINR float64
	RateUsed  float64
	Live      bool
	// FetchErr is set when the live lookup failed and the fallback rate was used.
	FetchErr error
}

// Warning returns the message to show when the fallback rate was used.
func (c Conversion) Warning() string {
	if c.FetchErr == nil {
		return ""
	}
	return fmt.Sprintf("Using fallback rate: %v", c.FetchErr)
}

// Converter converts salary amounts to INR using a live rate when available.
type Converter struct {
	logger       *zap.Logger
	provider     RateProvider
	fallbackRate float64
}

// NewConverter creates a Converter. A nil provider always uses fallbackRate.
func NewConverter(logger *zap.Logger, provider RateProvider, fallbackRate float64) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{logger: logger, provider: provider, fallbackRate: fallbackRate}
}

// WithFallbackRate returns a copy of the Converter using a different fallback rate.
func (c *Converter) WithFallbackRate(rate float64) *Converter {
	clone := *c
	clone.fallbackRate = rate
	return &clone
}

// Convert returns amount in INR. A failed live lookup is never returned as an
// error: the fallback rate is used and the failure is recorded on the result.
func (c *Converter) Convert(ctx context.Context, amount float64, from Currency) (Conversion, error) {
	switch from {
	case INR:
		return Conversion{AmountINR: amount, RateUsed: 1.0}, nil
	case USD:
	default:
		return Conversion{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, string(from))
	}

	rate, err := c.liveRate(ctx)
	if err != nil {
		fetchErr := &RateFetchError{Err: err}
		c.logger.Warn("using fallback USD to INR rate",
			zap.String("op", "currency.Convert"),
			zap.Float64("fallbackRate", c.fallbackRate),
			zap.Error(fetchErr),
		)
		return Conversion{AmountINR: amount * c.fallbackRate, RateUsed: c.fallbackRate, FetchErr: fetchErr}, nil
	}

	return Conversion{AmountINR: amount * rate, RateUsed: rate, Live: true}, nil
}

func (c *Converter) liveRate(ctx context.Context) (float64, error) {
	if c.provider == nil {
		return 0, ErrMissingAPIKey
	}

	table, err := c.provider.FetchRates(ctx)
	if err != nil {
		return 0, err
	}
	if table.Result != "success" {
		return 0, fmt.Errorf("%w: result %q", ErrUnsuccessfulResponse, table.Result)
	}

	rate, ok := table.ConversionRates[constants.CurrencyINR]
	if !ok || !mathutil.IsFinite(rate) || rate <= 0 {
		return 0, ErrRateNotFound
	}
	return rate, nil
}
