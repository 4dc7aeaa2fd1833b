package config

import (
	"os"

	"github.com/iwvelando/salary-tax-compare/internal/currency"
	"go.uber.org/zap"
)

// NewRateClient builds the exchange rate client described by the currency
// section. The API key is read from the environment variable named by
// apiKeyEnv; an unset variable yields a client that always reports
// currency.ErrMissingAPIKey.
func (c CurrencyConfig) NewRateClient(logger *zap.Logger) *currency.ExchangeRateClient {
	var apiKey string
	if c.APIKeyEnv != "" {
		apiKey = os.Getenv(c.APIKeyEnv)
	}
	return currency.NewExchangeRateClient(logger, apiKey,
		currency.WithBaseURL(c.BaseURL),
		currency.WithTimeout(c.Timeout),
		currency.WithMaxRetries(c.MaxRetries),
	)
}
