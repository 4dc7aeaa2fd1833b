// Package constants provides shared constants for the salary-tax-compare application.
package constants

import "time"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PresumptiveProfitRatio is the share of gross receipts taxed under 44ADA
	PresumptiveProfitRatio = 0.50

	// ReverseSearchMultiplier caps the reverse CTC search at this multiple of the target
	ReverseSearchMultiplier = 3
)

// Currency codes accepted at the presentation boundary
const (
	CurrencyINR = "INR"
	CurrencyUSD = "USD"
)

// Pay periods accepted at the presentation boundary
const (
	PeriodAnnual  = "Annual"
	PeriodMonthly = "Monthly"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Exchange rate provider defaults
const (
	// DefaultAPIKeyEnv names the environment variable holding the exchange rate API key
	DefaultAPIKeyEnv = "EXCHANGE_RATE_API_KEY"

	// DefaultRateBaseURL is the exchangerate-api v6 endpoint
	DefaultRateBaseURL = "https://v6.exchangerate-api.com/v6"

	// DefaultRateTimeout bounds a single live rate lookup
	DefaultRateTimeout = 5 * time.Second

	// DefaultRateMaxRetries is the number of retries after the first attempt
	DefaultRateMaxRetries = 2
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultRequestTimeout bounds a single comparison request
	DefaultRequestTimeout = 10 * time.Second
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 paisa)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
