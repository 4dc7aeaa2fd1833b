// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the tax configuration.
package config

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/salary-tax-compare/internal/tax"
	"github.com/iwvelando/salary-tax-compare/pkg/constants"
	"github.com/iwvelando/salary-tax-compare/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for salary-tax-compare.
type Configuration struct {
	TaxSlabs    []SlabConfig   `mapstructure:"tax_slabs" yaml:"tax_slabs"`
	TaxSettings TaxSettings    `mapstructure:"tax_config" yaml:"tax_config"`
	Currency    CurrencyConfig `mapstructure:"currency" yaml:"currency,omitempty"`
	Logging     LoggingConfig  `mapstructure:"logging" yaml:"logging,omitempty"`
	Output      OutputConfig   `mapstructure:"output" yaml:"output,omitempty"`

	taxConfig *tax.Config
}

// SlabConfig is one entry of tax_slabs. Limit is a number or "inf".
type SlabConfig struct {
	Limit string   `mapstructure:"limit" yaml:"limit"`
	Rate  *float64 `mapstructure:"rate" yaml:"rate"`
}

// TaxSettings holds the rebate, cess and fallback exchange rate.
type TaxSettings struct {
	RebateLimit  *float64 `mapstructure:"rebate_limit" yaml:"rebate_limit"`
	RebateAmount *float64 `mapstructure:"rebate_amount" yaml:"rebate_amount"`
	CessRate     *float64 `mapstructure:"cess_rate" yaml:"cess_rate"`
	USDINR       *float64 `mapstructure:"usd_inr" yaml:"usd_inr"`
}

// CurrencyConfig configures the live exchange rate lookup.
type CurrencyConfig struct {
	APIKeyEnv  string        `mapstructure:"apiKeyEnv" yaml:"apiKeyEnv,omitempty"`
	BaseURL    string        `mapstructure:"baseURL" yaml:"baseURL,omitempty"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty"`
	MaxRetries int           `mapstructure:"maxRetries" yaml:"maxRetries,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, yaml
}

// ConfigError reports a missing or malformed configuration field.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration field %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.AutomaticEnv()

	v.SetDefault("currency.apiKeyEnv", constants.DefaultAPIKeyEnv)
	v.SetDefault("currency.baseURL", constants.DefaultRateBaseURL)
	v.SetDefault("currency.timeout", constants.DefaultRateTimeout)
	v.SetDefault("currency.maxRetries", constants.DefaultRateMaxRetries)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	taxConfig, err := configuration.parseTaxConfig()
	if err != nil {
		return nil, err
	}
	configuration.taxConfig = taxConfig

	return &configuration, nil
}

// TaxConfig returns the parsed tax configuration. It is nil for a
// Configuration that was not produced by one of the loaders.
func (c *Configuration) TaxConfig() *tax.Config {
	return c.taxConfig
}

func (c *Configuration) parseTaxConfig() (*tax.Config, error) {
	if len(c.TaxSlabs) == 0 {
		return nil, &ConfigError{Field: "tax_slabs", Err: fmt.Errorf("at least one slab is required")}
	}

	slabs := make([]tax.Slab, 0, len(c.TaxSlabs))
	for i, slab := range c.TaxSlabs {
		limit, err := ParseLimit(slab.Limit)
		if err != nil {
			return nil, &ConfigError{Field: fmt.Sprintf("tax_slabs[%d].limit", i), Err: err}
		}
		if slab.Rate == nil {
			return nil, &ConfigError{Field: fmt.Sprintf("tax_slabs[%d].rate", i), Err: fmt.Errorf("missing")}
		}
		if *slab.Rate < 0 || *slab.Rate > 1 || math.IsNaN(*slab.Rate) {
			return nil, &ConfigError{Field: fmt.Sprintf("tax_slabs[%d].rate", i), Err: fmt.Errorf("%v is not a fraction in [0,1]", *slab.Rate)}
		}
		slabs = append(slabs, tax.Slab{UpperBound: limit, Rate: *slab.Rate})
	}

	settings := c.TaxSettings
	required := []struct {
		field string
		value *float64
	}{
		{"tax_config.rebate_limit", settings.RebateLimit},
		{"tax_config.rebate_amount", settings.RebateAmount},
		{"tax_config.cess_rate", settings.CessRate},
		{"tax_config.usd_inr", settings.USDINR},
	}
	for _, r := range required {
		if r.value == nil {
			return nil, &ConfigError{Field: r.field, Err: fmt.Errorf("missing")}
		}
	}

	taxConfig := &tax.Config{
		Slabs:            slabs,
		RebateLimit:      *settings.RebateLimit,
		RebateAmount:     *settings.RebateAmount,
		CessRate:         *settings.CessRate,
		USDToINRFallback: *settings.USDINR,
	}
	if err := taxConfig.Validate(); err != nil {
		return nil, &ConfigError{Field: "tax_config", Err: err}
	}
	return taxConfig, nil
}

// ParseLimit converts a slab limit to a number, mapping "inf" to +Inf.
func ParseLimit(value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("missing")
	}
	switch strings.ToLower(trimmed) {
	case "inf", "+inf", ".inf", "infinity":
		return math.Inf(1), nil
	}

	limit, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is neither a number nor inf", value)
	}
	if math.IsNaN(limit) || limit < 0 {
		return 0, fmt.Errorf("%q must be a non-negative number", value)
	}
	return limit, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	if c.taxConfig == nil {
		return nil
	}

	slabs := make([]validation.SlabConfig, 0, len(c.taxConfig.Slabs))
	for _, slab := range c.taxConfig.Slabs {
		slabs = append(slabs, validation.SlabConfig{Limit: slab.UpperBound, Rate: slab.Rate})
	}

	validator := validation.TaxConfigValidator{
		Slabs:       slabs,
		RebateLimit: c.taxConfig.RebateLimit,
		CessRate:    c.taxConfig.CessRate,
	}
	return validator.ValidateAll()
}
