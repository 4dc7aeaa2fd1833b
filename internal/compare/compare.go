// Package compare runs the Standard versus 44ADA comparison for one salary
// input: period and currency normalization, both tax computations and the
// reverse CTC search.
package compare

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/salary-tax-compare/internal/currency"
	"github.com/iwvelando/salary-tax-compare/internal/tax"
	"github.com/iwvelando/salary-tax-compare/pkg/mathutil"
	"go.uber.org/zap"
)

// TaxConfigSource supplies the active tax configuration.
type TaxConfigSource interface {
	TaxConfig() *tax.Config
}

// StaticConfig is a TaxConfigSource that never changes.
type StaticConfig struct {
	Config *tax.Config
}

// TaxConfig returns the wrapped configuration.
func (s StaticConfig) TaxConfig() *tax.Config {
	return s.Config
}

// Request is the salary input of one comparison.
type Request struct {
	Salary   float64
	Period   currency.Period
	Currency currency.Currency
}

// Report is the outcome of one comparison.
type Report struct {
	Request      Request
	AnnualSalary float64
	Conversion   currency.Conversion
	Standard     tax.Result
	Presumptive  tax.Result
	// RequiredCTC is the Standard gross matching the 44ADA net income. It is
	// only meaningful when HasRequiredCTC is set.
	RequiredCTC    int64
	HasRequiredCTC bool
	Warnings       []string
}

// Comparator runs comparisons against the current tax configuration.
type Comparator struct {
	logger    *zap.Logger
	source    TaxConfigSource
	converter *currency.Converter
}

// NewComparator creates a Comparator. The converter's fallback rate is
// replaced per request by the configured usd_inr rate.
func NewComparator(logger *zap.Logger, source TaxConfigSource, converter *currency.Converter) *Comparator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if converter == nil {
		converter = currency.NewConverter(logger, nil, 0)
	}
	return &Comparator{logger: logger, source: source, converter: converter}
}

// Compare computes both regimes for req.
func (c *Comparator) Compare(ctx context.Context, req Request) (*Report, error) {
	start := time.Now()

	cfg := c.source.TaxConfig()
	if cfg == nil {
		return nil, errors.New("no tax configuration loaded")
	}

	if !mathutil.IsFinite(req.Salary) || req.Salary < 0 {
		return nil, fmt.Errorf("%w: salary %v", tax.ErrInvalidIncome, req.Salary)
	}

	annual, err := currency.Annualize(req.Salary, req.Period)
	if err != nil {
		return nil, err
	}

	conversion, err := c.converter.WithFallbackRate(cfg.USDToINRFallback).Convert(ctx, annual, req.Currency)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Request:      req,
		AnnualSalary: annual,
		Conversion:   conversion,
	}
	if warning := conversion.Warning(); warning != "" {
		report.Warnings = append(report.Warnings, warning)
	}

	report.Standard, err = tax.ComputeStandard(cfg, conversion.AmountINR)
	if err != nil {
		return nil, fmt.Errorf("standard computation failed: %w", err)
	}
	report.Presumptive, err = tax.Compute44ADA(cfg, conversion.AmountINR)
	if err != nil {
		return nil, fmt.Errorf("44ADA computation failed: %w", err)
	}

	if req.Salary > 0 {
		report.RequiredCTC, report.HasRequiredCTC, err = tax.ReverseCTC(ctx, cfg, report.Presumptive.NetIncome)
		if err != nil {
			return nil, fmt.Errorf("required CTC search stopped: %w", err)
		}
		if !report.HasRequiredCTC {
			c.logger.Debug("no Standard package matches the 44ADA net income",
				zap.String("op", "compare.Compare"),
				zap.Float64("target", report.Presumptive.NetIncome),
			)
		}
	}

	c.logger.Info("comparison computed",
		zap.String("op", "compare.Compare"),
		zap.String("period", string(req.Period)),
		zap.String("currency", string(req.Currency)),
		zap.Float64("grossINR", conversion.AmountINR),
		zap.Bool("liveRate", conversion.Live),
		zap.Bool("requiredCTC", report.HasRequiredCTC),
		zap.Duration("duration", time.Since(start)),
	)

	return report, nil
}
