// Package tax computes Indian personal income tax under the Standard slab
// regime and the presumptive 44ADA scheme.
package tax

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/salary-tax-compare/pkg/constants"
	"github.com/iwvelando/salary-tax-compare/pkg/mathutil"
)

var (
	// ErrInvalidIncome is returned for negative or non-finite incomes.
	ErrInvalidIncome = errors.New("invalid income")

	// ErrInvalidMethod is returned for an unrecognized taxation method.
	ErrInvalidMethod = errors.New("invalid tax method")
)

// Slab is a contiguous income bracket taxed at a single marginal rate. The
// bracket runs from the previous slab's UpperBound to this one.
type Slab struct {
	UpperBound float64
	Rate       float64
}

// Config is the immutable tax configuration shared by every computation.
type Config struct {
	Slabs            []Slab
	RebateLimit      float64
	RebateAmount     float64
	CessRate         float64
	USDToINRFallback float64
}

// Validate checks that the slabs partition [0, +Inf) and that every rate is
// a fraction.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("tax configuration is nil")
	}
	if len(c.Slabs) == 0 {
		return errors.New("tax slabs are empty")
	}

	prev := 0.0
	for i, slab := range c.Slabs {
		if math.IsNaN(slab.Rate) || slab.Rate < 0 || slab.Rate > 1 {
			return fmt.Errorf("slab %d rate %v is not a fraction in [0,1]", i+1, slab.Rate)
		}
		if math.IsNaN(slab.UpperBound) || slab.UpperBound <= prev {
			return fmt.Errorf("slab %d limit %v is not above the previous limit %v", i+1, slab.UpperBound, prev)
		}
		if math.IsInf(slab.UpperBound, 1) && i != len(c.Slabs)-1 {
			return fmt.Errorf("slab %d has an infinite limit but is not the last slab", i+1)
		}
		prev = slab.UpperBound
	}
	if !math.IsInf(prev, 1) {
		return fmt.Errorf("last slab limit must be inf, got %v", prev)
	}

	if !mathutil.IsFinite(c.RebateLimit) || c.RebateLimit < 0 {
		return fmt.Errorf("rebate limit %v must be a non-negative number", c.RebateLimit)
	}
	if !mathutil.IsFinite(c.RebateAmount) || c.RebateAmount < 0 {
		return fmt.Errorf("rebate amount %v must be a non-negative number", c.RebateAmount)
	}
	if math.IsNaN(c.CessRate) || c.CessRate < 0 || c.CessRate > 1 {
		return fmt.Errorf("cess rate %v is not a fraction in [0,1]", c.CessRate)
	}
	if !mathutil.IsFinite(c.USDToINRFallback) || c.USDToINRFallback <= 0 {
		return fmt.Errorf("usd_inr fallback rate %v must be positive", c.USDToINRFallback)
	}
	return nil
}

// Method selects how taxable income is derived from gross income.
type Method int

const (
	// Standard taxes the full gross income.
	Standard Method = iota
	// Presumptive44ADA taxes a fixed share of gross receipts.
	Presumptive44ADA
)

// String returns the display name of the method.
func (m Method) String() string {
	switch m {
	case Standard:
		return "Standard"
	case Presumptive44ADA:
		return "44ADA"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod resolves a method name, case-insensitively.
func ParseMethod(value string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "standard":
		return Standard, nil
	case "44ada":
		return Presumptive44ADA, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMethod, value)
}

// Result is the outcome of one tax computation.
type Result struct {
	Method        Method
	GrossIncome   float64
	TaxableIncome float64
	TaxPayable    float64
	Cess          float64
	NetIncome     float64
}

// MonthlyNetIncome is the net income spread over twelve months.
func (r Result) MonthlyNetIncome() float64 {
	return r.NetIncome / constants.MonthsPerYear
}

// TotalTax is the tax payable plus cess.
func (r Result) TotalTax() float64 {
	return r.TaxPayable + r.Cess
}

func validateIncome(income float64) error {
	if !mathutil.IsFinite(income) || income < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidIncome, income)
	}
	return nil
}
