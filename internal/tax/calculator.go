package tax

import (
	"fmt"
	"math"

	"github.com/iwvelando/salary-tax-compare/pkg/constants"
)

// CalculateTax walks the slabs in ascending order and accumulates the tax on
// each portion of income, then applies the rebate and cess. The rebate is a
// cliff: it applies in full at or below the rebate limit and not at all above.
func CalculateTax(cfg *Config, income float64) (tax, cess float64, err error) {
	if err := validateIncome(income); err != nil {
		return 0, 0, err
	}

	prevLimit := 0.0
	for _, slab := range cfg.Slabs {
		if income > slab.UpperBound {
			tax += (slab.UpperBound - prevLimit) * slab.Rate
			prevLimit = slab.UpperBound
			continue
		}
		tax += (income - prevLimit) * slab.Rate
		break
	}

	if income <= cfg.RebateLimit {
		tax = math.Max(0, tax-cfg.RebateAmount)
	}
	cess = tax * cfg.CessRate
	return tax, cess, nil
}

// TaxableIncome derives the taxable income for a method from gross income.
func TaxableIncome(method Method, gross float64) (float64, error) {
	if err := validateIncome(gross); err != nil {
		return 0, err
	}
	switch method {
	case Standard:
		return gross, nil
	case Presumptive44ADA:
		// No gross-receipts eligibility ceiling is applied.
		return gross * constants.PresumptiveProfitRatio, nil
	}
	return 0, fmt.Errorf("%w: %v", ErrInvalidMethod, method)
}

// Compute produces the full tax breakdown for a gross income under a method.
func Compute(cfg *Config, method Method, gross float64) (Result, error) {
	taxable, err := TaxableIncome(method, gross)
	if err != nil {
		return Result{}, err
	}

	tax, cess, err := CalculateTax(cfg, taxable)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Method:        method,
		GrossIncome:   gross,
		TaxableIncome: taxable,
		TaxPayable:    tax,
		Cess:          cess,
		NetIncome:     gross - tax - cess,
	}, nil
}

// ComputeStandard is Compute with the Standard method.
func ComputeStandard(cfg *Config, gross float64) (Result, error) {
	return Compute(cfg, Standard, gross)
}

// Compute44ADA is Compute with the presumptive 44ADA method.
func Compute44ADA(cfg *Config, gross float64) (Result, error) {
	return Compute(cfg, Presumptive44ADA, gross)
}
