// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"

	"github.com/iwvelando/salary-tax-compare/internal/tax"
)

// ReferenceTaxConfig returns the slab table, rebate and cess used throughout
// the test suites and shipped in config.yaml.example.
func ReferenceTaxConfig() *tax.Config {
	return &tax.Config{
		Slabs: []tax.Slab{
			{UpperBound: 300000, Rate: 0},
			{UpperBound: 600000, Rate: 0.05},
			{UpperBound: 900000, Rate: 0.10},
			{UpperBound: 1200000, Rate: 0.15},
			{UpperBound: 1500000, Rate: 0.20},
			{UpperBound: math.Inf(1), Rate: 0.30},
		},
		RebateLimit:      700000,
		RebateAmount:     25000,
		CessRate:         0.04,
		USDToINRFallback: 83,
	}
}

// FlatTaxConfig returns a single-slab configuration taxing every rupee at rate.
func FlatTaxConfig(rate float64) *tax.Config {
	return &tax.Config{
		Slabs:            []tax.Slab{{UpperBound: math.Inf(1), Rate: rate}},
		USDToINRFallback: 83,
	}
}
