// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"math"
)

// SlabConfig is the validation view of one tax slab.
type SlabConfig struct {
	Limit float64
	Rate  float64
}

// TaxConfigValidator inspects a structurally valid tax configuration for
// settings that are legal but likely unintended.
type TaxConfigValidator struct {
	Slabs       []SlabConfig
	RebateLimit float64
	CessRate    float64
}

// ValidateSlabOrdering warns when a slab's rate is lower than the one below it.
func ValidateSlabOrdering(slabs []SlabConfig) []string {
	var warnings []string
	for i := 1; i < len(slabs); i++ {
		if slabs[i].Rate < slabs[i-1].Rate {
			warnings = append(warnings, fmt.Sprintf("Slab %d rate %.4f is lower than slab %d rate %.4f",
				i+1, slabs[i].Rate, i, slabs[i-1].Rate))
		}
	}
	return warnings
}

// ValidateEffectiveRates warns when a slab takes more than the whole marginal
// rupee once cess is added, which makes net income fall as gross rises.
func ValidateEffectiveRates(slabs []SlabConfig, cessRate float64) []string {
	var warnings []string
	for i, slab := range slabs {
		if slab.Rate*(1+cessRate) > 1 {
			warnings = append(warnings, fmt.Sprintf("Slab %d marginal rate with cess is %.4f (> 1) - reverse CTC search will scan linearly",
				i+1, slab.Rate*(1+cessRate)))
		}
	}
	return warnings
}

// ValidateRebateLimit warns when the rebate limit lies beyond the last finite
// slab boundary.
func ValidateRebateLimit(slabs []SlabConfig, rebateLimit float64) string {
	var lastFinite float64
	for _, slab := range slabs {
		if !math.IsInf(slab.Limit, 1) {
			lastFinite = slab.Limit
		}
	}
	if rebateLimit > lastFinite && lastFinite > 0 {
		return fmt.Sprintf("Rebate limit %.2f is above the highest finite slab limit %.2f", rebateLimit, lastFinite)
	}
	return ""
}

// ValidateAll validates the entire configuration and returns warnings
func (v *TaxConfigValidator) ValidateAll() []string {
	var warnings []string

	warnings = append(warnings, ValidateSlabOrdering(v.Slabs)...)
	warnings = append(warnings, ValidateEffectiveRates(v.Slabs, v.CessRate)...)
	if warning := ValidateRebateLimit(v.Slabs, v.RebateLimit); warning != "" {
		warnings = append(warnings, warning)
	}

	return warnings
}
