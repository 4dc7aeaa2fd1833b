package validation

import (
	"math"
	"strings"
	"testing"
)

var referenceSlabs = []SlabConfig{
	{Limit: 300000, Rate: 0},
	{Limit: 600000, Rate: 0.05},
	{Limit: 900000, Rate: 0.10},
	{Limit: 1200000, Rate: 0.15},
	{Limit: 1500000, Rate: 0.20},
	{Limit: math.Inf(1), Rate: 0.30},
}

func TestValidateSlabOrdering(t *testing.T) {
	tests := []struct {
		name          string
		slabs         []SlabConfig
		expectedCount int
	}{
		{
			name:          "Ascending rates",
			slabs:         referenceSlabs,
			expectedCount: 0,
		},
		{
			name: "One decreasing rate",
			slabs: []SlabConfig{
				{Limit: 100, Rate: 0.2},
				{Limit: math.Inf(1), Rate: 0.1},
			},
			expectedCount: 1,
		},
		{
			name:          "Empty slabs",
			slabs:         nil,
			expectedCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := ValidateSlabOrdering(tt.slabs)
			if len(warnings) != tt.expectedCount {
				t.Errorf("ValidateSlabOrdering() returned %d warnings, expected %d: %v", len(warnings), tt.expectedCount, warnings)
			}
		})
	}
}

func TestValidateEffectiveRates(t *testing.T) {
	if warnings := ValidateEffectiveRates(referenceSlabs, 0.04); len(warnings) != 0 {
		t.Errorf("expected no warnings for reference slabs, got %v", warnings)
	}

	slabs := []SlabConfig{{Limit: math.Inf(1), Rate: 0.99}}
	warnings := ValidateEffectiveRates(slabs, 0.04)
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "linearly") {
		t.Errorf("warning should mention the linear scan fallback: %s", warnings[0])
	}
}

func TestValidateRebateLimit(t *testing.T) {
	tests := []struct {
		name        string
		rebateLimit float64
		expectWarn  bool
	}{
		{"Inside slabs", 700000, false},
		{"At last finite limit", 1500000, false},
		{"Beyond last finite limit", 2000000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidateRebateLimit(referenceSlabs, tt.rebateLimit)
			if tt.expectWarn && warning == "" {
				t.Errorf("ValidateRebateLimit(%v) expected warning", tt.rebateLimit)
			}
			if !tt.expectWarn && warning != "" {
				t.Errorf("ValidateRebateLimit(%v) unexpected warning: %s", tt.rebateLimit, warning)
			}
		})
	}
}

func TestTaxConfigValidatorValidateAll(t *testing.T) {
	validator := &TaxConfigValidator{
		Slabs: []SlabConfig{
			{Limit: 100000, Rate: 0.5},
			{Limit: math.Inf(1), Rate: 0.98},
		},
		RebateLimit: 500000,
		CessRate:    0.04,
	}

	warnings := validator.ValidateAll()
	// rate 0.98 with cess exceeds 1 and the rebate limit is past 100000
	if len(warnings) != 2 {
		t.Errorf("ValidateAll() returned %d warnings, expected 2: %v", len(warnings), warnings)
	}

	clean := &TaxConfigValidator{Slabs: referenceSlabs, RebateLimit: 700000, CessRate: 0.04}
	if warnings := clean.ValidateAll(); len(warnings) != 0 {
		t.Errorf("ValidateAll() on reference config returned warnings: %v", warnings)
	}
}
