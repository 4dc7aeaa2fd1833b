package testutil

import (
	"math"
	"testing"
)

func TestReferenceTaxConfigIsValid(t *testing.T) {
	cfg := ReferenceTaxConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("ReferenceTaxConfig() is invalid: %v", err)
	}
	if !math.IsInf(cfg.Slabs[len(cfg.Slabs)-1].UpperBound, 1) {
		t.Errorf("expected last slab to be unbounded")
	}
}

func TestReferenceTaxConfigIsFresh(t *testing.T) {
	a := ReferenceTaxConfig()
	b := ReferenceTaxConfig()
	a.Slabs[0].Rate = 0.5
	if b.Slabs[0].Rate != 0 {
		t.Errorf("ReferenceTaxConfig() shares slab storage between calls")
	}
}

func TestFlatTaxConfig(t *testing.T) {
	cfg := FlatTaxConfig(0.1)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("FlatTaxConfig() is invalid: %v", err)
	}
	if len(cfg.Slabs) != 1 || cfg.Slabs[0].Rate != 0.1 {
		t.Errorf("unexpected slabs: %+v", cfg.Slabs)
	}
}
