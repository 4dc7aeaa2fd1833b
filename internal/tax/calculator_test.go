package tax_test

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/salary-tax-compare/internal/tax"
	"github.com/iwvelando/salary-tax-compare/pkg/mathutil"
	"github.com/iwvelando/salary-tax-compare/pkg/testutil"
)

const tolerance = 1e-6

// Hand-verified against the reference slab table: 0 to 3L at 0%, 3L-6L at 5%,
// 6L-9L at 10%, 9L-12L at 15%, 12L-15L at 20%, above at 30%; rebate of 25000
// up to 7L; 4% cess.
var referenceTable = []struct {
	name    string
	method  tax.Method
	gross   float64
	taxable float64
	tax     float64
	cess    float64
	net     float64
}{
	{"Standard zero", tax.Standard, 0, 0, 0, 0, 0},
	{"Standard inside nil slab", tax.Standard, 250000, 250000, 0, 0, 250000},
	{"Standard at first limit", tax.Standard, 300000, 300000, 0, 0, 300000},
	{"Standard rebated", tax.Standard, 500000, 500000, 0, 0, 500000},
	{"Standard at rebate limit", tax.Standard, 700000, 700000, 0, 0, 700000},
	{"Standard just past rebate limit", tax.Standard, 700001, 700001, 25000.1, 1000.004, 674000.896},
	{"Standard 8L", tax.Standard, 800000, 800000, 35000, 1400, 763600},
	{"Standard 10L", tax.Standard, 1000000, 1000000, 60000, 2400, 937600},
	{"Standard 12L", tax.Standard, 1200000, 1200000, 90000, 3600, 1106400},
	{"Standard 15L", tax.Standard, 1500000, 1500000, 150000, 6000, 1344000},
	{"Standard 20L", tax.Standard, 2000000, 2000000, 300000, 12000, 1688000},
	{"44ADA zero", tax.Presumptive44ADA, 0, 0, 0, 0, 0},
	{"44ADA 10L", tax.Presumptive44ADA, 1000000, 500000, 0, 0, 1000000},
	{"44ADA 14L at rebate limit", tax.Presumptive44ADA, 1400000, 700000, 0, 0, 1400000},
	{"44ADA 20L", tax.Presumptive44ADA, 2000000, 1000000, 60000, 2400, 1937600},
	{"44ADA 30L", tax.Presumptive44ADA, 3000000, 1500000, 150000, 6000, 2844000},
}

func TestComputeReferenceTable(t *testing.T) {
	cfg := testutil.ReferenceTaxConfig()

	for _, tt := range referenceTable {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tax.Compute(cfg, tt.method, tt.gross)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if result.Method != tt.method {
				t.Errorf("Method = %v, expected %v", result.Method, tt.method)
			}
			if result.GrossIncome != tt.gross {
				t.Errorf("GrossIncome = %v, expected %v", result.GrossIncome, tt.gross)
			}
			if !mathutil.WithinTolerance(result.TaxableIncome, tt.taxable, tolerance) {
				t.Errorf("TaxableIncome = %v, expected %v", result.TaxableIncome, tt.taxable)
			}
			if !mathutil.WithinTolerance(result.TaxPayable, tt.tax, tolerance) {
				t.Errorf("TaxPayable = %v, expected %v", result.TaxPayable, tt.tax)
			}
			if !mathutil.WithinTolerance(result.Cess, tt.cess, tolerance) {
				t.Errorf("Cess = %v, expected %v", result.Cess, tt.cess)
			}
			if !mathutil.WithinTolerance(result.NetIncome, tt.net, tolerance) {
				t.Errorf("NetIncome = %v, expected %v", result.NetIncome, tt.net)
			}
		})
	}
}

func TestCalculateTaxNonNegativeAndCessExact(t *testing.T) {
	cfg := testutil.ReferenceTaxConfig()

	for income := 0.0; income <= 5000000; income += 12345.67 {
		taxAmount, cess, err := tax.CalculateTax(cfg, income)
		if err != nil {
			t.Fatalf("CalculateTax(%v) error = %v", income, err)
		}
		if taxAmount < 0 {
			t.Errorf("CalculateTax(%v) tax = %v, expected non-negative", income, taxAmount)
		}
		if cess != taxAmount*cfg.CessRate {
			t.Errorf("CalculateTax(%v) cess = %v, expected exactly %v", income, cess, taxAmount*cfg.CessRate)
		}
	}
}

func TestCalculateTaxSlabBoundaryContinuity(t *testing.T) {
	cfg := testutil.ReferenceTaxConfig()
	const eps = 0.01

	for _, slab := range cfg.Slabs {
		if math.IsInf(slab.UpperBound, 1) {
			continue
		}
		below, _, err := tax.CalculateTax(cfg, slab.UpperBound-eps)
		if err != nil {
			t.Fatalf("CalculateTax() error = %v", err)
		}
		at, _, err := tax.CalculateTax(cfg, slab.UpperBound)
		if err != nil {
			t.Fatalf("CalculateTax() error = %v", err)
		}
		if diff := math.Abs(at - below); diff > slab.Rate*eps+tolerance {
			t.Errorf("tax jumps by %v at limit %v, expected at most %v", diff, slab.UpperBound, slab.Rate*eps)
		}
	}
}

func TestCalculateTaxRebateCliff(t *testing.T) {
	cfg := testutil.ReferenceTaxConfig()

	atLimit, _, err := tax.CalculateTax(cfg, cfg.RebateLimit)
	if err != nil {
		t.Fatalf("CalculateTax() error = %v", err)
	}
	pastLimit, _, err := tax.CalculateTax(cfg, cfg.RebateLimit+0.01)
	if err != nil {
		t.Fatalf("CalculateTax() error = %v", err)
	}

	if atLimit != 0 {
		t.Errorf("tax at rebate limit = %v, expected 0", atLimit)
	}
	if atLimit > pastLimit-cfg.RebateAmount {
		t.Errorf("expected a cliff of at least the rebate amount: at=%v past=%v", atLimit, pastLimit)
	}
	if !mathutil.WithinTolerance(pastLimit, 25000.001, tolerance) {
		t.Errorf("tax just past rebate limit = %v, expected 25000.001", pastLimit)
	}
}

func TestCalculateTaxRebateFloorsAtZero(t *testing.T) {
	cfg := testutil.ReferenceTaxConfig()
	cfg.RebateAmount = 1e9

	taxAmount, cess, err := tax.CalculateTax(cfg, 650000)
	if err != nil {
		t.Fatalf("CalculateTax() error = %v", err)
	}
	if taxAmount != 0 || cess != 0 {
		t.Errorf("CalculateTax() = (%v, %v), expected (0, 0)", taxAmount, cess)
	}
}

func TestCalculateTaxInvalidIncome(t *testing.T) {
	cfg := testutil.ReferenceTaxConfig()

	for _, income := range []float64{-1, -0.01, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, _, err := tax.CalculateTax(cfg, income)
		if !errors.Is(err, tax.ErrInvalidIncome) {
			t.Errorf("CalculateTax(%v) error = %v, expected ErrInvalidIncome", income, err)
		}
	}
}

func TestTaxableIncome44ADAIsHalf(t *testing.T) {
	for gross := 0.0; gross <= 10000000; gross += 99999.99 {
		taxable, err := tax.TaxableIncome(tax.Presumptive44ADA, gross)
		if err != nil {
			t.Fatalf("TaxableIncome() error = %v", err)
		}
		if taxable != gross*0.5 {
			t.Errorf("TaxableIncome(44ADA, %v) = %v, expected %v", gross, taxable, gross*0.5)
		}
	}
}

func TestTaxableIncomeErrors(t *testing.T) {
	if _, err := tax.TaxableIncome(tax.Method(42), 1000); !errors.Is(err, tax.ErrInvalidMethod) {
		t.Errorf("expected ErrInvalidMethod, got %v", err)
	}
	if _, err := tax.TaxableIncome(tax.Standard, -1); !errors.Is(err, tax.ErrInvalidIncome) {
		t.Errorf("expected ErrInvalidIncome, got %v", err)
	}
}

func TestNetIncomeIdentity(t *testing.T) {
	cfg := testutil.ReferenceTaxConfig()

	for gross := 0.0; gross <= 6000000; gross += 77777.77 {
		std, err := tax.ComputeStandard(cfg, gross)
		if err != nil {
			t.Fatalf("ComputeStandard() error = %v", err)
		}
		if std.NetIncome != gross-std.TaxPayable-std.Cess {
			t.Errorf("Standard net %v != gross - tax - cess for %v", std.NetIncome, gross)
		}

		ada, err := tax.Compute44ADA(cfg, gross)
		if err != nil {
			t.Fatalf("Compute44ADA() error = %v", err)
		}
		if ada.NetIncome != gross-ada.TaxPayable-ada.Cess {
			t.Errorf("44ADA net %v != gross - tax - cess for %v", ada.NetIncome, gross)
		}
	}
}

func TestResultHelpers(t *testing.T) {
	result := tax.Result{TaxPayable: 60000, Cess: 2400, NetIncome: 937600}

	if got := result.MonthlyNetIncome(); !mathutil.WithinTolerance(got, 78133.3333, 0.001) {
		t.Errorf("MonthlyNetIncome() = %v", got)
	}
	if got := result.TotalTax(); got != 62400 {
		t.Errorf("TotalTax() = %v, expected 62400", got)
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input     string
		expected  tax.Method
		expectErr bool
	}{
		{"Standard", tax.Standard, false},
		{"standard", tax.Standard, false},
		{"44ADA", tax.Presumptive44ADA, false},
		{" 44ada ", tax.Presumptive44ADA, false},
		{"new regime", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		method, err := tax.ParseMethod(tt.input)
		if tt.expectErr {
			if !errors.Is(err, tax.ErrInvalidMethod) {
				t.Errorf("ParseMethod(%q) error = %v, expected ErrInvalidMethod", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMethod(%q) unexpected error = %v", tt.input, err)
			continue
		}
		if method != tt.expected {
			t.Errorf("ParseMethod(%q) = %v, expected %v", tt.input, method, tt.expected)
		}
		if method.String() == "" {
			t.Errorf("Method.String() is empty")
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*tax.Config)
		expectErr bool
	}{
		{"Reference config", func(*tax.Config) {}, false},
		{"Empty slabs", func(c *tax.Config) { c.Slabs = nil }, true},
		{"Rate above one", func(c *tax.Config) { c.Slabs[2].Rate = 1.5 }, true},
		{"Negative rate", func(c *tax.Config) { c.Slabs[1].Rate = -0.1 }, true},
		{"Descending limits", func(c *tax.Config) { c.Slabs[2].UpperBound = 100 }, true},
		{"Duplicate limits", func(c *tax.Config) { c.Slabs[1].UpperBound = c.Slabs[0].UpperBound }, true},
		{"Finite last slab", func(c *tax.Config) { c.Slabs[len(c.Slabs)-1].UpperBound = 5000000 }, true},
		{"Infinite middle slab", func(c *tax.Config) { c.Slabs[3].UpperBound = math.Inf(1) }, true},
		{"Zero first limit", func(c *tax.Config) { c.Slabs[0].UpperBound = 0 }, true},
		{"Negative rebate limit", func(c *tax.Config) { c.RebateLimit = -1 }, true},
		{"Negative rebate amount", func(c *tax.Config) { c.RebateAmount = -1 }, true},
		{"Cess above one", func(c *tax.Config) { c.CessRate = 2 }, true},
		{"Zero fallback rate", func(c *tax.Config) { c.USDToINRFallback = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testutil.ReferenceTaxConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectErr && err == nil {
				t.Errorf("Validate() expected error but got none")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("Validate() unexpected error = %v", err)
			}
		})
	}

	var nilConfig *tax.Config
	if err := nilConfig.Validate(); err == nil {
		t.Errorf("Validate() on nil config expected error")
	}
}
