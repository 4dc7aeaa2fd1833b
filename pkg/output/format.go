// Package output provides utilities for formatting and displaying comparison results.
package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/iwvelando/salary-tax-compare/internal/compare"
	"github.com/iwvelando/salary-tax-compare/internal/currency"
	"github.com/iwvelando/salary-tax-compare/internal/tax"
	"github.com/iwvelando/salary-tax-compare/pkg/format"
	"github.com/iwvelando/salary-tax-compare/pkg/mathutil"
	"gopkg.in/yaml.v3"
)

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, report *compare.Report) {
	if report.Request.Currency == currency.USD {
		source := "live rate"
		if !report.Conversion.Live {
			source = "fallback rate"
		}
		_, _ = fmt.Fprintf(w, "1 USD = %s INR (%s)\n", format.Rupee(report.Conversion.RateUsed), source)
		_, _ = fmt.Fprintf(w, "Annual salary: %s = %s\n\n", format.Dollar(report.AnnualSalary), format.Rupee(report.Conversion.AmountINR))
	}

	writeBreakdown(w, "Standard Tax Method", report.Standard)
	_, _ = fmt.Fprintln(w)
	writeBreakdown(w, "44ADA Method", report.Presumptive)

	if report.HasRequiredCTC {
		_, _ = fmt.Fprintf(w, "\nRequired CTC to get same In-hand as 44ADA under Standard Tax Method: %s\n",
			format.Rupee(float64(report.RequiredCTC)))
	}
}

func writeBreakdown(w io.Writer, title string, result tax.Result) {
	_, _ = fmt.Fprintf(w, "--- %s ---\n", title)
	_, _ = fmt.Fprintf(w, "Gross Income:       %s\n", format.Rupee(result.GrossIncome))
	_, _ = fmt.Fprintf(w, "Taxable Income:     %s\n", format.Rupee(result.TaxableIncome))
	_, _ = fmt.Fprintf(w, "Tax Payable:        %s\n", format.Rupee(result.TaxPayable))
	_, _ = fmt.Fprintf(w, "Cess:               %s\n", format.Rupee(result.Cess))
	_, _ = fmt.Fprintf(w, "Net In-hand:        %s\n", format.Rupee(result.NetIncome))
	_, _ = fmt.Fprintf(w, "Monthly In-hand:    %s\n", format.Rupee(result.MonthlyNetIncome()))
	if !mathutil.IsZero(result.GrossIncome) {
		_, _ = fmt.Fprintf(w, "Effective Tax Rate: %.2f%%\n", mathutil.CalculatePercentage(result.TotalTax(), result.GrossIncome))
	}
}

// CsvFormat writes the report in comma-separated value format.
func CsvFormat(w io.Writer, report *compare.Report) {
	_, _ = fmt.Fprintf(w, `"method","gross income","taxable income","tax payable","cess","net income","monthly net income","rate used","required ctc"`)
	_, _ = fmt.Fprintf(w, "\n")

	requiredCTC := ""
	if report.HasRequiredCTC {
		requiredCTC = fmt.Sprintf("%d", report.RequiredCTC)
	}
	for _, result := range []tax.Result{report.Standard, report.Presumptive} {
		_, _ = fmt.Fprintf(w, `"%s","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%.4f","%s"`,
			result.Method, result.GrossIncome, result.TaxableIncome, result.TaxPayable, result.Cess,
			result.NetIncome, result.MonthlyNetIncome(), report.Conversion.RateUsed, requiredCTC)
		_, _ = fmt.Fprintf(w, "\n")
	}
}

// CsvString returns the CSV rendering of the report.
func CsvString(report *compare.Report) string {
	var buf bytes.Buffer
	CsvFormat(&buf, report)
	return buf.String()
}

// Summary is the serializable form of a Report.
type Summary struct {
	Salary      float64       `yaml:"salary" json:"salary"`
	Period      string        `yaml:"period" json:"period"`
	Currency    string        `yaml:"currency" json:"currency"`
	RateUsed    float64       `yaml:"rateUsed" json:"rateUsed"`
	LiveRate    bool          `yaml:"liveRate" json:"liveRate"`
	Standard    ResultSummary `yaml:"standard" json:"standard"`
	Presumptive ResultSummary `yaml:"presumptive44ADA" json:"presumptive44ADA"`
	RequiredCTC *int64        `yaml:"requiredCTC,omitempty" json:"requiredCTC,omitempty"`
	Warnings    []string      `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}

// ResultSummary is the serializable form of a tax.Result.
type ResultSummary struct {
	Method           string  `yaml:"method" json:"method"`
	GrossIncome      float64 `yaml:"grossIncome" json:"grossIncome"`
	TaxableIncome    float64 `yaml:"taxableIncome" json:"taxableIncome"`
	TaxPayable       float64 `yaml:"taxPayable" json:"taxPayable"`
	Cess             float64 `yaml:"cess" json:"cess"`
	NetIncome        float64 `yaml:"netIncome" json:"netIncome"`
	MonthlyNetIncome float64 `yaml:"monthlyNetIncome" json:"monthlyNetIncome"`
}

// Summarize converts a Report into its serializable form, rounding amounts
// to paise.
func Summarize(report *compare.Report) Summary {
	summary := Summary{
		Salary:      report.Request.Salary,
		Period:      string(report.Request.Period),
		Currency:    string(report.Request.Currency),
		RateUsed:    report.Conversion.RateUsed,
		LiveRate:    report.Conversion.Live,
		Standard:    summarizeResult(report.Standard),
		Presumptive: summarizeResult(report.Presumptive),
		Warnings:    append([]string(nil), report.Warnings...),
	}
	if report.HasRequiredCTC {
		ctc := report.RequiredCTC
		summary.RequiredCTC = &ctc
	}
	return summary
}

func summarizeResult(result tax.Result) ResultSummary {
	return ResultSummary{
		Method:           result.Method.String(),
		GrossIncome:      mathutil.Round(result.GrossIncome),
		TaxableIncome:    mathutil.Round(result.TaxableIncome),
		TaxPayable:       mathutil.Round(result.TaxPayable),
		Cess:             mathutil.Round(result.Cess),
		NetIncome:        mathutil.Round(result.NetIncome),
		MonthlyNetIncome: mathutil.Round(result.MonthlyNetIncome()),
	}
}

// YAMLFormat writes the report summary as YAML.
func YAMLFormat(w io.Writer, report *compare.Report) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(Summarize(report)); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return encoder.Close()
}
