package validation

import (
	"strings"
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	for _, format := range []string{"pretty", "csv", "yaml"} {
		if err := ValidateOutputFormat(format); err != nil {
			t.Errorf("ValidateOutputFormat(%q) unexpected error = %v", format, err)
		}
	}

	invalid := []string{"", "json", "yml", "YAML", "Pretty", "CSV", " csv", "yaml ", "pretty-print"}
	for _, format := range invalid {
		if err := ValidateOutputFormat(format); err == nil {
			t.Errorf("ValidateOutputFormat(%q) expected error but got none", format)
		}
	}
}

func TestValidateOutputFormatErrorMessage(t *testing.T) {
	tests := []struct {
		format   string
		expected string
	}{
		{"yml", "expected output format of pretty, csv or yaml, got yml"},
		{"YAML", "expected output format of pretty, csv or yaml, got YAML"},
		{"json", "expected output format of pretty, csv or yaml, got json"},
		{"", "expected output format of pretty, csv or yaml, got "},
	}

	for _, tt := range tests {
		err := ValidateOutputFormat(tt.format)
		if err == nil {
			t.Fatalf("ValidateOutputFormat(%q) expected error", tt.format)
		}
		if err.Error() != tt.expected {
			t.Errorf("ValidateOutputFormat(%q) error = %q, expected %q", tt.format, err.Error(), tt.expected)
		}
		if !strings.Contains(err.Error(), "yaml") {
			t.Errorf("error for %q should list yaml as a supported format", tt.format)
		}
	}
}
