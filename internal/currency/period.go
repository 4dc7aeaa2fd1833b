// Package currency normalizes salary inputs to annual INR amounts.
package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/salary-tax-compare/pkg/constants"
)

// ErrInvalidPeriod is returned for a pay period other than Annual or Monthly.
var ErrInvalidPeriod = errors.New("invalid pay period")

// Period is the pay period an input salary is quoted in.
type Period string

const (
	Annual  Period = constants.PeriodAnnual
	Monthly Period = constants.PeriodMonthly
)

// ParsePeriod resolves a period name, case-insensitively.
func ParsePeriod(value string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "annual":
		return Annual, nil
	case "monthly":
		return Monthly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, value)
}

// Annualize converts an amount quoted per period into an annual amount.
func Annualize(amount float64, period Period) (float64, error) {
	switch period {
	case Annual:
		return amount, nil
	case Monthly:
		return amount * constants.MonthsPerYear, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPeriod, string(period))
}
