// Package format renders monetary amounts for display.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	// en-IN groups the last three integer digits, then pairs.
	indianPrinter  = message.NewPrinter(language.MustParse("en-IN"))
	westernPrinter = message.NewPrinter(language.AmericanEnglish)
)

// Rupee returns a currency string with a rupee sign and Indian digit grouping (e.g., "-₹12,34,567.89").
func Rupee(amount float64) string {
	formatted := indianPrinter.Sprintf("%.2f", math.Abs(amount))
	if amount < 0 {
		return "-₹" + formatted
	}
	return "₹" + formatted
}

// Dollar returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Dollar(amount float64) string {
	formatted := westernPrinter.Sprintf("%.2f", math.Abs(amount))
	if amount < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}
