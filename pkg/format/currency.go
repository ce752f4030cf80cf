package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces returns a currency string with a dollar sign, thousands
// separators and the given number of decimal places (e.g., "-$1,234.56").
// Zero places suits currencies without minor units such as COP.
func CurrencyPlaces(amount float64, places int32) string {
	d := decimal.NewFromFloat(amount)
	formatted := formatPositive(d.Abs(), places)
	if d.IsNegative() && formatted != formatPositive(decimal.Zero, places) {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Millions renders an amount as whole millions for chart axes (e.g., "$2,110M").
func Millions(amount float64) string {
	d := decimal.NewFromFloat(amount).Div(decimal.NewFromInt(1_000_000))
	formatted := formatPositive(d.Abs(), 0)
	if d.IsNegative() && formatted != "0" {
		return "-$" + formatted + "M"
	}
	return "$" + formatted + "M"
}

// Percent renders a percentage with the given number of decimal places (e.g., "12.34 %").
func Percent(value float64, places int32) string {
	return decimal.NewFromFloat(value).StringFixed(places) + " %"
}

func formatPositive(value decimal.Decimal, places int32) string {
	formatted := value.StringFixed(places)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	if len(parts) == 2 {
		return intPart + "." + parts[1]
	}
	return intPart
}
