package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RoundCents rounds an amount to two decimal places using decimal arithmetic.
func RoundCents(amount float64) float64 {
	f, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return f
}

// SumAmounts adds amounts in decimal so that cent-rounded inputs produce an
// exact cent-rounded total.
func SumAmounts(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	f, _ := total.Round(2).Float64()
	return f
}

// SubAmounts returns a - b rounded to cents.
func SubAmounts(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(2).Float64()
	return f
}

// FormatDollars renders an amount as "$1,234.56" ("-$1,234.56" when negative).
func FormatDollars(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(2)
	whole, cents := fixed[:len(fixed)-3], fixed[len(fixed)-3:]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + "$" + b.String() + cents
}

// FormatPercent renders a ratio such as 0.256 as "25.6%".
func FormatPercent(ratio float64) string {
	return decimal.NewFromFloat(ratio*100).StringFixed(1) + "%"
}
