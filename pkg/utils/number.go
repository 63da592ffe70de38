package utils

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// PercentageChange returns the relative change between two values as a
// percentage. A zero (or negative) previous value yields 0, never a division
// error or an infinite result.
func PercentageChange(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}

	return ((current - previous) / previous) * 100
}

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// FormatCount renders a case count with thousands separators (e.g. "12,345").
func FormatCount(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

// FormatSignedCount renders a count delta with an explicit sign, keeping the
// thousands separators ("+1,234", "-56"). Zero renders as "+0".
func FormatSignedCount(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return "-" + humanize.Comma(-n)
	}
	return "+" + humanize.Comma(n)
}

// FormatRate renders an incidence rate with one decimal place.
func FormatRate(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// FormatSignedRate renders a rate delta with an explicit sign and one decimal
// place ("+2.4", "-0.7").
func FormatSignedRate(v float64) string {
	return fmt.Sprintf("%+.1f", v)
}
