package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentageChange(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		expected float64
	}{
		{name: "increase", current: 110, previous: 100, expected: 10.0},
		{name: "decrease", current: 90, previous: 100, expected: -10.0},
		{name: "previous zero does not divide", current: 5, previous: 0, expected: 0.0},
		{name: "both zero", current: 0, previous: 0, expected: 0.0},
		{name: "no change", current: 42, previous: 42, expected: 0.0},
		{name: "doubled", current: 200, previous: 100, expected: 100.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, PercentageChange(tt.current, tt.previous), 1e-9)
		})
	}
}

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	assert.Equal(t, 10.35, RoundWithTwoDecimalPlace(10.345))
	assert.Equal(t, 0.0, RoundWithTwoDecimalPlace(0))
	assert.Equal(t, -3.33, RoundWithTwoDecimalPlace(-3.333))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "12,345", FormatCount(12345))
	assert.Equal(t, "0", FormatCount(0.2))
	assert.Equal(t, "1,000", FormatCount(999.6))
}

func TestFormatSignedCount(t *testing.T) {
	assert.Equal(t, "+1,234", FormatSignedCount(1234))
	assert.Equal(t, "-56", FormatSignedCount(-56))
	assert.Equal(t, "+0", FormatSignedCount(0))
	assert.Equal(t, "-1,500", FormatSignedCount(-1500.2))
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "12.3", FormatRate(12.34))
	assert.Equal(t, "0.0", FormatRate(0))
	assert.Equal(t, "+2.4", FormatSignedRate(2.44))
	assert.Equal(t, "-0.7", FormatSignedRate(-0.7))
	assert.Equal(t, "+0.0", FormatSignedRate(0))
}
