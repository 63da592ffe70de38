package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonthName(t *testing.T) {
	assert.Equal(t, "Jan", MonthName(1))
	assert.Equal(t, "Dec", MonthName(12))

	// Out-of-range months fall back to the stringified integer.
	assert.Equal(t, "13", MonthName(13))
	assert.Equal(t, "0", MonthName(0))
	assert.Equal(t, "-1", MonthName(-1))
}

func TestMonthFullName(t *testing.T) {
	assert.Equal(t, "January", MonthFullName(1))
	assert.Equal(t, "August", MonthFullName(8))
	assert.Equal(t, "13", MonthFullName(13))
}
