package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeriodPrevious(t *testing.T) {
	assert.Equal(t, Period{Year: 2025, Month: 7}, Period{Year: 2025, Month: 8}.Previous())

	// January wraps to December of the previous year.
	assert.Equal(t, Period{Year: 2024, Month: 12}, Period{Year: 2025, Month: 1}.Previous())
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "Aug 2025", Period{Year: 2025, Month: 8}.Label())
	assert.Equal(t, "13 2025", Period{Year: 2025, Month: 13}.Label())
}

func TestObservationEntityKey(t *testing.T) {
	district := Observation{Entity: "Gasabo", District: "Gasabo"}
	assert.Equal(t, "Gasabo", district.EntityKey())
	assert.Equal(t, "Gasabo", district.DisplayName())

	sector := Observation{Entity: "Remera", District: "Gasabo"}
	assert.Equal(t, "Remera|Gasabo", sector.EntityKey())
	assert.Equal(t, "Remera (Gasabo)", sector.DisplayName())
}

func TestParseAdminLevel(t *testing.T) {
	level, err := ParseAdminLevel("districts")
	assert.NoError(t, err)
	assert.Equal(t, AdminLevelDistricts, level)

	_, err = ParseAdminLevel("provinces")
	assert.Error(t, err)
}

func TestLookupMetric(t *testing.T) {
	m, ok := LookupMetric(AdminLevelDistricts, MetricAllCases)
	assert.True(t, ok)
	assert.Equal(t, "Total Cases", m.Label)

	// Sector datasets do not carry the district-only metrics.
	_, ok = LookupMetric(AdminLevelSectors, MetricSevereCasesDeaths)
	assert.False(t, ok)

	assert.Equal(t, MetricSimpleCases, DefaultMetric(AdminLevelSectors).Key)
}
