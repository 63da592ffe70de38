package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eulademuhizi/malaria-dashboard-api/internal/domain"
)

func districtObs(name string, cases float64) domain.Observation {
	return domain.Observation{
		Entity:   name,
		District: name,
		Year:     2025,
		Month:    6,
		Measures: domain.Measures{domain.MetricAllCases: cases},
	}
}

func casesMetric() domain.Metric {
	m, _ := domain.LookupMetric(domain.AdminLevelDistricts, domain.MetricAllCases)
	return m
}

func TestRankChanges_Scenario(t *testing.T) {
	// current = [{A: 120}, {B: 80}], previous = [{A: 100}, {B: 100}], topK=1
	current := []domain.Observation{districtObs("A", 120), districtObs("B", 80)}
	previous := []domain.Observation{districtObs("A", 100), districtObs("B", 100)}

	increases, decreases := RankChanges(current, previous, casesMetric(), 1)

	require.Len(t, increases, 1)
	assert.Equal(t, "A", increases[0].Entity)
	assert.Equal(t, 20.0, increases[0].Change)
	assert.InDelta(t, 20.0, increases[0].ChangePct, 1e-9)
	assert.Equal(t, "120", increases[0].CurrentDisplay)
	assert.Equal(t, "+20", increases[0].ChangeDisplay)
	assert.Equal(t, "cases", increases[0].MetricName)

	require.Len(t, decreases, 1)
	assert.Equal(t, "B", decreases[0].Entity)
	assert.Equal(t, -20.0, decreases[0].Change)
	assert.InDelta(t, -20.0, decreases[0].ChangePct, 1e-9)
	assert.Equal(t, "-20", decreases[0].ChangeDisplay)
}

func TestRankChanges_Ordering(t *testing.T) {
	current := []domain.Observation{
		districtObs("Gasabo", 500),
		districtObs("Nyagatare", 900),
		districtObs("Kirehe", 150),
		districtObs("Ngoma", 320),
	}
	previous := []domain.Observation{
		districtObs("Gasabo", 400),   // +100
		districtObs("Nyagatare", 50), // +850
		districtObs("Kirehe", 600),   // -450
		districtObs("Ngoma", 330),    // -10
	}

	increases, decreases := RankChanges(current, previous, casesMetric(), 3)

	// Increases sorted descending by absolute change.
	require.Len(t, increases, 3)
	assert.Equal(t, []string{"Nyagatare", "Gasabo", "Ngoma"}, entities(increases))
	for i := 1; i < len(increases); i++ {
		assert.GreaterOrEqual(t, increases[i-1].Change, increases[i].Change)
	}

	// Decreases sorted ascending (most negative first).
	require.Len(t, decreases, 3)
	assert.Equal(t, []string{"Kirehe", "Ngoma", "Gasabo"}, entities(decreases))
	for i := 1; i < len(decreases); i++ {
		assert.LessOrEqual(t, decreases[i-1].Change, decreases[i].Change)
	}
}

func TestRankChanges_MissingPreviousEntityIsZeroChange(t *testing.T) {
	current := []domain.Observation{districtObs("Rubavu", 240)}
	previous := []domain.Observation{districtObs("Gasabo", 100)}

	increases, _ := RankChanges(current, previous, casesMetric(), 3)

	require.Len(t, increases, 1)
	assert.Equal(t, 240.0, increases[0].CurrentValue)
	assert.Equal(t, 240.0, increases[0].PreviousValue)
	assert.Equal(t, 0.0, increases[0].Change)
	assert.Equal(t, 0.0, increases[0].ChangePct)
}

func TestRankChanges_PreviousZeroHasZeroPct(t *testing.T) {
	current := []domain.Observation{districtObs("Burera", 75)}
	previous := []domain.Observation{districtObs("Burera", 0)}

	increases, _ := RankChanges(current, previous, casesMetric(), 1)

	require.Len(t, increases, 1)
	assert.Equal(t, 75.0, increases[0].Change)
	assert.Equal(t, 0.0, increases[0].ChangePct)
}

func TestRankChanges_EmptyPreviousKeepsInputOrder(t *testing.T) {
	current := []domain.Observation{
		districtObs("Gasabo", 10),
		districtObs("Kicukiro", 20),
		districtObs("Nyarugenge", 30),
	}

	increases, decreases := RankChanges(current, nil, casesMetric(), 2)

	// All changes are zero, so the stable sort surfaces input order on both
	// sides.
	assert.Equal(t, []string{"Gasabo", "Kicukiro"}, entities(increases))
	assert.Equal(t, []string{"Gasabo", "Kicukiro"}, entities(decreases))
	for _, rec := range append(increases, decreases...) {
		assert.Equal(t, 0.0, rec.Change)
		assert.Equal(t, 0.0, rec.ChangePct)
	}
}

func TestRankChanges_TopKBounds(t *testing.T) {
	current := []domain.Observation{districtObs("A", 1), districtObs("B", 2)}

	increases, decreases := RankChanges(current, nil, casesMetric(), 5)
	assert.LessOrEqual(t, len(increases), 5)
	assert.LessOrEqual(t, len(decreases), 5)
	assert.Len(t, increases, 2)

	increases, decreases = RankChanges(current, nil, casesMetric(), 0)
	assert.Empty(t, increases)
	assert.Empty(t, decreases)

	increases, decreases = RankChanges(nil, nil, casesMetric(), 3)
	assert.Empty(t, increases)
	assert.Empty(t, decreases)
}

func TestRankChanges_SectorsMatchOnParentDistrict(t *testing.T) {
	sector := func(name, district string, incidence float64) domain.Observation {
		return domain.Observation{
			Entity:   name,
			District: district,
			Measures: domain.Measures{domain.MetricIncidence: incidence},
		}
	}
	metric, _ := domain.LookupMetric(domain.AdminLevelSectors, domain.MetricIncidence)

	// Two sectors share a name but live in different districts; only the
	// (sector, district) pair matches across periods.
	current := []domain.Observation{
		sector("Remera", "Gasabo", 14.5),
		sector("Remera", "Rubavu", 8.0),
	}
	previous := []domain.Observation{
		sector("Remera", "Gasabo", 10.0),
		sector("Remera", "Rubavu", 12.0),
	}

	increases, decreases := RankChanges(current, previous, metric, 1)

	require.Len(t, increases, 1)
	assert.Equal(t, "Gasabo", increases[0].District)
	assert.InDelta(t, 4.5, increases[0].Change, 1e-9)
	assert.Equal(t, "14.5", increases[0].CurrentDisplay)
	assert.Equal(t, "+4.5", increases[0].ChangeDisplay)
	assert.Equal(t, "incidence", increases[0].MetricName)

	require.Len(t, decreases, 1)
	assert.Equal(t, "Rubavu", decreases[0].District)
	assert.InDelta(t, -4.0, decreases[0].Change, 1e-9)
}

func TestRankChanges_DoesNotMutateInput(t *testing.T) {
	current := []domain.Observation{
		districtObs("B", 10),
		districtObs("A", 99),
	}
	previous := []domain.Observation{districtObs("A", 1)}

	RankChanges(current, previous, casesMetric(), 2)

	assert.Equal(t, "B", current[0].Entity)
	assert.Equal(t, "A", current[1].Entity)
}

func entities(records []domain.ChangeRecord) []string {
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Entity)
	}
	return names
}
