package domain

// MetricKey names one numeric measure of an observation.
type MetricKey string

const (
	MetricAllCases          MetricKey = "all_cases"
	MetricSevereCasesDeaths MetricKey = "severe_cases_deaths"
	MetricIncidence         MetricKey = "incidence"
	MetricSimpleCases       MetricKey = "simple_cases"
	MetricPopulation        MetricKey = "population"
)

// MetricKind distinguishes counts (formatted as integers with separators)
// from rates (one decimal place).
type MetricKind string

const (
	MetricKindCount MetricKind = "count"
	MetricKindRate  MetricKind = "rate"
)

// Metric describes one selectable measure of a dataset variant.
type Metric struct {
	Key       MetricKey  `json:"key"`
	Label     string     `json:"label"`
	ShortName string     `json:"short_name"` // unit word shown next to values ("cases", "incidence")
	Kind      MetricKind `json:"kind"`
}

// The metric catalog is fixed per dataset variant, resolved once here rather
// than re-inferred from column names on every request.
var districtMetrics = []Metric{
	{Key: MetricAllCases, Label: "Total Cases", ShortName: "cases", Kind: MetricKindCount},
	{Key: MetricSevereCasesDeaths, Label: "Severe Cases/Deaths", ShortName: "cases", Kind: MetricKindCount},
	{Key: MetricIncidence, Label: "Cases Incidence Rate", ShortName: "incidence", Kind: MetricKindRate},
}

var sectorMetrics = []Metric{
	{Key: MetricSimpleCases, Label: "Simple Malaria Cases", ShortName: "cases", Kind: MetricKindCount},
	{Key: MetricIncidence, Label: "Incidence Rate", ShortName: "incidence", Kind: MetricKindRate},
}

// MetricsForLevel returns the metric catalog for an admin level.
func MetricsForLevel(level AdminLevel) []Metric {
	if level == AdminLevelSectors {
		return sectorMetrics
	}
	return districtMetrics
}

// DefaultMetric returns the metric preselected for an admin level.
func DefaultMetric(level AdminLevel) Metric {
	return MetricsForLevel(level)[0]
}

// LookupMetric resolves a metric key within a level's catalog.
func LookupMetric(level AdminLevel, key MetricKey) (Metric, bool) {
	for _, m := range MetricsForLevel(level) {
		if m.Key == key {
			return m, true
		}
	}
	return Metric{}, false
}

// CasesMetric returns the level's headline case-count metric, used by the
// overview totals.
func CasesMetric(level AdminLevel) Metric {
	return MetricsForLevel(level)[0]
}
