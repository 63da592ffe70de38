package domain

// MetricCard is one headline figure on the overview, with its delta against
// the previous period already formatted for display.
type MetricCard struct {
	Label        string  `json:"label"`
	Value        float64 `json:"value"`
	Display      string  `json:"display"`
	Delta        float64 `json:"delta"`
	DeltaDisplay string  `json:"delta_display"`
}

// OverviewResponse is the dashboard page payload: headline cards for the
// selected period plus the biggest per-entity movers against the previous
// period.
type OverviewResponse struct {
	Level          AdminLevel     `json:"level"`
	Period         Period         `json:"period"`
	PreviousPeriod Period         `json:"previous_period"`
	Metric         Metric         `json:"metric"`
	TotalCases     MetricCard     `json:"total_cases"`
	AvgIncidence   MetricCard     `json:"avg_incidence"`
	Increases      []ChangeRecord `json:"increases"`
	Decreases      []ChangeRecord `json:"decreases"`
	EntityCount    int            `json:"entity_count"`
}
