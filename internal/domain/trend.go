package domain

// TrendPoint is one monthly value in an entity's series.
type TrendPoint struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Label string  `json:"label"` // e.g. "Aug 2025"
	Value float64 `json:"value"`
}

// TrendSeries is the full monthly series for one entity.
type TrendSeries struct {
	Entity   string       `json:"entity"`
	District string       `json:"district,omitempty"`
	Display  string       `json:"display"`
	Points   []TrendPoint `json:"points"`
}

// TrendResponse carries the series for the selected entities.
type TrendResponse struct {
	Level  AdminLevel    `json:"level"`
	Metric Metric        `json:"metric"`
	Series []TrendSeries `json:"series"`
}
