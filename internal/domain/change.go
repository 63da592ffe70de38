package domain

// ChangeRecord compares one entity's metric value between two periods. It is
// derived fresh for each request and never persisted.
type ChangeRecord struct {
	Entity         string  `json:"entity"`
	District       string  `json:"district,omitempty"`
	CurrentValue   float64 `json:"current_value"`
	PreviousValue  float64 `json:"previous_value"`
	Change         float64 `json:"change"`
	ChangePct      float64 `json:"change_pct"`
	MetricName     string  `json:"metric_name"`     // unit word ("cases", "incidence")
	CurrentDisplay string  `json:"current_display"` // formatted current value
	ChangeDisplay  string  `json:"change_display"`  // signed formatted delta
}
