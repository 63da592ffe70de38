package domain

// RankingItem is one entity in the top-N ranking for a period.
type RankingItem struct {
	Position int     `json:"position"`
	Entity   string  `json:"entity"`
	District string  `json:"district,omitempty"`
	Value    float64 `json:"value"`
	Display  string  `json:"display"`
}

// RankingResponse carries the top-N entities by a metric for one period.
type RankingResponse struct {
	Level  AdminLevel    `json:"level"`
	Period Period        `json:"period"`
	Metric Metric        `json:"metric"`
	Items  []RankingItem `json:"items"`
}
