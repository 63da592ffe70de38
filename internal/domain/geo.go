package domain

import "encoding/json"

// Boundary is a stored administrative boundary. The geometry is kept as the
// raw GeoJSON blob and re-served verbatim; nothing here interprets it.
type Boundary struct {
	Entity   string          `json:"entity"`
	District string          `json:"district,omitempty"`
	Level    AdminLevel      `json:"level"`
	Geometry json.RawMessage `json:"geometry"`
}

// ChoroplethFeature joins one boundary with the selected metric value.
type ChoroplethFeature struct {
	Entity   string          `json:"entity"`
	District string          `json:"district,omitempty"`
	Value    float64         `json:"value"`
	Display  string          `json:"display"`
	Geometry json.RawMessage `json:"geometry"`
}

// ChoroplethResponse is the map layer payload for one period and metric.
type ChoroplethResponse struct {
	Level    AdminLevel          `json:"level"`
	Period   Period              `json:"period"`
	Metric   Metric              `json:"metric"`
	Features []ChoroplethFeature `json:"features"`
}
