// Package domain contains the data structures of the surveillance domain.
package domain

import (
	"fmt"
)

// AdminLevel identifies which administrative subdivision a dataset covers.
type AdminLevel string

const (
	AdminLevelDistricts AdminLevel = "districts"
	AdminLevelSectors   AdminLevel = "sectors"
)

// ParseAdminLevel validates a level string coming from the API path.
func ParseAdminLevel(s string) (AdminLevel, error) {
	switch AdminLevel(s) {
	case AdminLevelDistricts:
		return AdminLevelDistricts, nil
	case AdminLevelSectors:
		return AdminLevelSectors, nil
	default:
		return "", fmt.Errorf("unknown admin level: %q", s)
	}
}

// DisplayType returns the human label used in titles ("Districts"/"Sectors").
func (l AdminLevel) DisplayType() string {
	if l == AdminLevelSectors {
		return "Sectors"
	}
	return "Districts"
}

// Measures maps metric keys to their numeric values for one observation.
type Measures map[MetricKey]float64

// Observation is one surveillance row: an entity (district or sector) in a
// given (year, month) with its measured values.
type Observation struct {
	Entity   string   `json:"entity"`
	District string   `json:"district,omitempty"` // parent district, set for sectors
	Year     int      `json:"year"`
	Month    int      `json:"month"`
	Measures Measures `json:"measures"`
}

// EntityKey returns the identity used to match an entity across periods.
// Sector names repeat between districts, so the parent district is part of
// the key.
func (o Observation) EntityKey() string {
	if o.District != "" && o.District != o.Entity {
		return o.Entity + "|" + o.District
	}
	return o.Entity
}

// DisplayName returns the name shown to users, qualifying sectors with their
// parent district.
func (o Observation) DisplayName() string {
	if o.District != "" && o.District != o.Entity {
		return fmt.Sprintf("%s (%s)", o.Entity, o.District)
	}
	return o.Entity
}

// Value returns the observation's value for a metric, or 0 when the metric
// is not part of this dataset variant.
func (o Observation) Value(metric MetricKey) float64 {
	return o.Measures[metric]
}

// EntityRef identifies one entity for selection, qualified by the parent
// district at sector level.
type EntityRef struct {
	Entity   string `json:"entity"`
	District string `json:"district,omitempty"`
}

// Key mirrors Observation.EntityKey for selector matching.
func (r EntityRef) Key() string {
	if r.District != "" && r.District != r.Entity {
		return r.Entity + "|" + r.District
	}
	return r.Entity
}

// DatasetLoad records one ingestion batch.
type DatasetLoad struct {
	ID          string     `json:"id"`
	Level       AdminLevel `json:"level"`
	SourceFile  string     `json:"source_file"`
	RecordCount int        `json:"record_count"`
}
