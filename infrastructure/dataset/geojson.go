package dataset

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/eulademuhizi/malaria-dashboard-api/internal/domain"
)

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// LoadBoundaries reads a GeoJSON FeatureCollection and keys each feature by
// its District/Sector properties. Geometries stay opaque raw JSON.
func LoadBoundaries(level domain.AdminLevel, path string) ([]domain.Boundary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading boundaries %s", path)
	}

	var collection featureCollection
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, errors.Wrapf(err, "parsing boundaries %s", path)
	}

	boundaries := make([]domain.Boundary, 0, len(collection.Features))
	for i, feat := range collection.Features {
		district := propString(feat.Properties, "District", "district")

		entity := district
		if level == domain.AdminLevelSectors {
			entity = propString(feat.Properties, "Sector", "sector")
		}
		if entity == "" {
			return nil, errors.Errorf("feature %d of %s has no entity name property", i, path)
		}

		boundaries = append(boundaries, domain.Boundary{
			Entity:   entity,
			District: district,
			Level:    level,
			Geometry: feat.Geometry,
		})
	}

	return boundaries, nil
}

func propString(props map[string]any, names ...string) string {
	for _, name := range names {
		if v, ok := props[name].(string); ok {
			return v
		}
	}
	return ""
}
