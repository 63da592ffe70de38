package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eulademuhizi/malaria-dashboard-api/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadObservations_DistrictCSV(t *testing.T) {
	path := writeFile(t, "districts.csv",
		"District,year,month,all cases,Severe cases/Deaths,all cases incidence,Population\n"+
			"Gasabo,2025,6,\"1,234\",12,45.6,530000\n"+
			"Kirehe,2025,6,890,4,,410000\n")

	observations, err := LoadObservations(domain.AdminLevelDistricts, path)
	require.NoError(t, err)
	require.Len(t, observations, 2)

	gasabo := observations[0]
	assert.Equal(t, "Gasabo", gasabo.Entity)
	assert.Equal(t, 2025, gasabo.Year)
	assert.Equal(t, 6, gasabo.Month)
	assert.Equal(t, 1234.0, gasabo.Value(domain.MetricAllCases))
	assert.Equal(t, 12.0, gasabo.Value(domain.MetricSevereCasesDeaths))
	assert.Equal(t, 45.6, gasabo.Value(domain.MetricIncidence))
	assert.Equal(t, 530000.0, gasabo.Value(domain.MetricPopulation))

	// Blank measure cells read as 0.
	assert.Equal(t, 0.0, observations[1].Value(domain.MetricIncidence))
}

func TestLoadObservations_SectorCSV(t *testing.T) {
	path := writeFile(t, "sectors.csv",
		"Sector,District,year,month,Simple malaria cases,incidence,Population\n"+
			"Remera,Gasabo,2025,6,321,14.2,61000\n")

	observations, err := LoadObservations(domain.AdminLevelSectors, path)
	require.NoError(t, err)
	require.Len(t, observations, 1)

	remera := observations[0]
	assert.Equal(t, "Remera", remera.Entity)
	assert.Equal(t, "Gasabo", remera.District)
	assert.Equal(t, 321.0, remera.Value(domain.MetricSimpleCases))
	assert.Equal(t, 14.2, remera.Value(domain.MetricIncidence))
}

func TestLoadObservations_MissingRequiredColumn(t *testing.T) {
	path := writeFile(t, "bad.csv",
		"District,year,all cases\nGasabo,2025,100\n")

	_, err := LoadObservations(domain.AdminLevelDistricts, path)
	assert.ErrorContains(t, err, "month")
}

func TestLoadObservations_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, "districts.parquet", "not really")

	_, err := LoadObservations(domain.AdminLevelDistricts, path)
	assert.ErrorContains(t, err, "unsupported dataset format")
}

func TestLoadObservations_InvalidMonth(t *testing.T) {
	path := writeFile(t, "districts.csv",
		"District,year,month\nGasabo,2025,13\n")

	_, err := LoadObservations(domain.AdminLevelDistricts, path)
	assert.ErrorContains(t, err, "month out of range")
}

func TestLoadBoundaries(t *testing.T) {
	path := writeFile(t, "districts.geojson", `{
		"type": "FeatureCollection",
		"features": [
			{
				"properties": {"District": "Gasabo"},
				"geometry": {"type": "Polygon", "coordinates": [[[30.1, -1.9], [30.2, -1.9], [30.2, -1.8], [30.1, -1.9]]]}
			}
		]
	}`)

	boundaries, err := LoadBoundaries(domain.AdminLevelDistricts, path)
	require.NoError(t, err)
	require.Len(t, boundaries, 1)

	assert.Equal(t, "Gasabo", boundaries[0].Entity)
	assert.Equal(t, domain.AdminLevelDistricts, boundaries[0].Level)
	assert.JSONEq(t,
		`{"type":"Polygon","coordinates":[[[30.1,-1.9],[30.2,-1.9],[30.2,-1.8],[30.1,-1.9]]]}`,
		string(boundaries[0].Geometry))
}

func TestLoadBoundaries_MissingName(t *testing.T) {
	path := writeFile(t, "sectors.geojson", `{
		"type": "FeatureCollection",
		"features": [{"properties": {"District": "Gasabo"}, "geometry": {"type": "Polygon"}}]
	}`)

	_, err := LoadBoundaries(domain.AdminLevelSectors, path)
	assert.ErrorContains(t, err, "no entity name")
}
