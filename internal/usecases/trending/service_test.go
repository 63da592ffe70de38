package trending

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/eulademuhizi/malaria-dashboard-api/infrastructure/repository/mocks"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/domain"
)

func sectorObs(name, district string, year, month int, cases float64) domain.Observation {
	return domain.Observation{
		Entity:   name,
		District: district,
		Year:     year,
		Month:    month,
		Measures: domain.Measures{domain.MetricSimpleCases: cases},
	}
}

func TestGetTrends(t *testing.T) {
	ctrl := gomock.NewController(t)
	obsRepo := mocks.NewMockObservationRepository(ctrl)
	svc := NewService(obsRepo)

	entities := []domain.EntityRef{
		{Entity: "Remera", District: "Gasabo"},
		{Entity: "Kimironko", District: "Gasabo"},
	}

	obsRepo.EXPECT().
		GetSeries(domain.AdminLevelSectors, entities).
		Return([]domain.Observation{
			sectorObs("Remera", "Gasabo", 2024, 12, 80),
			sectorObs("Kimironko", "Gasabo", 2024, 12, 60),
			sectorObs("Remera", "Gasabo", 2025, 1, 95),
		}, nil)

	response, err := svc.GetTrends(domain.AdminLevelSectors, entities, domain.MetricSimpleCases)
	require.NoError(t, err)
	require.Len(t, response.Series, 2)

	// Series follow the caller's selection order.
	remera := response.Series[0]
	assert.Equal(t, "Remera", remera.Entity)
	assert.Equal(t, "Remera (Gasabo)", remera.Display)
	require.Len(t, remera.Points, 2)
	assert.Equal(t, "Dec 2024", remera.Points[0].Label)
	assert.Equal(t, 80.0, remera.Points[0].Value)
	assert.Equal(t, "Jan 2025", remera.Points[1].Label)

	kimironko := response.Series[1]
	assert.Equal(t, "Kimironko", kimironko.Entity)
	require.Len(t, kimironko.Points, 1)
}

func TestGetTrends_SelectionErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	obsRepo := mocks.NewMockObservationRepository(ctrl)
	svc := NewService(obsRepo)

	_, err := svc.GetTrends(domain.AdminLevelDistricts, nil, domain.MetricAllCases)
	assert.ErrorIs(t, err, ErrNoEntitiesSelected)

	tooMany := make([]domain.EntityRef, 6)
	for i := range tooMany {
		tooMany[i] = domain.EntityRef{Entity: string(rune('A' + i))}
	}
	_, err = svc.GetTrends(domain.AdminLevelDistricts, tooMany, domain.MetricAllCases)
	assert.ErrorIs(t, err, ErrTooManyEntities)

	_, err = svc.GetTrends(
		domain.AdminLevelDistricts,
		[]domain.EntityRef{{Entity: "Gasabo"}},
		domain.MetricSimpleCases, // sector-only metric
	)
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestGetTrends_EntityWithoutData(t *testing.T) {
	ctrl := gomock.NewController(t)
	obsRepo := mocks.NewMockObservationRepository(ctrl)
	svc := NewService(obsRepo)

	entities := []domain.EntityRef{{Entity: "Gasabo"}, {Entity: "Atlantis"}}

	obsRepo.EXPECT().
		GetSeries(domain.AdminLevelDistricts, entities).
		Return([]domain.Observation{
			{
				Entity: "Gasabo", District: "Gasabo", Year: 2025, Month: 3,
				Measures: domain.Measures{domain.MetricAllCases: 10},
			},
		}, nil)

	response, err := svc.GetTrends(domain.AdminLevelDistricts, entities, domain.MetricAllCases)
	require.NoError(t, err)

	// Unknown entities simply produce no series.
	require.Len(t, response.Series, 1)
	assert.Equal(t, "Gasabo", response.Series[0].Entity)
	assert.Empty(t, response.Series[0].District)
}
