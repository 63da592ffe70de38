package reporting

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/eulademuhizi/malaria-dashboard-api/infrastructure/repository/mocks"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/domain"
)

func newTestService(t *testing.T) (*Service, *mocks.MockObservationRepository, *mocks.MockBoundaryRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	obsRepo := mocks.NewMockObservationRepository(ctrl)
	boundaryRepo := mocks.NewMockBoundaryRepository(ctrl)
	svc := NewService(obsRepo, boundaryRepo, time.Minute, time.Minute).(*Service)
	return svc, obsRepo, boundaryRepo
}

func districtObs(name string, cases, incidence float64) domain.Observation {
	return domain.Observation{
		Entity:   name,
		District: name,
		Year:     2025,
		Month:    6,
		Measures: domain.Measures{
			domain.MetricAllCases:  cases,
			domain.MetricIncidence: incidence,
		},
	}
}

func TestGetOverview(t *testing.T) {
	svc, obsRepo, _ := newTestService(t)

	period := domain.Period{Year: 2025, Month: 6}
	current := []domain.Observation{
		districtObs("Gasabo", 1200, 40),
		districtObs("Kirehe", 800, 20),
	}
	previous := []domain.Observation{
		districtObs("Gasabo", 1000, 30),
		districtObs("Kirehe", 900, 50),
	}

	obsRepo.EXPECT().GetByPeriod(domain.AdminLevelDistricts, period).Return(current, nil)
	obsRepo.EXPECT().GetByPeriod(domain.AdminLevelDistricts, domain.Period{Year: 2025, Month: 5}).Return(previous, nil)

	overview, err := svc.GetOverview(domain.AdminLevelDistricts, period, domain.MetricAllCases)
	require.NoError(t, err)

	assert.Equal(t, domain.Period{Year: 2025, Month: 5}, overview.PreviousPeriod)
	assert.Equal(t, 2, overview.EntityCount)

	// Totals: 2000 now vs 1900 before.
	assert.Equal(t, 2000.0, overview.TotalCases.Value)
	assert.Equal(t, "2,000", overview.TotalCases.Display)
	assert.Equal(t, 100.0, overview.TotalCases.Delta)
	assert.Equal(t, "+100", overview.TotalCases.DeltaDisplay)

	// Mean incidence: 30 now vs 40 before.
	assert.Equal(t, 30.0, overview.AvgIncidence.Value)
	assert.Equal(t, "30.0", overview.AvgIncidence.Display)
	assert.Equal(t, "-10.0", overview.AvgIncidence.DeltaDisplay)

	// Movers: Gasabo +200, Kirehe -100.
	require.NotEmpty(t, overview.Increases)
	assert.Equal(t, "Gasabo", overview.Increases[0].Entity)
	assert.Equal(t, 200.0, overview.Increases[0].Change)
	require.NotEmpty(t, overview.Decreases)
	assert.Equal(t, "Kirehe", overview.Decreases[0].Entity)
	assert.Equal(t, -100.0, overview.Decreases[0].Change)
}

func TestGetOverview_CachesSecondCall(t *testing.T) {
	svc, obsRepo, _ := newTestService(t)

	period := domain.Period{Year: 2025, Month: 6}
	current := []domain.Observation{districtObs("Gasabo", 100, 10)}

	// Repository is hit exactly once per period despite two calls.
	obsRepo.EXPECT().GetByPeriod(domain.AdminLevelDistricts, period).Return(current, nil).Times(1)
	obsRepo.EXPECT().GetByPeriod(domain.AdminLevelDistricts, period.Previous()).Return(nil, nil).Times(1)

	first, err := svc.GetOverview(domain.AdminLevelDistricts, period, domain.MetricAllCases)
	require.NoError(t, err)
	second, err := svc.GetOverview(domain.AdminLevelDistricts, period, domain.MetricAllCases)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// No previous period: deltas default to zero.
	assert.Equal(t, 0.0, first.TotalCases.Delta)
	assert.Equal(t, "+0", first.TotalCases.DeltaDisplay)
}

func TestGetOverview_Errors(t *testing.T) {
	tests := []struct {
		name     string
		metric   domain.MetricKey
		setup    func(obsRepo *mocks.MockObservationRepository)
		expected error
	}{
		{
			name:     "unknown metric",
			metric:   domain.MetricSimpleCases, // sector-only metric
			setup:    func(obsRepo *mocks.MockObservationRepository) {},
			expected: ErrUnknownMetric,
		},
		{
			name:   "empty selection",
			metric: domain.MetricAllCases,
			setup: func(obsRepo *mocks.MockObservationRepository) {
				obsRepo.EXPECT().GetByPeriod(gomock.Any(), gomock.Any()).Return([]domain.Observation{}, nil)
			},
			expected: ErrNoDataForSelection,
		},
		{
			name:   "repository failure",
			metric: domain.MetricAllCases,
			setup: func(obsRepo *mocks.MockObservationRepository) {
				obsRepo.EXPECT().GetByPeriod(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))
			},
			expected: nil, // passthrough error
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, obsRepo, _ := newTestService(t)
			tt.setup(obsRepo)

			_, err := svc.GetOverview(domain.AdminLevelDistricts, domain.Period{Year: 2025, Month: 6}, tt.metric)
			require.Error(t, err)
			if tt.expected != nil {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}
}

func TestGetRanking(t *testing.T) {
	svc, obsRepo, _ := newTestService(t)

	period := domain.Period{Year: 2025, Month: 6}
	current := []domain.Observation{
		districtObs("Kirehe", 800, 20),
		districtObs("Gasabo", 1200, 40),
		districtObs("Ngoma", 500, 15),
	}
	obsRepo.EXPECT().GetByPeriod(domain.AdminLevelDistricts, period).Return(current, nil)

	response, err := svc.GetRanking(domain.AdminLevelDistricts, period, domain.MetricAllCases, 2)
	require.NoError(t, err)
	require.Len(t, response.Items, 2)

	assert.Equal(t, 1, response.Items[0].Position)
	assert.Equal(t, "Gasabo", response.Items[0].Entity)
	assert.Equal(t, "1,200", response.Items[0].Display)
	assert.Equal(t, 2, response.Items[1].Position)
	assert.Equal(t, "Kirehe", response.Items[1].Entity)
}

func TestGetChoropleth(t *testing.T) {
	svc, obsRepo, boundaryRepo := newTestService(t)

	period := domain.Period{Year: 2025, Month: 6}
	geometry := json.RawMessage(`{"type":"Polygon"}`)

	obsRepo.EXPECT().
		GetByPeriod(domain.AdminLevelDistricts, period).
		Return([]domain.Observation{districtObs("Gasabo", 1200, 40)}, nil)
	boundaryRepo.EXPECT().
		GetByLevel(domain.AdminLevelDistricts).
		Return([]domain.Boundary{
			{Entity: "Gasabo", District: "Gasabo", Level: domain.AdminLevelDistricts, Geometry: geometry},
			{Entity: "Kirehe", District: "Kirehe", Level: domain.AdminLevelDistricts, Geometry: geometry},
		}, nil)

	response, err := svc.GetChoropleth(domain.AdminLevelDistricts, period, domain.MetricAllCases)
	require.NoError(t, err)
	require.Len(t, response.Features, 2)

	assert.Equal(t, 1200.0, response.Features[0].Value)
	assert.Equal(t, "1,200", response.Features[0].Display)

	// Boundaries with no observation still render, at zero.
	assert.Equal(t, "Kirehe", response.Features[1].Entity)
	assert.Equal(t, 0.0, response.Features[1].Value)
}

func TestGetMetrics(t *testing.T) {
	svc, _, _ := newTestService(t)

	districtMetrics := svc.GetMetrics(domain.AdminLevelDistricts)
	assert.Len(t, districtMetrics, 3)
	assert.Equal(t, domain.MetricAllCases, districtMetrics[0].Key)

	sectorMetrics := svc.GetMetrics(domain.AdminLevelSectors)
	assert.Len(t, sectorMetrics, 2)
	assert.Equal(t, domain.MetricSimpleCases, sectorMetrics[0].Key)
}

func TestFlushCache(t *testing.T) {
	svc, obsRepo, _ := newTestService(t)

	period := domain.Period{Year: 2025, Month: 6}
	current := []domain.Observation{districtObs("Gasabo", 100, 10)}

	// After a flush, the repository is queried again.
	obsRepo.EXPECT().GetByPeriod(domain.AdminLevelDistricts, period).Return(current, nil).Times(2)
	obsRepo.EXPECT().GetByPeriod(domain.AdminLevelDistricts, period.Previous()).Return(nil, nil).Times(2)

	_, err := svc.GetOverview(domain.AdminLevelDistricts, period, domain.MetricAllCases)
	require.NoError(t, err)

	svc.FlushCache()

	_, err = svc.GetOverview(domain.AdminLevelDistricts, period, domain.MetricAllCases)
	require.NoError(t, err)
}
