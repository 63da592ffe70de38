package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eulademuhizi/malaria-dashboard-api/internal/domain"
)

// stubReportingService serves a fixed period list for param resolution tests.
type stubReportingService struct {
	periods []domain.Period
	err     error
}

func (s *stubReportingService) GetOverview(domain.AdminLevel, domain.Period, domain.MetricKey) (*domain.OverviewResponse, error) {
	return nil, nil
}

func (s *stubReportingService) GetRanking(domain.AdminLevel, domain.Period, domain.MetricKey, int) (*domain.RankingResponse, error) {
	return nil, nil
}

func (s *stubReportingService) GetChoropleth(domain.AdminLevel, domain.Period, domain.MetricKey) (*domain.ChoroplethResponse, error) {
	return nil, nil
}

func (s *stubReportingService) GetObservations(domain.AdminLevel, domain.Period) ([]domain.Observation, error) {
	return nil, nil
}

func (s *stubReportingService) GetAvailablePeriods(domain.AdminLevel) (*domain.AvailablePeriods, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.AvailablePeriods{Periods: s.periods}, nil
}

func (s *stubReportingService) GetMetrics(domain.AdminLevel) []domain.Metric { return nil }

func (s *stubReportingService) ListEntities(domain.AdminLevel) ([]domain.EntityRef, error) {
	return nil, nil
}

func (s *stubReportingService) FlushCache() {}

func TestPeriodFromRequest_defaultsToLatestPeriod(t *testing.T) {
	service := &stubReportingService{periods: []domain.Period{
		{Year: 2025, Month: 6},
		{Year: 2025, Month: 5},
		{Year: 2024, Month: 12},
	}}

	r := httptest.NewRequest(http.MethodGet, "/v1/levels/districts/overview", nil)
	w := httptest.NewRecorder()

	period, ok := periodFromRequest(w, r, service, domain.AdminLevelDistricts)

	require.True(t, ok)
	assert.Equal(t, domain.Period{Year: 2025, Month: 6}, period)
}

func TestPeriodFromRequest_noPeriodsAvailable(t *testing.T) {
	service := &stubReportingService{}

	r := httptest.NewRequest(http.MethodGet, "/v1/levels/districts/overview", nil)
	w := httptest.NewRecorder()

	_, ok := periodFromRequest(w, r, service, domain.AdminLevelDistricts)

	require.False(t, ok)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPeriodFromRequest_explicitPeriod(t *testing.T) {
	service := &stubReportingService{}

	r := httptest.NewRequest(http.MethodGet, "/v1/levels/districts/overview?year=2024&month=3", nil)
	w := httptest.NewRecorder()

	period, ok := periodFromRequest(w, r, service, domain.AdminLevelDistricts)

	require.True(t, ok)
	assert.Equal(t, domain.Period{Year: 2024, Month: 3}, period)
}

func TestPeriodFromRequest_invalidMonth(t *testing.T) {
	service := &stubReportingService{}

	r := httptest.NewRequest(http.MethodGet, "/v1/levels/districts/overview?year=2024&month=13", nil)
	w := httptest.NewRecorder()

	_, ok := periodFromRequest(w, r, service, domain.AdminLevelDistricts)

	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
