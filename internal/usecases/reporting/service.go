// Package reporting assembles the dashboard payloads: overview cards with
// period-over-period movers, top-N rankings, choropleth layers, and the
// period/metric catalogs.
package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/eulademuhizi/malaria-dashboard-api/infrastructure/repository"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/domain"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/usecases/ranking"
	"github.com/eulademuhizi/malaria-dashboard-api/pkg/utils"
)

// topMoversCount is how many increases/decreases the overview shows.
const topMoversCount = 3

// defaultRankingLimit matches the dashboard's "Top 10" chart.
const defaultRankingLimit = 10

type ReportingService interface {
	GetOverview(level domain.AdminLevel, period domain.Period, metric domain.MetricKey) (*domain.OverviewResponse, error)
	GetRanking(level domain.AdminLevel, period domain.Period, metric domain.MetricKey, limit int) (*domain.RankingResponse, error)
	GetChoropleth(level domain.AdminLevel, period domain.Period, metric domain.MetricKey) (*domain.ChoroplethResponse, error)
	GetObservations(level domain.AdminLevel, period domain.Period) ([]domain.Observation, error)
	GetAvailablePeriods(level domain.AdminLevel) (*domain.AvailablePeriods, error)
	GetMetrics(level domain.AdminLevel) []domain.Metric
	ListEntities(level domain.AdminLevel) ([]domain.EntityRef, error)
	FlushCache()
}

type Service struct {
	observationRepo repository.ObservationRepository
	boundaryRepo    repository.BoundaryRepository
	cache           *cache.Cache
}

func NewService(
	observationRepo repository.ObservationRepository,
	boundaryRepo repository.BoundaryRepository,
	cacheTTL, cacheCleanup time.Duration,
) ReportingService {
	return &Service{
		observationRepo: observationRepo,
		boundaryRepo:    boundaryRepo,
		cache:           cache.New(cacheTTL, cacheCleanup),
	}
}

func (s *Service) GetOverview(level domain.AdminLevel, period domain.Period, metricKey domain.MetricKey) (*domain.OverviewResponse, error) {
	metric, ok := domain.LookupMetric(level, metricKey)
	if !ok {
		return nil, ErrUnknownMetric
	}

	cacheKey := fmt.Sprintf("overview:%s:%d-%02d:%s", level, period.Year, period.Month, metric.Key)
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.(*domain.OverviewResponse), nil
	}

	current, err := s.observationRepo.GetByPeriod(level, period)
	if err != nil {
		return nil, err
	}
	if len(current) == 0 {
		return nil, ErrNoDataForSelection
	}

	previousPeriod := period.Previous()
	previous, err := s.observationRepo.GetByPeriod(level, previousPeriod)
	if err != nil {
		return nil, err
	}

	casesMetric := domain.CasesMetric(level)
	currentCases := sumMetric(current, casesMetric.Key)
	currentIncidence := meanMetric(current, domain.MetricIncidence)

	// Previous metrics default to the current ones when the earlier period
	// is absent, which makes both deltas zero.
	previousCases := currentCases
	previousIncidence := currentIncidence
	if len(previous) > 0 {
		previousCases = sumMetric(previous, casesMetric.Key)
		previousIncidence = meanMetric(previous, domain.MetricIncidence)
	}

	increases, decreases := ranking.RankChanges(current, previous, metric, topMoversCount)

	response := &domain.OverviewResponse{
		Level:          level,
		Period:         period,
		PreviousPeriod: previousPeriod,
		Metric:         metric,
		TotalCases: domain.MetricCard{
			Label:        casesMetric.Label,
			Value:        currentCases,
			Display:      utils.FormatCount(currentCases),
			Delta:        currentCases - previousCases,
			DeltaDisplay: utils.FormatSignedCount(currentCases - previousCases),
		},
		AvgIncidence: domain.MetricCard{
			Label:        "Average Incidence",
			Value:        utils.RoundWithTwoDecimalPlace(currentIncidence),
			Display:      utils.FormatRate(currentIncidence),
			Delta:        utils.RoundWithTwoDecimalPlace(currentIncidence - previousIncidence),
			DeltaDisplay: utils.FormatSignedRate(currentIncidence - previousIncidence),
		},
		Increases:   increases,
		Decreases:   decreases,
		EntityCount: len(current),
	}

	s.cache.SetDefault(cacheKey, response)
	return response, nil
}

func (s *Service) GetRanking(level domain.AdminLevel, period domain.Period, metricKey domain.MetricKey, limit int) (*domain.RankingResponse, error) {
	metric, ok := domain.LookupMetric(level, metricKey)
	if !ok {
		return nil, ErrUnknownMetric
	}
	if limit <= 0 {
		limit = defaultRankingLimit
	}

	cacheKey := fmt.Sprintf("ranking:%s:%d-%02d:%s:%d", level, period.Year, period.Month, metric.Key, limit)
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.(*domain.RankingResponse), nil
	}

	current, err := s.observationRepo.GetByPeriod(level, period)
	if err != nil {
		return nil, err
	}
	if len(current) == 0 {
		return nil, ErrNoDataForSelection
	}

	sorted := make([]domain.Observation, len(current))
	copy(sorted, current)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value(metric.Key) > sorted[j].Value(metric.Key)
	})

	if limit > len(sorted) {
		limit = len(sorted)
	}

	items := make([]domain.RankingItem, 0, limit)
	for i, obs := range sorted[:limit] {
		value := obs.Value(metric.Key)
		items = append(items, domain.RankingItem{
			Position: i + 1,
			Entity:   obs.Entity,
			District: parentDistrict(level, obs),
			Value:    value,
			Display:  formatMetricValue(metric, value),
		})
	}

	response := &domain.RankingResponse{
		Level:  level,
		Period: period,
		Metric: metric,
		Items:  items,
	}

	s.cache.SetDefault(cacheKey, response)
	return response, nil
}

func (s *Service) GetChoropleth(level domain.AdminLevel, period domain.Period, metricKey domain.MetricKey) (*domain.ChoroplethResponse, error) {
	metric, ok := domain.LookupMetric(level, metricKey)
	if !ok {
		return nil, ErrUnknownMetric
	}

	cacheKey := fmt.Sprintf("choropleth:%s:%d-%02d:%s", level, period.Year, period.Month, metric.Key)
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.(*domain.ChoroplethResponse), nil
	}

	current, err := s.observationRepo.GetByPeriod(level, period)
	if err != nil {
		return nil, err
	}
	if len(current) == 0 {
		return nil, ErrNoDataForSelection
	}

	boundaries, err := s.boundaryRepo.GetByLevel(level)
	if err != nil {
		return nil, err
	}

	valuesByEntity := make(map[string]float64, len(current))
	for _, obs := range current {
		valuesByEntity[obs.EntityKey()] = obs.Value(metric.Key)
	}

	features := make([]domain.ChoroplethFeature, 0, len(boundaries))
	for _, b := range boundaries {
		ref := domain.EntityRef{Entity: b.Entity, District: b.District}
		value, hasValue := valuesByEntity[ref.Key()]
		if !hasValue {
			// Boundaries without a matching observation stay on the map
			// with a zero value so the shape is still drawn.
			value = 0
		}

		features = append(features, domain.ChoroplethFeature{
			Entity:   b.Entity,
			District: boundaryDistrict(level, b),
			Value:    value,
			Display:  formatMetricValue(metric, value),
			Geometry: b.Geometry,
		})
	}

	response := &domain.ChoroplethResponse{
		Level:    level,
		Period:   period,
		Metric:   metric,
		Features: features,
	}

	s.cache.SetDefault(cacheKey, response)
	return response, nil
}

func (s *Service) GetObservations(level domain.AdminLevel, period domain.Period) ([]domain.Observation, error) {
	observations, err := s.observationRepo.GetByPeriod(level, period)
	if err != nil {
		return nil, err
	}
	if len(observations) == 0 {
		return nil, ErrNoDataForSelection
	}
	return observations, nil
}

func (s *Service) GetAvailablePeriods(level domain.AdminLevel) (*domain.AvailablePeriods, error) {
	return s.observationRepo.GetAvailablePeriods(level)
}

func (s *Service) GetMetrics(level domain.AdminLevel) []domain.Metric {
	return domain.MetricsForLevel(level)
}

func (s *Service) ListEntities(level domain.AdminLevel) ([]domain.EntityRef, error) {
	return s.observationRepo.ListEntities(level)
}

// FlushCache drops every cached report. Called after a dataset sync so the
// next requests see the fresh data.
func (s *Service) FlushCache() {
	s.cache.Flush()
}

func sumMetric(observations []domain.Observation, key domain.MetricKey) float64 {
	var total float64
	for _, obs := range observations {
		total += obs.Value(key)
	}
	return total
}

func meanMetric(observations []domain.Observation, key domain.MetricKey) float64 {
	if len(observations) == 0 {
		return 0
	}
	return sumMetric(observations, key) / float64(len(observations))
}

func formatMetricValue(metric domain.Metric, v float64) string {
	if metric.Kind == domain.MetricKindRate {
		return utils.FormatRate(v)
	}
	return utils.FormatCount(v)
}

func parentDistrict(level domain.AdminLevel, obs domain.Observation) string {
	if level == domain.AdminLevelSectors {
		return obs.District
	}
	return ""
}

func boundaryDistrict(level domain.AdminLevel, b domain.Boundary) string {
	if level == domain.AdminLevelSectors {
		return b.District
	}
	return ""
}
