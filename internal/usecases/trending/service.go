// Package trending builds per-entity monthly series for the historical
// trends view.
package trending

import (
	"errors"

	"github.com/eulademuhizi/malaria-dashboard-api/infrastructure/repository"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/domain"
)

// maxTrendEntities caps how many entities one trend chart compares.
const maxTrendEntities = 5

var (
	ErrNoEntitiesSelected = errors.New("no entities selected")
	ErrTooManyEntities    = errors.New("too many entities selected")
	ErrUnknownMetric      = errors.New("unknown metric for admin level")
)

type TrendingService interface {
	GetTrends(level domain.AdminLevel, entities []domain.EntityRef, metric domain.MetricKey) (*domain.TrendResponse, error)
}

type Service struct {
	observationRepo repository.ObservationRepository
}

func NewService(observationRepo repository.ObservationRepository) TrendingService {
	return &Service{
		observationRepo: observationRepo,
	}
}

// GetTrends returns one monthly series per selected entity, ordered by
// period. Entities with no observations yield no series rather than an
// error.
func (s *Service) GetTrends(level domain.AdminLevel, entities []domain.EntityRef, metricKey domain.MetricKey) (*domain.TrendResponse, error) {
	if len(entities) == 0 {
		return nil, ErrNoEntitiesSelected
	}
	if len(entities) > maxTrendEntities {
		return nil, ErrTooManyEntities
	}

	metric, ok := domain.LookupMetric(level, metricKey)
	if !ok {
		return nil, ErrUnknownMetric
	}

	observations, err := s.observationRepo.GetSeries(level, entities)
	if err != nil {
		return nil, err
	}

	// Group rows per entity while preserving the caller's selection order.
	seriesByEntity := make(map[string]*domain.TrendSeries, len(entities))
	ordered := make([]*domain.TrendSeries, 0, len(entities))

	for _, obs := range observations {
		key := obs.EntityKey()
		series, exists := seriesByEntity[key]
		if !exists {
			series = &domain.TrendSeries{
				Entity:   obs.Entity,
				District: obs.District,
				Display:  obs.DisplayName(),
			}
			if level == domain.AdminLevelDistricts {
				series.District = ""
				series.Display = obs.Entity
			}
			seriesByEntity[key] = series
		}

		period := domain.Period{Year: obs.Year, Month: obs.Month}
		series.Points = append(series.Points, domain.TrendPoint{
			Year:  obs.Year,
			Month: obs.Month,
			Label: period.Label(),
			Value: obs.Value(metric.Key),
		})
	}

	for _, ref := range entities {
		if series, exists := seriesByEntity[ref.Key()]; exists {
			ordered = append(ordered, series)
		}
	}

	response := &domain.TrendResponse{
		Level:  level,
		Metric: metric,
		Series: make([]domain.TrendSeries, 0, len(ordered)),
	}
	for _, series := range ordered {
		response.Series = append(response.Series, *series)
	}

	return response, nil
}
