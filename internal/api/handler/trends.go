package handler

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/eulademuhizi/malaria-dashboard-api/internal/domain"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/usecases/trending"
	"github.com/eulademuhizi/malaria-dashboard-api/pkg/apiErrors"
	"github.com/eulademuhizi/malaria-dashboard-api/pkg/log"
)

// GetTrends returns the monthly series for the entities selected via the
// repeated entity query parameter. Sector entities may carry their parent
// district as "Sector|District" to disambiguate duplicated names.
func GetTrends(service trending.TrendingService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		level, ok := levelFromRequest(w, r)
		if !ok {
			return
		}

		metric := metricFromRequest(r, level)

		entities := parseEntityRefs(r.URL.Query()["entity"])

		trends, err := service.GetTrends(level, entities, metric)
		if err != nil {
			writeTrendingError(w, logger, err)
			return
		}

		logger.WithFields(log.Fields{
			"level":    level,
			"metric":   metric,
			"entities": len(entities),
			"series":   len(trends.Series),
		}).Info("trends: report generated")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(trends); err != nil {
			logger.WithError(err).Error("trends: error encoding response")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error sending response", nil)
		}
	})
}

func parseEntityRefs(raw []string) []domain.EntityRef {
	refs := make([]domain.EntityRef, 0, len(raw))
	for _, value := range raw {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		ref := domain.EntityRef{Entity: value}
		if name, district, found := strings.Cut(value, "|"); found {
			ref.Entity = strings.TrimSpace(name)
			ref.District = strings.TrimSpace(district)
		}
		refs = append(refs, ref)
	}
	return refs
}

func writeTrendingError(w http.ResponseWriter, logger log.Logger, err error) {
	switch {
	case errors.Is(err, trending.ErrNoEntitiesSelected):
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "At least one entity must be selected", nil)
	case errors.Is(err, trending.ErrTooManyEntities):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Too many entities selected. The maximum is 5", nil)
	case errors.Is(err, trending.ErrUnknownMetric):
		apiErrors.WriteError(w, apiErrors.ErrUnknownMetric, "Unknown metric for this level", nil)
	default:
		logger.WithError(err).Error("trends: error building series")
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Error querying observations", nil)
	}
}
