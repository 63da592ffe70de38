package handler

import (
	"net/http"

	"github.com/eulademuhizi/malaria-dashboard-api/internal/usecases/reporting"
	"github.com/eulademuhizi/malaria-dashboard-api/pkg/apiErrors"
	"github.com/eulademuhizi/malaria-dashboard-api/pkg/log"
)

// GetAvailablePeriods returns the year/month combinations with data for a
// level, so clients can populate their period selectors.
func GetAvailablePeriods(service reporting.ReportingService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		level, ok := levelFromRequest(w, r)
		if !ok {
			return
		}

		availablePeriods, err := service.GetAvailablePeriods(level)
		if err != nil {
			logger.WithError(err).Error("periods: error listing available periods")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Error listing available periods", nil)
			return
		}

		logger.WithFields(log.Fields{
			"level":         level,
			"total_periods": len(availablePeriods.Periods),
		}).Info("periods: available periods retrieved")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(availablePeriods); err != nil {
			logger.WithError(err).Error("periods: error encoding response")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error sending response", nil)
		}
	})
}

// GetMetrics returns the metric catalog for a level.
func GetMetrics(service reporting.ReportingService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		level, ok := levelFromRequest(w, r)
		if !ok {
			return
		}

		metrics := service.GetMetrics(level)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(metrics); err != nil {
			logger.WithError(err).Error("metrics: error encoding response")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error sending response", nil)
		}
	})
}

// ListEntities returns the entities known at a level, for trend selection.
func ListEntities(service reporting.ReportingService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		level, ok := levelFromRequest(w, r)
		if !ok {
			return
		}

		entities, err := service.ListEntities(level)
		if err != nil {
			logger.WithError(err).Error("entities: error listing entities")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Error listing entities", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entities); err != nil {
			logger.WithError(err).Error("entities: error encoding response")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error sending response", nil)
		}
	})
}
