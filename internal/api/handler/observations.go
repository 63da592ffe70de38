package handler

import (
	"net/http"

	"github.com/eulademuhizi/malaria-dashboard-api/internal/usecases/reporting"
	"github.com/eulademuhizi/malaria-dashboard-api/pkg/apiErrors"
	"github.com/eulademuhizi/malaria-dashboard-api/pkg/log"
)

// GetObservations returns the raw tabular rows for a level and period.
func GetObservations(service reporting.ReportingService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		level, ok := levelFromRequest(w, r)
		if !ok {
			return
		}

		period, ok := periodFromRequest(w, r, service, level)
		if !ok {
			return
		}

		observations, err := service.GetObservations(level, period)
		if err != nil {
			writeReportingError(w, logger, err, "observations")
			return
		}

		logger.WithFields(log.Fields{
			"level":  level,
			"period": period.Label(),
			"rows":   len(observations),
		}).Info("observations: rows retrieved")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(observations); err != nil {
			logger.WithError(err).Error("observations: error encoding response")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error sending response", nil)
		}
	})
}
