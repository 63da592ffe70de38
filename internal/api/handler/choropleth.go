package handler

import (
	"net/http"

	"github.com/eulademuhizi/malaria-dashboard-api/internal/usecases/reporting"
	"github.com/eulademuhizi/malaria-dashboard-api/pkg/apiErrors"
	"github.com/eulademuhizi/malaria-dashboard-api/pkg/log"
)

// GetChoropleth returns boundary geometries joined with the selected metric
// values for a period. Boundaries without data carry a zero value so the map
// still draws every shape.
func GetChoropleth(service reporting.ReportingService) http.Handler {
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

		metric := metricFromRequest(r, level)

		choropleth, err := service.GetChoropleth(level, period, metric)
		if err != nil {
			writeReportingError(w, logger, err, "choropleth")
			return
		}

		logger.WithFields(log.Fields{
			"level":    level,
			"period":   period.Label(),
			"metric":   metric,
			"features": len(choropleth.Features),
		}).Info("choropleth: layer generated")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(choropleth); err != nil {
			logger.WithError(err).Error("choropleth: error encoding response")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error sending response", nil)
		}
	})
}
