package handler

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/eulademuhizi/malaria-dashboard-api/internal/usecases/reporting"
	"github.com/eulademuhizi/malaria-dashboard-api/pkg/apiErrors"
	"github.com/eulademuhizi/malaria-dashboard-api/pkg/log"
)

// GetOverview returns the summary cards and top movers for a level, period
// and metric.
func GetOverview(service reporting.ReportingService) http.Handler {
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

		overview, err := service.GetOverview(level, period, metric)
		if err != nil {
			writeReportingError(w, logger, err, "overview")
			return
		}

		logger.WithFields(log.Fields{
			"level":  level,
			"period": period.Label(),
			"metric": metric,
		}).Info("overview: report generated")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(overview); err != nil {
			logger.WithError(err).Error("overview: error encoding response")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error sending response", nil)
		}
	})
}

// writeReportingError maps reporting errors onto API error codes.
func writeReportingError(w http.ResponseWriter, logger log.Logger, err error, op string) {
	switch {
	case errors.Is(err, reporting.ErrUnknownMetric):
		apiErrors.WriteError(w, apiErrors.ErrUnknownMetric, "Unknown metric for this level", nil)
	case errors.Is(err, reporting.ErrNoDataForSelection):
		apiErrors.WriteError(w, apiErrors.ErrNoDataForSelection, "No data for the selected period", nil)
	default:
		logger.WithError(err).Errorf("%s: error building report", op)
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Error querying observations", nil)
	}
}
