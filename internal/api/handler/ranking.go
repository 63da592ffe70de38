package handler

import (
	"net/http"
	"strconv"

	"github.com/eulademuhizi/malaria-dashboard-api/internal/usecases/reporting"
	"github.com/eulademuhizi/malaria-dashboard-api/pkg/apiErrors"
	"github.com/eulademuhizi/malaria-dashboard-api/pkg/log"
)

// GetRanking returns entities ordered by a metric for a period. The optional
// limit query parameter caps the list size.
func GetRanking(service reporting.ReportingService) http.Handler {
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

		limit := 0
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil || parsed < 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid limit. Use a non-negative number", nil)
				return
			}
			limit = parsed
		}

		ranking, err := service.GetRanking(level, period, metric, limit)
		if err != nil {
			writeReportingError(w, logger, err, "ranking")
			return
		}

		logger.WithFields(log.Fields{
			"level":   level,
			"period":  period.Label(),
			"metric":  metric,
			"entries": len(ranking.Items),
		}).Info("ranking: report generated")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ranking); err != nil {
			logger.WithError(err).Error("ranking: error encoding response")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error sending response", nil)
		}
	})
}
