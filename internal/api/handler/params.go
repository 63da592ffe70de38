package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/eulademuhizi/malaria-dashboard-api/internal/domain"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/usecases/reporting"
	"github.com/eulademuhizi/malaria-dashboard-api/pkg/apiErrors"
)

// levelFromRequest resolves the :level path parameter. On failure it writes
// the error response and returns false.
func levelFromRequest(w http.ResponseWriter, r *http.Request) (domain.AdminLevel, bool) {
	raw := httprouter.ParamsFromContext(r.Context()).ByName("level")

	level, err := domain.ParseAdminLevel(raw)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrUnknownAdminLevel, "Unknown administrative level. Accepted values: districts, sectors", nil)
		return "", false
	}

	return level, true
}

// periodFromRequest reads the year and month query parameters. When both are
// absent the most recent period with data is used.
func periodFromRequest(w http.ResponseWriter, r *http.Request, service reporting.ReportingService, level domain.AdminLevel) (domain.Period, bool) {
	yearStr := r.URL.Query().Get("year")
	monthStr := r.URL.Query().Get("month")

	if yearStr == "" && monthStr == "" {
		available, err := service.GetAvailablePeriods(level)
		if err != nil || len(available.Periods) == 0 {
			apiErrors.WriteError(w, apiErrors.ErrNoDataForSelection, "No periods available for this level", nil)
			return domain.Period{}, false
		}
		// Periods are ordered newest first.
		return available.Periods[0], true
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid year. Use a four digit year (e.g. 2025)", nil)
		return domain.Period{}, false
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid month. Use a number between 1 and 12", nil)
		return domain.Period{}, false
	}

	return domain.Period{Year: year, Month: month}, true
}

// metricFromRequest reads the optional metric query parameter, falling back
// to the level's default metric.
func metricFromRequest(r *http.Request, level domain.AdminLevel) domain.MetricKey {
	raw := r.URL.Query().Get("metric")
	if raw == "" {
		return domain.DefaultMetric(level).Key
	}
	return domain.MetricKey(raw)
}
