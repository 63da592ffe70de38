package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/eulademuhizi/malaria-dashboard-api/internal/domain"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/scheduler"
	"github.com/eulademuhizi/malaria-dashboard-api/pkg/apiErrors"
	"github.com/eulademuhizi/malaria-dashboard-api/pkg/middleware"
)

// Cron job types accepted by the manual run endpoint.
const (
	CronJobTypeDistricts  = "districts"
	CronJobTypeSectors    = "sectors"
	CronJobTypeBoundaries = "boundaries"
	CronJobTypeAll        = "all"
)

// CronJobServices holds the sync services exposed for manual runs.
type CronJobServices struct {
	DatasetSyncService *scheduler.DatasetSyncService
}

// RunCronJob manually triggers a dataset ingestion job.
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != middleware.RoleAdmin {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Only administrators can run cron jobs", nil)
			return
		}

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Cron job type not specified", nil)
			return
		}

		if services.DatasetSyncService == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Dataset sync service not available", nil)
			return
		}

		switch cronType {
		case CronJobTypeDistricts:
			services.DatasetSyncService.TriggerDistrictsSync()

		case CronJobTypeSectors:
			services.DatasetSyncService.TriggerSectorsSync()

		case CronJobTypeBoundaries:
			services.DatasetSyncService.TriggerBoundariesSync()

		case CronJobTypeAll:
			services.DatasetSyncService.TriggerFullSync()

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid cron job type. Accepted values: districts, sectors, boundaries, all", nil)
			return
		}

		response := map[string]any{
			"message": "Cron job started",
			"type":    cronType,
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetCronStatus reports the dataset sync scheduler state.
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != middleware.RoleAdmin {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Only administrators can check cron job status", nil)
			return
		}

		status := map[string]any{
			"datasets": services.DatasetSyncService.GetStatus(),
		}

		json.NewEncoder(w).Encode(status)
	}
}
