package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/eulademuhizi/malaria-dashboard-api/infrastructure/repository/mocks"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/config"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/domain"
)

func writeDistrictFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "districts.csv")
	content := "District,Year,Month,All Cases,Severe cases/Deaths,All Cases Incidence,Population\n" +
		"Gasabo,2025,7,1200,14,35.5,530000\n" +
		"Kicukiro,2025,7,800,6,21.2,420000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDatasetSyncService_syncObservations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockObservationRepo := mocks.NewMockObservationRepository(ctrl)
	mockBoundaryRepo := mocks.NewMockBoundaryRepository(ctrl)

	path := writeDistrictFixture(t)

	flushed := false
	service := NewDatasetSyncService(
		mockObservationRepo,
		mockBoundaryRepo,
		func() { flushed = true },
		&config.Config{
			Datasets: config.Datasets{DistrictsFile: path},
		},
	)

	mockObservationRepo.EXPECT().
		ReplaceAll(gomock.Any(), domain.AdminLevelDistricts, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, _ domain.AdminLevel, observations []domain.Observation, load *domain.DatasetLoad) error {
			assert.Len(t, observations, 2)
			assert.Equal(t, "Gasabo", observations[0].Entity)
			assert.Equal(t, float64(1200), observations[0].Value(domain.MetricAllCases))

			assert.NotEmpty(t, load.ID)
			assert.Equal(t, domain.AdminLevelDistricts, load.Level)
			assert.Equal(t, path, load.SourceFile)
			assert.Equal(t, 2, load.RecordCount)
			return nil
		})

	service.runSync("districts", func(ctx context.Context) {
		service.syncObservations(ctx, domain.AdminLevelDistricts, path)
	})

	assert.True(t, flushed, "a successful sync must flush the report cache")
	assert.False(t, service.lastSyncCompletedAt.IsZero())

	status := service.GetStatus()
	assert.Equal(t, false, status["sync_running"])

	loads, ok := status["last_loads"].(map[string]*domain.DatasetLoad)
	require.True(t, ok)
	assert.Contains(t, loads, string(domain.AdminLevelDistricts))
}

func TestDatasetSyncService_syncObservations_missingFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockObservationRepo := mocks.NewMockObservationRepository(ctrl)
	mockBoundaryRepo := mocks.NewMockBoundaryRepository(ctrl)

	service := NewDatasetSyncService(
		mockObservationRepo,
		mockBoundaryRepo,
		nil,
		&config.Config{
			Datasets: config.Datasets{DistrictsFile: "does-not-exist.csv"},
		},
	)

	// No ReplaceAll expected: a broken source file keeps the current data.
	service.runSync("districts", func(ctx context.Context) {
		service.syncObservations(ctx, domain.AdminLevelDistricts, service.datasets.DistrictsFile)
	})

	assert.False(t, service.lastSyncCompletedAt.IsZero())
}

func TestDatasetSyncService_statusDuringSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockObservationRepo := mocks.NewMockObservationRepository(ctrl)
	mockBoundaryRepo := mocks.NewMockBoundaryRepository(ctrl)

	path := writeDistrictFixture(t)

	service := NewDatasetSyncService(
		mockObservationRepo,
		mockBoundaryRepo,
		nil,
		&config.Config{
			Datasets: config.Datasets{DistrictsFile: path},
		},
	)

	mockObservationRepo.EXPECT().
		ReplaceAll(gomock.Any(), domain.AdminLevelDistricts, gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	// Polling the status while syncs write timestamps and load records must
	// be safe, and the returned loads map must be detached from the live one.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			service.runSync("districts", func(ctx context.Context) {
				service.syncObservations(ctx, domain.AdminLevelDistricts, path)
			})
		}
	}()

	for {
		status := service.GetStatus()
		if loads, ok := status["last_loads"].(map[string]*domain.DatasetLoad); ok {
			loads["scratch"] = &domain.DatasetLoad{}
		}
		select {
		case <-done:
			status = service.GetStatus()
			loads, ok := status["last_loads"].(map[string]*domain.DatasetLoad)
			require.True(t, ok)
			assert.NotContains(t, loads, "scratch")
			assert.False(t, service.lastSyncCompletedAt.IsZero())
			return
		default:
		}
	}
}

func TestDatasetSyncService_overlappingRuns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockObservationRepo := mocks.NewMockObservationRepository(ctrl)
	mockBoundaryRepo := mocks.NewMockBoundaryRepository(ctrl)

	service := NewDatasetSyncService(
		mockObservationRepo,
		mockBoundaryRepo,
		nil,
		&config.Config{},
	)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		service.runSync("all", func(ctx context.Context) {
			close(started)
			<-release
		})
		close(done)
	}()

	<-started

	// A second run while the first is in flight must be skipped.
	skippedCompletedAt := service.lastSyncCompletedAt
	service.runSync("all", func(ctx context.Context) {
		t.Error("overlapping sync must not run")
	})
	assert.Equal(t, skippedCompletedAt, service.lastSyncCompletedAt)

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sync did not finish")
	}
}
