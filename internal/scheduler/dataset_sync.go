package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"

	"github.com/eulademuhizi/malaria-dashboard-api/infrastructure/dataset"
	"github.com/eulademuhizi/malaria-dashboard-api/infrastructure/repository"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/config"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/domain"
)

// DatasetSyncConfig holds the scheduling options for dataset ingestion.
type DatasetSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// DatasetSyncService schedules and runs ingestion of the observation and
// boundary source files into the database.
type DatasetSyncService struct {
	scheduler           *gocron.Scheduler
	config              DatasetSyncConfig
	datasets            config.Datasets
	observationRepo     repository.ObservationRepository
	boundaryRepo        repository.BoundaryRepository
	flushCache          func()
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastLoads           map[string]*domain.DatasetLoad
}

// NewDatasetSyncService creates the ingestion scheduler. flushCache is
// invoked after a successful sync so cached reports are rebuilt from the
// fresh data.
func NewDatasetSyncService(
	observationRepo repository.ObservationRepository,
	boundaryRepo repository.BoundaryRepository,
	flushCache func(),
	appConfig *config.Config,
) *DatasetSyncService {
	syncConfig := DatasetSyncConfig{
		CronSchedule: appConfig.DatasetSync.CronSchedule,
		SyncEnabled:  appConfig.DatasetSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Dataset sync scheduler configuration loaded")

	return &DatasetSyncService{
		scheduler:       scheduler,
		config:          syncConfig,
		datasets:        appConfig.Datasets,
		observationRepo: observationRepo,
		boundaryRepo:    boundaryRepo,
		flushCache:      flushCache,
		syncRunning:     false,
		lastLoads:       make(map[string]*domain.DatasetLoad),
	}
}

// Start begins the scheduler. It is a no-op when sync is disabled.
func (s *DatasetSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Dataset sync disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Starting dataset sync scheduler")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAll()
	})
	if err != nil {
		return fmt.Errorf("scheduling dataset sync: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping dataset sync scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

// syncAll ingests every configured source file.
func (s *DatasetSyncService) syncAll() {
	s.runSync("all", func(ctx context.Context) {
		s.syncObservations(ctx, domain.AdminLevelDistricts, s.datasets.DistrictsFile)
		s.syncObservations(ctx, domain.AdminLevelSectors, s.datasets.SectorsFile)
		s.syncBoundaries(ctx, domain.AdminLevelDistricts, s.datasets.DistrictBoundariesFile)
		s.syncBoundaries(ctx, domain.AdminLevelSectors, s.datasets.SectorBoundariesFile)
	})
}

// runSync guards against overlapping runs and keeps the status timestamps.
func (s *DatasetSyncService) runSync(name string, fn func(ctx context.Context)) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.WithField("sync", name).Info("Dataset sync already in progress, skipping")
		return
	}
	s.syncRunning = true
	startTime := time.Now()
	s.lastSyncStartedAt = startTime
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	logrus.WithField("sync", name).Info("Starting dataset sync")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	fn(ctx)

	if s.flushCache != nil {
		s.flushCache()
	}

	logrus.WithFields(logrus.Fields{
		"sync":     name,
		"duration": time.Since(startTime).String(),
	}).Info("Dataset sync finished")
}

func (s *DatasetSyncService) syncObservations(ctx context.Context, level domain.AdminLevel, path string) {
	if path == "" {
		logrus.WithField("level", level).Warn("No source file configured for level, skipping")
		return
	}

	observations, err := dataset.LoadObservations(level, path)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"level": level,
			"file":  path,
			"error": err.Error(),
		}).Error("Error loading observation file")
		return
	}

	if len(observations) == 0 {
		logrus.WithFields(logrus.Fields{
			"level": level,
			"file":  path,
		}).Warn("Observation file yielded no rows, keeping current data")
		return
	}

	loadID, err := gonanoid.New()
	if err != nil {
		logrus.WithError(err).Error("Error generating dataset load ID")
		return
	}

	load := &domain.DatasetLoad{
		ID:          loadID,
		Level:       level,
		SourceFile:  path,
		RecordCount: len(observations),
	}

	if err := s.observationRepo.ReplaceAll(ctx, level, observations, load); err != nil {
		logrus.WithFields(logrus.Fields{
			"level": level,
			"file":  path,
			"error": err.Error(),
		}).Error("Error storing observations")
		return
	}

	s.syncMutex.Lock()
	s.lastLoads[string(level)] = load
	s.syncMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"level":   level,
		"file":    path,
		"records": len(observations),
		"load_id": loadID,
	}).Info("Observations ingested")
}

func (s *DatasetSyncService) syncBoundaries(ctx context.Context, level domain.AdminLevel, path string) {
	if path == "" {
		logrus.WithField("level", level).Warn("No boundary file configured for level, skipping")
		return
	}

	boundaries, err := dataset.LoadBoundaries(level, path)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"level": level,
			"file":  path,
			"error": err.Error(),
		}).Error("Error loading boundary file")
		return
	}

	if len(boundaries) == 0 {
		logrus.WithFields(logrus.Fields{
			"level": level,
			"file":  path,
		}).Warn("Boundary file yielded no features, keeping current data")
		return
	}

	if err := s.boundaryRepo.ReplaceAll(ctx, level, boundaries); err != nil {
		logrus.WithFields(logrus.Fields{
			"level": level,
			"file":  path,
			"error": err.Error(),
		}).Error("Error storing boundaries")
		return
	}

	logrus.WithFields(logrus.Fields{
		"level":    level,
		"file":     path,
		"features": len(boundaries),
	}).Info("Boundaries ingested")
}

// TriggerDistrictsSync manually ingests the district observation file.
func (s *DatasetSyncService) TriggerDistrictsSync() {
	logrus.Info("Starting manual district dataset sync")
	go s.runSync("districts", func(ctx context.Context) {
		s.syncObservations(ctx, domain.AdminLevelDistricts, s.datasets.DistrictsFile)
	})
}

// TriggerSectorsSync manually ingests the sector observation file.
func (s *DatasetSyncService) TriggerSectorsSync() {
	logrus.Info("Starting manual sector dataset sync")
	go s.runSync("sectors", func(ctx context.Context) {
		s.syncObservations(ctx, domain.AdminLevelSectors, s.datasets.SectorsFile)
	})
}

// TriggerBoundariesSync manually ingests both boundary files.
func (s *DatasetSyncService) TriggerBoundariesSync() {
	logrus.Info("Starting manual boundary sync")
	go s.runSync("boundaries", func(ctx context.Context) {
		s.syncBoundaries(ctx, domain.AdminLevelDistricts, s.datasets.DistrictBoundariesFile)
		s.syncBoundaries(ctx, domain.AdminLevelSectors, s.datasets.SectorBoundariesFile)
	})
}

// TriggerFullSync manually ingests every configured source file.
func (s *DatasetSyncService) TriggerFullSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Dataset sync already in progress, ignoring manual request")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Starting manual full dataset sync")
	go s.syncAll()
}

// GetStatus reports the scheduler state and the latest ingestion batches.
func (s *DatasetSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	// Copy so callers never observe a map a sync goroutine is writing to.
	loads := make(map[string]*domain.DatasetLoad, len(s.lastLoads))
	for level, load := range s.lastLoads {
		loads[level] = load
	}

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_loads":             loads,
	}
}
