package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eulademuhizi/malaria-dashboard-api/infrastructure/database/postgres"
	"github.com/eulademuhizi/malaria-dashboard-api/infrastructure/repository"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/api"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/config"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/scheduler"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/usecases/authenticating"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/usecases/reporting"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/usecases/trending"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid log level: %s, using 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Log level set to: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	observationRepo := repository.NewObservationRepository(pgConn)
	boundaryRepo := repository.NewBoundaryRepository(pgConn)
	userRepo := repository.NewUserRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)

	reportingService := reporting.NewService(
		observationRepo,
		boundaryRepo,
		time.Duration(cfg.Cache.TTLMinutes)*time.Minute,
		time.Duration(cfg.Cache.CleanupMinutes)*time.Minute,
	)

	trendingService := trending.NewService(observationRepo)

	datasetSyncService := scheduler.NewDatasetSyncService(
		observationRepo,
		boundaryRepo,
		reportingService.FlushCache,
		cfg,
	)

	if err := datasetSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Error starting the dataset sync scheduler")
	} else {
		logrus.Info("Dataset sync scheduler started")
	}

	server, err := api.New(
		cfg,
		reportingService,
		trendingService,
		authenticator,
		datasetSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger sets the log format and working directory.
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn opens and verifies the database connection.
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Error connecting to PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Error pinging PostgreSQL")
	}

	logrus.Info("PostgreSQL connection established")
	return conn
}
