package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App         App         `mapstructure:",squash"`
	Server      Server      `mapstructure:",squash"`
	Database    Database    `mapstructure:",squash"`
	Datasets    Datasets    `mapstructure:",squash"`
	DatasetSync DatasetSync `mapstructure:",squash"`
	Cache       Cache       `mapstructure:",squash"`
	SecretKey   string      `mapstructure:"secret_key"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

// Datasets points at the source files ingested into the observation tables.
type Datasets struct {
	DistrictsFile          string `mapstructure:"datasets_districts_file"`
	SectorsFile            string `mapstructure:"datasets_sectors_file"`
	DistrictBoundariesFile string `mapstructure:"datasets_district_boundaries_file"`
	SectorBoundariesFile   string `mapstructure:"datasets_sector_boundaries_file"`
}

type DatasetSync struct {
	CronSchedule string `mapstructure:"dataset_sync_cron"`
	Enabled      bool   `mapstructure:"dataset_sync_enabled"`
}

type Cache struct {
	TTLMinutes     int `mapstructure:"cache_ttl_minutes"`
	CleanupMinutes int `mapstructure:"cache_cleanup_minutes"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/malaria?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("SECRET_KEY", "your_secret_key")

	viper.SetDefault("DATASETS_DISTRICTS_FILE", "data/districts.csv")
	viper.SetDefault("DATASETS_SECTORS_FILE", "data/sectors.csv")
	viper.SetDefault("DATASETS_DISTRICT_BOUNDARIES_FILE", "data/district_boundaries.geojson")
	viper.SetDefault("DATASETS_SECTOR_BOUNDARIES_FILE", "data/sector_boundaries.geojson")

	// Dataset refresh defaults: daily at 2am, disabled until the files are
	// mounted.
	viper.SetDefault("DATASET_SYNC_CRON", "0 2 * * *")
	viper.SetDefault("DATASET_SYNC_ENABLED", false)

	viper.SetDefault("CACHE_TTL_MINUTES", 30)
	viper.SetDefault("CACHE_CLEANUP_MINUTES", 60)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("no .env readable by viper, relying on environment: ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("could not determine working directory: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("loaded .env from ", location)
			return
		}
	}
}
