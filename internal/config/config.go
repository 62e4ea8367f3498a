package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// ErrInvalidConfig is returned when an environment value cannot be parsed
var ErrInvalidConfig = errors.New("invalid config")

// Region sources
const (
	RegionSourceCSV      = "csv"
	RegionSourcePostgres = "postgres"
)

// Snapshot sources
const (
	SnapshotSourceDir  = "dir"
	SnapshotSourceHTTP = "http"
)

// Config forecaster configuration
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	MQTT     MQTTConfig

	// Model assumptions, fixed for the lifetime of the process
	Model struct {
		R0Initial                   float64
		HospitalizationRate         float64
		CaseFatalityRate            float64
		CaseFatalityRateOverwhelmed float64
		HospitalCapacityGrowth      float64 // multiplier applied to available beds every step
		InitialBedUtilization       float64
		IntervalDays                int
		RollingIntervals            int // steps an infection stays active
	}

	Forecast struct {
		ProvinceState string
		CountryRegion string
		Iterations    int
		Today         string // YYYY-MM-DD, empty = now minus DataLagDays
		DataLagDays   int
	}

	Data struct {
		Dir             string
		RegionSource    string // "csv" or "postgres"
		PopulationsFile string
		BedsFile        string
	}

	Snapshot struct {
		Source         string // "dir" or "http"
		Dir            string
		BaseURL        string
		TimeoutSeconds int
	}

	Report struct {
		OutputPath string

		Redis struct {
			Enabled bool
			Stream  string
		}

		MQTT struct {
			Enabled     bool
			TopicPrefix string
		}
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.User = "postgres"
	cfg.Database.Password = "postgres"
	cfg.Database.Database = "covid"
	cfg.Database.SSLMode = "disable"
	cfg.Database.LoadFromEnv("DB")

	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = "covid-forecast"
	cfg.MQTT.QoS = 1
	cfg.MQTT.LoadFromEnv("MQTT")

	if cfg.Model.R0Initial, err = getEnvFloat("MODEL_R0_INITIAL", 2.8); err != nil {
		return nil, err
	}
	if cfg.Model.HospitalizationRate, err = getEnvFloat("MODEL_HOSPITALIZATION_RATE", 0.05); err != nil {
		return nil, err
	}
	if cfg.Model.CaseFatalityRate, err = getEnvFloat("MODEL_CASE_FATALITY_RATE", 0.015); err != nil {
		return nil, err
	}
	if cfg.Model.CaseFatalityRateOverwhelmed, err = getEnvFloat("MODEL_CASE_FATALITY_RATE_OVERWHELMED", 0.015); err != nil {
		return nil, err
	}
	if cfg.Model.HospitalCapacityGrowth, err = getEnvFloat("MODEL_HOSPITAL_CAPACITY_GROWTH", 1.05); err != nil {
		return nil, err
	}
	if cfg.Model.InitialBedUtilization, err = getEnvFloat("MODEL_INITIAL_BED_UTILIZATION", 0.5); err != nil {
		return nil, err
	}
	if cfg.Model.IntervalDays, err = getEnvInt("MODEL_INTERVAL_DAYS", 4); err != nil {
		return nil, err
	}
	if cfg.Model.RollingIntervals, err = getEnvInt("MODEL_ROLLING_INTERVALS", 3); err != nil {
		return nil, err
	}

	cfg.Forecast.ProvinceState = getEnv("FORECAST_PROVINCE_STATE", "California")
	cfg.Forecast.CountryRegion = getEnv("FORECAST_COUNTRY_REGION", "US")
	if cfg.Forecast.Iterations, err = getEnvInt("FORECAST_ITERATIONS", 50); err != nil {
		return nil, err
	}
	cfg.Forecast.Today = getEnv("FORECAST_TODAY", "")
	// daily reports are published with a delay
	if cfg.Forecast.DataLagDays, err = getEnvInt("FORECAST_DATA_LAG_DAYS", 3); err != nil {
		return nil, err
	}

	cfg.Data.Dir = getEnv("DATA_DIR", "data")
	cfg.Data.RegionSource = getEnv("REGION_SOURCE", RegionSourceCSV)
	cfg.Data.PopulationsFile = getEnv("POPULATIONS_FILE", "populations.csv")
	cfg.Data.BedsFile = getEnv("BEDS_FILE", "beds.csv")

	cfg.Snapshot.Source = getEnv("SNAPSHOT_SOURCE", SnapshotSourceDir)
	cfg.Snapshot.Dir = getEnv("SNAPSHOT_DIR", cfg.Data.Dir)
	cfg.Snapshot.BaseURL = getEnv("SNAPSHOT_BASE_URL", "")
	if cfg.Snapshot.TimeoutSeconds, err = getEnvInt("SNAPSHOT_TIMEOUT_SECONDS", 30); err != nil {
		return nil, err
	}

	cfg.Report.OutputPath = getEnv("REPORT_OUTPUT_PATH", "results.csv")
	cfg.Report.Redis.Enabled = getEnv("REPORT_REDIS_ENABLED", "false") == "true"
	cfg.Report.Redis.Stream = getEnv("REPORT_REDIS_STREAM", "forecast:results")
	cfg.Report.MQTT.Enabled = getEnv("REPORT_MQTT_ENABLED", "false") == "true"
	cfg.Report.MQTT.TopicPrefix = getEnv("REPORT_MQTT_TOPIC_PREFIX", "forecast")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	if err := cfg.validateSources(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validateSources() error {
	switch c.Data.RegionSource {
	case RegionSourceCSV, RegionSourcePostgres:
	default:
		return fmt.Errorf("%w: unsupported REGION_SOURCE %q", ErrInvalidConfig, c.Data.RegionSource)
	}
	switch c.Snapshot.Source {
	case SnapshotSourceDir:
	case SnapshotSourceHTTP:
		if c.Snapshot.BaseURL == "" {
			return fmt.Errorf("%w: SNAPSHOT_BASE_URL is required when SNAPSHOT_SOURCE=http", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unsupported SNAPSHOT_SOURCE %q", ErrInvalidConfig, c.Snapshot.Source)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, raw)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, raw)
	}
	return v, nil
}
