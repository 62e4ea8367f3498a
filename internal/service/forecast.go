package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/paulirish/covid-data-model/internal/config"
	"github.com/paulirish/covid-data-model/internal/database"
	"github.com/paulirish/covid-data-model/internal/forecast"
	"github.com/paulirish/covid-data-model/internal/models"
	"github.com/paulirish/covid-data-model/internal/mqtt"
	rediscommon "github.com/paulirish/covid-data-model/internal/redis"
	"github.com/paulirish/covid-data-model/internal/report"
	"github.com/paulirish/covid-data-model/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidDate today override is not a YYYY-MM-DD date
var ErrInvalidDate = errors.New("invalid date")

const dateLayout = "2006-01-02"

// ForecastService runs the engine for a region and hands the result to every emitter
type ForecastService struct {
	config      *config.Config
	logger      *zap.Logger
	db          *sql.DB
	redisClient *rediscommon.Client
	mqttClient  *mqtt.Client
	engine      *forecast.Engine
	emitters    []report.Emitter
	now         func() time.Time
}

// NewForecastService wires providers and emitters from cfg
func NewForecastService(cfg *config.Config, logger *zap.Logger) (*ForecastService, error) {
	svc := &ForecastService{
		config: cfg,
		logger: logger,
		now:    time.Now,
	}

	regions, err := svc.regionProvider()
	if err != nil {
		svc.Close()
		return nil, err
	}

	engine, err := forecast.NewEngine(ParamsFromConfig(cfg), regions, svc.snapshotProvider(), logger)
	if err != nil {
		svc.Close()
		return nil, err
	}
	svc.engine = engine

	params := engine.Params()
	logger.Info("Forecast engine ready",
		zap.Float64("r0_initial", params.R0Initial),
		zap.Float64("hospitalization_rate", params.HospitalizationRate),
		zap.Int("interval_days", params.IntervalDays),
		zap.Int("rolling_intervals", params.RollingIntervals),
		zap.String("region_source", cfg.Data.RegionSource),
		zap.String("snapshot_source", cfg.Snapshot.Source),
	)

	svc.emitters = append(svc.emitters, report.NewFileEmitter(cfg.Report.OutputPath, logger))

	if cfg.Report.Redis.Enabled {
		svc.redisClient = rediscommon.NewRedisClient(&cfg.Redis)
		if err := rediscommon.Ping(context.Background(), svc.redisClient); err != nil {
			svc.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		svc.emitters = append(svc.emitters, report.NewStreamEmitter(svc.redisClient, cfg.Report.Redis.Stream, logger))
	}

	if cfg.Report.MQTT.Enabled {
		svc.mqttClient, err = mqtt.NewClient(&cfg.MQTT)
		if err != nil {
			svc.Close()
			return nil, err
		}
		svc.emitters = append(svc.emitters, report.NewMQTTEmitter(svc.mqttClient, cfg.Report.MQTT.TopicPrefix, cfg.MQTT.QoS, logger))
	}

	return svc, nil
}

func (s *ForecastService) regionProvider() (forecast.RegionProvider, error) {
	switch s.config.Data.RegionSource {
	case config.RegionSourcePostgres:
		db, err := database.NewPostgresDB(&s.config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.db = db
		return repository.NewRegionPostgresRepository(db, s.logger), nil
	default:
		return repository.NewRegionCSVRepository(
			filepath.Join(s.config.Data.Dir, s.config.Data.PopulationsFile),
			filepath.Join(s.config.Data.Dir, s.config.Data.BedsFile),
			s.logger,
		)
	}
}

func (s *ForecastService) snapshotProvider() forecast.SnapshotProvider {
	if s.config.Snapshot.Source == config.SnapshotSourceHTTP {
		timeout := time.Duration(s.config.Snapshot.TimeoutSeconds) * time.Second
		return repository.NewSnapshotHTTPRepository(s.config.Snapshot.BaseURL, timeout, s.logger)
	}
	return repository.NewSnapshotDirRepository(s.config.Snapshot.Dir, s.logger)
}

// Run forecasts region and emits the result. Emitters run in order and the
// first failure aborts the rest.
func (s *ForecastService) Run(ctx context.Context, region models.Region, iterations int, today time.Time) (*models.Forecast, error) {
	runID := uuid.NewString()
	s.logger.Info("Starting forecast",
		zap.String("run_id", runID),
		zap.String("region", region.String()),
		zap.Int("iterations", iterations),
		zap.String("today", today.Format(dateLayout)),
	)

	fc, err := s.engine.Run(ctx, region, iterations, today)
	if err != nil {
		return nil, err
	}
	fc.RunID = runID
	fc.GeneratedAt = s.now().UTC()

	for _, emitter := range s.emitters {
		if err := emitter.Emit(ctx, fc); err != nil {
			return nil, fmt.Errorf("failed to emit forecast: %w", err)
		}
	}

	s.logger.Info("Forecast complete",
		zap.String("run_id", runID),
		zap.String("region", region.String()),
		zap.Int64("population", fc.Region.Population),
		zap.Int64("beds", fc.Region.Beds),
		zap.Int("rows", len(fc.Rows)),
		zap.Int("emitters", len(s.emitters)),
	)
	return fc, nil
}

// Today resolves the snapshot cut-off: the override when set, otherwise now
// minus the configured data lag
func (s *ForecastService) Today(override string) (time.Time, error) {
	return ResolveToday(override, s.config.Forecast.DataLagDays, s.now())
}

// Close releases every connection the service opened
func (s *ForecastService) Close() error {
	if s.mqttClient != nil {
		s.mqttClient.Disconnect()
	}
	if s.redisClient != nil {
		if err := rediscommon.Close(s.redisClient); err != nil {
			s.logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	return database.Close(s.db)
}

// ParamsFromConfig copies the model block into engine parameters
func ParamsFromConfig(cfg *config.Config) forecast.Params {
	return forecast.Params{
		R0Initial:                   cfg.Model.R0Initial,
		HospitalizationRate:         cfg.Model.HospitalizationRate,
		CaseFatalityRate:            cfg.Model.CaseFatalityRate,
		CaseFatalityRateOverwhelmed: cfg.Model.CaseFatalityRateOverwhelmed,
		HospitalCapacityGrowth:      cfg.Model.HospitalCapacityGrowth,
		InitialBedUtilization:       cfg.Model.InitialBedUtilization,
		IntervalDays:                cfg.Model.IntervalDays,
		RollingIntervals:            cfg.Model.RollingIntervals,
	}
}

// ResolveToday parses a YYYY-MM-DD override, or steps back lagDays from now
func ResolveToday(override string, lagDays int, now time.Time) (time.Time, error) {
	if override != "" {
		t, err := time.Parse(dateLayout, override)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, override)
		}
		return t, nil
	}
	return forecast.StartOfDay(now.AddDate(0, 0, -lagDays)), nil
}
