package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/paulirish/covid-data-model/internal/config"
	"github.com/paulirish/covid-data-model/internal/forecast"
	"github.com/paulirish/covid-data-model/internal/models"
	"github.com/paulirish/covid-data-model/internal/report"
	"github.com/paulirish/covid-data-model/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	california = models.Region{ProvinceState: "California", CountryRegion: "US"}
	today      = time.Date(2020, 3, 21, 0, 0, 0, 0, time.UTC)
	fixedNow   = time.Date(2020, 3, 24, 9, 15, 0, 0, time.UTC)
)

type mockEmitter struct {
	mock.Mock
}

func (m *mockEmitter) Emit(ctx context.Context, fc *models.Forecast) error {
	args := m.Called(ctx, fc)
	return args.Error(0)
}

// writeDataDir lays out region tables and one daily report under a temp dir
func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"populations.csv": "Province/State,Country/Region,Population\nCalifornia,US,1000000\n",
		"beds.csv":        "Province/State,Country/Region,Beds Per 1000\nCalifornia,US,1.8\n",
		repository.SnapshotFileName(time.Date(2020, 3, 9, 0, 0, 0, 0, time.UTC)): "Province/State,Country/Region,Confirmed,Deaths,Recovered\nCalifornia,US,100,1,0\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := writeDataDir(t)

	cfg := &config.Config{}
	cfg.Model.R0Initial = 2.8
	cfg.Model.HospitalizationRate = 0.05
	cfg.Model.CaseFatalityRate = 0.015
	cfg.Model.CaseFatalityRateOverwhelmed = 0.015
	cfg.Model.HospitalCapacityGrowth = 1.05
	cfg.Model.InitialBedUtilization = 0.5
	cfg.Model.IntervalDays = 4
	cfg.Model.RollingIntervals = 3

	cfg.Forecast.DataLagDays = 3

	cfg.Data.Dir = dir
	cfg.Data.RegionSource = config.RegionSourceCSV
	cfg.Data.PopulationsFile = "populations.csv"
	cfg.Data.BedsFile = "beds.csv"

	cfg.Snapshot.Source = config.SnapshotSourceDir
	cfg.Snapshot.Dir = dir

	cfg.Report.OutputPath = filepath.Join(t.TempDir(), "results.csv")
	cfg.Report.Redis.Stream = "forecast:results"
	cfg.Report.MQTT.TopicPrefix = "forecast"
	return cfg
}

func newTestService(t *testing.T, cfg *config.Config) *ForecastService {
	t.Helper()
	svc, err := NewForecastService(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestForecastService_RunWritesCSV(t *testing.T) {
	cfg := testConfig(t)
	svc := newTestService(t, cfg)

	fc, err := svc.Run(context.Background(), california, 6, today)
	require.NoError(t, err)

	_, err = uuid.Parse(fc.RunID)
	assert.NoError(t, err)
	assert.Equal(t, fixedNow, fc.GeneratedAt)
	assert.Equal(t, today, fc.Today)
	assert.Equal(t, int64(1000000), fc.Region.Population)
	assert.Equal(t, int64(1800), fc.Region.Beds)
	require.Len(t, fc.Rows, 6)

	data, err := os.ReadFile(cfg.Report.OutputPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, strings.Join(models.ForecastColumns, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], ",2020-03-09,2.8,1000000,2000,0,0,998000,100,"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], ",2020-03-13,"), lines[2])
}

func TestForecastService_RunPublishesToStream(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Redis.Addr = mr.Addr()
	cfg.Report.Redis.Enabled = true
	svc := newTestService(t, cfg)

	fc, err := svc.Run(context.Background(), california, 3, today)
	require.NoError(t, err)

	entries, err := svc.redisClient.XRange(context.Background(), "forecast:results", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Values["data"], fc.RunID)
}

func TestNewForecastService_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.Redis.Addr = addr
	cfg.Report.Redis.Enabled = true

	_, err := NewForecastService(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestNewForecastService_MissingRegionTables(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.Dir = t.TempDir()

	_, err := NewForecastService(cfg, zap.NewNop())
	require.Error(t, err)
}

func TestNewForecastService_InvalidParams(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.IntervalDays = 0

	_, err := NewForecastService(cfg, zap.NewNop())
	assert.ErrorIs(t, err, forecast.ErrInvalidParams)
}

func TestNewForecastService_ExcelOutput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Report.OutputPath = filepath.Join(t.TempDir(), "results.xlsx")
	svc := newTestService(t, cfg)

	require.Len(t, svc.emitters, 1)
	assert.IsType(t, &report.ExcelEmitter{}, svc.emitters[0])
}

func TestForecastService_EmitterFailureStopsRun(t *testing.T) {
	svc := newTestService(t, testConfig(t))

	failing := new(mockEmitter)
	failing.On("Emit", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	skipped := new(mockEmitter)
	svc.emitters = []report.Emitter{failing, skipped}

	_, err := svc.Run(context.Background(), california, 3, today)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	failing.AssertExpectations(t)
	skipped.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
}

func TestForecastService_UnknownRegion(t *testing.T) {
	svc := newTestService(t, testConfig(t))

	emitter := new(mockEmitter)
	svc.emitters = []report.Emitter{emitter}

	_, err := svc.Run(context.Background(), models.Region{CountryRegion: "Atlantis"}, 3, today)
	assert.ErrorIs(t, err, repository.ErrRegionNotFound)
	assert.Contains(t, err.Error(), "Atlantis")
	emitter.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
}

func TestForecastService_EmittersReceiveForecast(t *testing.T) {
	svc := newTestService(t, testConfig(t))

	emitter := new(mockEmitter)
	emitter.On("Emit", mock.Anything, mock.MatchedBy(func(fc *models.Forecast) bool {
		return fc.RunID != "" && len(fc.Rows) == 4 && fc.Region.Region == california
	})).Return(nil).Once()
	svc.emitters = []report.Emitter{emitter}

	_, err := svc.Run(context.Background(), california, 4, today)
	require.NoError(t, err)
	emitter.AssertExpectations(t)
}

func TestForecastService_Today(t *testing.T) {
	svc := newTestService(t, testConfig(t))

	got, err := svc.Today("")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 3, 21, 0, 0, 0, 0, time.UTC), got)

	got, err = svc.Today("2020-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 3, 10, 0, 0, 0, 0, time.UTC), got)
}

func TestResolveToday_Invalid(t *testing.T) {
	_, err := ResolveToday("03/10/2020", 3, fixedNow)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParamsFromConfig(t *testing.T) {
	cfg := testConfig(t)
	assert.Equal(t, forecast.DefaultParams(), ParamsFromConfig(cfg))

	cfg.Model.R0Initial = 3.5
	cfg.Model.RollingIntervals = 5
	p := ParamsFromConfig(cfg)
	assert.Equal(t, 3.5, p.R0Initial)
	assert.Equal(t, 5, p.RollingIntervals)
}
