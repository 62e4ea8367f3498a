package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paulirish/covid-data-model/internal/models"

	"go.uber.org/zap"
)

var (
	// ErrDivisionByZero population is not positive
	ErrDivisionByZero = errors.New("division by zero")
	// ErrInvalidIterations negative iteration count
	ErrInvalidIterations = errors.New("invalid iteration count")
)

const dateLayout = "2006-01-02"

// RegionProvider resolves static region data
type RegionProvider interface {
	Population(ctx context.Context, region models.Region) (int64, error)
	Beds(ctx context.Context, region models.Region) (int64, error)
}

// SnapshotProvider resolves a dated observation. Missing data is an
// all-unknown snapshot, not an error.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, date time.Time, region models.Region) (models.Snapshot, error)
}

// Engine runs the step loop for one region at a time
type Engine struct {
	params    Params
	regions   RegionProvider
	snapshots SnapshotProvider
	logger    *zap.Logger
}

// NewEngine validates params and creates an engine
func NewEngine(params Params, regions RegionProvider, snapshots SnapshotProvider, logger *zap.Logger) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		params:    params,
		regions:   regions,
		snapshots: snapshots,
		logger:    logger,
	}, nil
}

// Params returns the engine's model assumptions
func (e *Engine) Params() Params {
	return e.params
}

// Run resolves the region and simulates iterations steps.
// today is the last date for which snapshots are looked up.
func (e *Engine) Run(ctx context.Context, region models.Region, iterations int, today time.Time) (*models.Forecast, error) {
	profile, err := e.resolveRegion(ctx, region)
	if err != nil {
		return nil, err
	}

	rows, err := e.Simulate(ctx, profile, iterations, today)
	if err != nil {
		return nil, err
	}

	return &models.Forecast{
		Region: profile,
		Today:  StartOfDay(today),
		Rows:   rows,
	}, nil
}

func (e *Engine) resolveRegion(ctx context.Context, region models.Region) (models.RegionProfile, error) {
	pop, err := e.regions.Population(ctx, region)
	if err != nil {
		return models.RegionProfile{}, fmt.Errorf("failed to resolve population for %s: %w", region, err)
	}
	beds, err := e.regions.Beds(ctx, region)
	if err != nil {
		return models.RegionProfile{}, fmt.Errorf("failed to resolve beds for %s: %w", region, err)
	}

	e.logger.Debug("Resolved region",
		zap.String("region", region.String()),
		zap.Int64("beds", beds),
		zap.Int64("population", pop),
	)
	return models.RegionProfile{Region: region, Population: pop, Beds: beds}, nil
}

// Simulate emits exactly iterations rows. Step k is dated
// today - RollingIntervals*IntervalDays + k*IntervalDays; snapshots are only
// requested for dates not after today.
func (e *Engine) Simulate(ctx context.Context, profile models.RegionProfile, iterations int, today time.Time) ([]models.ForecastRow, error) {
	if iterations < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIterations, iterations)
	}
	if profile.Population <= 0 {
		return nil, fmt.Errorf("%w: population of %s is %d", ErrDivisionByZero, profile.Region, profile.Population)
	}

	today = StartOfDay(today)
	start := StartDate(e.params, today)
	state := NewSimulationState(e.params, profile)
	rows := make([]models.ForecastRow, 0, iterations)

	for k := 0; k < iterations; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		date := start.AddDate(0, 0, k*e.params.IntervalDays)
		snap := models.UnknownSnapshot(date)
		if !date.After(today) {
			var err error
			snap, err = e.snapshots.Snapshot(ctx, date, profile.Region)
			if err != nil {
				return nil, fmt.Errorf("failed to load snapshot for %s on %s: %w",
					profile.Region, date.Format(dateLayout), err)
			}
			snap.Date = date
		}

		var row models.ForecastRow
		row, state = Step(e.params, profile.Population, state, snap)

		e.logger.Debug("Forecast step",
			zap.String("date", date.Format(dateLayout)),
			zap.Bool("empirical", snap.Confirmed != nil),
			zap.Float64("eff_r0", row.EffectiveR0),
			zap.Int64("new_infected", row.NewInfected),
			zap.Int64("end_susceptible", row.EndSusceptible),
		)
		rows = append(rows, row)
	}

	return rows, nil
}

// StartDate first step date: the rolling window's worth of intervals before today
func StartDate(p Params, today time.Time) time.Time {
	return StartOfDay(today).AddDate(0, 0, -p.RollingIntervals*p.IntervalDays)
}

// StartOfDay truncates t to midnight UTC of its calendar date
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
