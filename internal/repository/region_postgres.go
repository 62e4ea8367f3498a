package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/paulirish/covid-data-model/internal/models"

	"go.uber.org/zap"
)

// RegionPostgresRepository population and bed tables stored in Postgres
type RegionPostgresRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRegionPostgresRepository creates a new region repository
func NewRegionPostgresRepository(db *sql.DB, logger *zap.Logger) *RegionPostgresRepository {
	return &RegionPostgresRepository{
		db:     db,
		logger: logger,
	}
}

// Population returns the population of region
func (r *RegionPostgresRepository) Population(ctx context.Context, region models.Region) (int64, error) {
	query := `
		SELECT population
		FROM region_populations
		WHERE province_state = $1
		  AND country_region = $2
		LIMIT 1
	`

	var population int64
	err := r.db.QueryRowContext(ctx, query, region.ProvinceState, region.CountryRegion).Scan(&population)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: no population for %s", ErrRegionNotFound, region)
		}
		return 0, fmt.Errorf("failed to query population: %w", err)
	}
	return population, nil
}

// Beds returns floor(beds per 1000 * population / 1000)
func (r *RegionPostgresRepository) Beds(ctx context.Context, region models.Region) (int64, error) {
	query := `
		SELECT beds_per_1000
		FROM region_beds
		WHERE province_state = $1
		  AND country_region = $2
		LIMIT 1
	`

	var rate float64
	err := r.db.QueryRowContext(ctx, query, region.ProvinceState, region.CountryRegion).Scan(&rate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: no beds rate for %s", ErrRegionNotFound, region)
		}
		return 0, fmt.Errorf("failed to query beds rate: %w", err)
	}

	pop, err := r.Population(ctx, region)
	if err != nil {
		return 0, err
	}

	r.logger.Debug("Resolved beds from postgres",
		zap.String("region", region.String()),
		zap.Float64("beds_per_1000", rate),
		zap.Int64("population", pop),
	)
	return bedsFromRate(rate, pop), nil
}
