package repository

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/paulirish/covid-data-model/internal/models"

	"go.uber.org/zap"
)

// RegionCSVRepository population and bed tables loaded once from CSV
type RegionCSVRepository struct {
	populations map[models.Region]int64
	bedsPer1000 map[models.Region]float64
	logger      *zap.Logger
}

// NewRegionCSVRepository reads populationsPath and bedsPath
func NewRegionCSVRepository(populationsPath, bedsPath string, logger *zap.Logger) (*RegionCSVRepository, error) {
	popFile, err := os.Open(populationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open populations table: %w", err)
	}
	defer popFile.Close()

	bedsFile, err := os.Open(bedsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open beds table: %w", err)
	}
	defer bedsFile.Close()

	repo, err := LoadRegionCSV(popFile, bedsFile, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Loaded region tables",
		zap.String("populations", populationsPath),
		zap.String("beds", bedsPath),
		zap.Int("population_rows", len(repo.populations)),
		zap.Int("beds_rows", len(repo.bedsPer1000)),
	)
	return repo, nil
}

// LoadRegionCSV builds the repository from already opened tables
func LoadRegionCSV(populations, beds io.Reader, logger *zap.Logger) (*RegionCSVRepository, error) {
	repo := &RegionCSVRepository{
		populations: make(map[models.Region]int64),
		bedsPer1000: make(map[models.Region]float64),
		logger:      logger,
	}

	popTable, err := readCSVTable(populations)
	if err != nil {
		return nil, fmt.Errorf("failed to parse populations table: %w", err)
	}
	if err := eachRegionRow(popTable, "Population", func(region models.Region, raw string) error {
		v, err := parseWhole(raw)
		if err != nil {
			return err
		}
		if _, seen := repo.populations[region]; !seen {
			repo.populations[region] = v
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to parse populations table: %w", err)
	}

	bedsTable, err := readCSVTable(beds)
	if err != nil {
		return nil, fmt.Errorf("failed to parse beds table: %w", err)
	}
	if err := eachRegionRow(bedsTable, "Beds Per 1000", func(region models.Region, raw string) error {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", raw)
		}
		if _, seen := repo.bedsPer1000[region]; !seen {
			repo.bedsPer1000[region] = v
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to parse beds table: %w", err)
	}

	return repo, nil
}

func eachRegionRow(t *csvTable, valueColumn string, fn func(models.Region, string) error) error {
	psIdx, err := t.column(colProvinceState...)
	if err != nil {
		return err
	}
	crIdx, err := t.column(colCountryRegion...)
	if err != nil {
		return err
	}
	valIdx, err := t.column(valueColumn)
	if err != nil {
		return err
	}
	for i, row := range t.rows {
		region := models.Region{ProvinceState: cell(row, psIdx), CountryRegion: cell(row, crIdx)}
		if err := fn(region, cell(row, valIdx)); err != nil {
			// +2: header line and 1-based numbering
			return fmt.Errorf("line %d: %w", i+2, err)
		}
	}
	return nil
}

// Population returns the population of region
func (r *RegionCSVRepository) Population(ctx context.Context, region models.Region) (int64, error) {
	pop, ok := r.populations[region]
	if !ok {
		return 0, fmt.Errorf("%w: no population for %s", ErrRegionNotFound, region)
	}
	return pop, nil
}

// Beds returns floor(beds per 1000 * population / 1000)
func (r *RegionCSVRepository) Beds(ctx context.Context, region models.Region) (int64, error) {
	rate, ok := r.bedsPer1000[region]
	if !ok {
		return 0, fmt.Errorf("%w: no beds rate for %s", ErrRegionNotFound, region)
	}
	pop, err := r.Population(ctx, region)
	if err != nil {
		return 0, err
	}
	return bedsFromRate(rate, pop), nil
}
