package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/paulirish/covid-data-model/internal/models"

	"go.uber.org/zap"
)

// SnapshotDirRepository reads daily report tables from a local directory
type SnapshotDirRepository struct {
	dir    string
	logger *zap.Logger
}

// NewSnapshotDirRepository creates a directory-backed snapshot repository
func NewSnapshotDirRepository(dir string, logger *zap.Logger) *SnapshotDirRepository {
	return &SnapshotDirRepository{
		dir:    dir,
		logger: logger,
	}
}

// Snapshot returns the region's counts for date. A missing table is not an error.
func (r *SnapshotDirRepository) Snapshot(ctx context.Context, date time.Time, region models.Region) (models.Snapshot, error) {
	path := filepath.Join(r.dir, SnapshotFileName(date))
	r.logger.Debug("Loading snapshot", zap.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("Snapshot table missing", zap.String("path", path))
			return models.UnknownSnapshot(date), nil
		}
		return models.UnknownSnapshot(date), fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer f.Close()

	snap, err := parseSnapshot(f, date, region)
	if err != nil {
		return snap, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return snap, nil
}
