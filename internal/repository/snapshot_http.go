package repository

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/paulirish/covid-data-model/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// SnapshotHTTPRepository fetches daily report tables from a remote base URL,
// e.g. a raw GitHub directory of csse_covid_19_daily_reports
type SnapshotHTTPRepository struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewSnapshotHTTPRepository creates a remote snapshot repository
func NewSnapshotHTTPRepository(baseURL string, timeout time.Duration, logger *zap.Logger) *SnapshotHTTPRepository {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Accept", "text/csv")

	return &SnapshotHTTPRepository{
		httpClient: client,
		logger:     logger,
	}
}

// Snapshot returns the region's counts for date. HTTP 404 means no table for that date.
func (r *SnapshotHTTPRepository) Snapshot(ctx context.Context, date time.Time, region models.Region) (models.Snapshot, error) {
	name := SnapshotFileName(date)
	r.logger.Debug("Fetching snapshot", zap.String("file", name))

	resp, err := r.httpClient.R().
		SetContext(ctx).
		Get("/" + name)
	if err != nil {
		return models.UnknownSnapshot(date), fmt.Errorf("failed to fetch snapshot %s: %w", name, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		r.logger.Debug("Snapshot table missing", zap.String("file", name))
		return models.UnknownSnapshot(date), nil
	case resp.IsError():
		return models.UnknownSnapshot(date), fmt.Errorf("failed to fetch snapshot %s: status %d", name, resp.StatusCode())
	}

	snap, err := parseSnapshot(bytes.NewReader(resp.Body()), date, region)
	if err != nil {
		return snap, fmt.Errorf("failed to parse snapshot %s: %w", name, err)
	}
	return snap, nil
}
