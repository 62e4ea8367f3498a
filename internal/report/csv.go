package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/paulirish/covid-data-model/internal/models"

	"go.uber.org/zap"
)

// CSVEmitter writes the forecast table to a CSV file, replacing any existing file
type CSVEmitter struct {
	path   string
	logger *zap.Logger
}

// NewCSVEmitter creates a CSV emitter for path
func NewCSVEmitter(path string, logger *zap.Logger) *CSVEmitter {
	return &CSVEmitter{path: path, logger: logger}
}

// Emit writes header and rows to the configured path
func (e *CSVEmitter) Emit(ctx context.Context, fc *models.Forecast) error {
	f, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", e.path, err)
	}

	if err := WriteCSV(f, fc.Rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report %s: %w", e.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report %s: %w", e.path, err)
	}

	e.logger.Info("Wrote forecast report",
		zap.String("path", e.path),
		zap.Int("rows", len(fc.Rows)),
	)
	return nil
}

// WriteCSV writes the header line followed by one line per row
func WriteCSV(w io.Writer, rows []models.ForecastRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.ForecastColumns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(Record(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
