package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/paulirish/covid-data-model/internal/models"
)

// Header spellings. Later daily reports renamed the key columns.
var (
	colProvinceState = []string{"Province/State", "Province_State"}
	colCountryRegion = []string{"Country/Region", "Country_Region"}
)

// csvTable a fully read CSV file with a header lookup
type csvTable struct {
	columns map[string]int
	rows    [][]string
}

func readCSVTable(r io.Reader) (*csvTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty table")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	t := &csvTable{columns: make(map[string]int, len(header))}
	for i, name := range header {
		// Excel exports prepend a BOM to the first cell
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := t.columns[name]; !dup {
			t.columns[name] = i
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	t.rows = rows
	return t, nil
}

// column returns the index of the first header matching any alias
func (t *csvTable) column(aliases ...string) (int, error) {
	for _, name := range aliases {
		if idx, ok := t.columns[name]; ok {
			return idx, nil
		}
	}
	return 0, fmt.Errorf("missing column %q", aliases[0])
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// findRegionRow returns the first row whose key columns equal region exactly
func (t *csvTable) findRegionRow(region models.Region) ([]string, bool, error) {
	psIdx, err := t.column(colProvinceState...)
	if err != nil {
		return nil, false, err
	}
	crIdx, err := t.column(colCountryRegion...)
	if err != nil {
		return nil, false, err
	}
	for _, row := range t.rows {
		if cell(row, psIdx) == region.ProvinceState && cell(row, crIdx) == region.CountryRegion {
			return row, true, nil
		}
	}
	return nil, false, nil
}

// parseWhole parses a non-negative count, accepting float notation and truncating it
func parseWhole(raw string) (int64, error) {
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if v < 0 {
			return 0, fmt.Errorf("invalid number %q", raw)
		}
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	// float64(math.MaxInt64) is 2^63, which int64 cannot hold
	if err != nil || math.IsNaN(f) || f < 0 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return int64(f), nil
}

// parseOptionalWhole is parseWhole with empty cells mapped to nil
func parseOptionalWhole(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := parseWhole(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
