package repository

import (
	"fmt"
	"io"
	"time"

	"github.com/paulirish/covid-data-model/internal/models"
)

// snapshotLayout daily report file naming, MM-DD-YYYY
const snapshotLayout = "01-02-2006"

// SnapshotFileName returns the table name for date, e.g. 03-21-2020.csv
func SnapshotFileName(date time.Time) string {
	return date.Format(snapshotLayout) + ".csv"
}

// parseSnapshot extracts the region's row from one daily table.
// No matching row yields an all-unknown snapshot.
func parseSnapshot(r io.Reader, date time.Time, region models.Region) (models.Snapshot, error) {
	snap := models.UnknownSnapshot(date)

	t, err := readCSVTable(r)
	if err != nil {
		return snap, err
	}
	row, found, err := t.findRegionRow(region)
	if err != nil {
		return snap, err
	}
	if !found {
		return snap, nil
	}

	fields := []struct {
		column string
		dst    **int64
	}{
		{"Confirmed", &snap.Confirmed},
		{"Deaths", &snap.Deaths},
		{"Recovered", &snap.Recovered},
	}
	for _, f := range fields {
		idx, err := t.column(f.column)
		if err != nil {
			return models.UnknownSnapshot(date), err
		}
		v, err := parseOptionalWhole(cell(row, idx))
		if err != nil {
			return models.UnknownSnapshot(date), fmt.Errorf("column %s: %w", f.column, err)
		}
		*f.dst = v
	}
	return snap, nil
}
