package report

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/paulirish/covid-data-model/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestExcelEmitter_Emit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")

	require.NoError(t, NewExcelEmitter(path, zap.NewNop()).Emit(context.Background(), sampleForecast()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, models.ForecastColumns, rows[0])

	date, err := f.GetCellValue(sheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "2020-03-09", date)

	newInfected, err := f.GetCellValue(sheetName, "E3")
	require.NoError(t, err)
	assert.Equal(t, "5588", newInfected)

	reported, err := f.GetCellValue(sheetName, "I2")
	require.NoError(t, err)
	assert.Equal(t, "100", reported)

	// unknown reported count is left blank
	reported, err = f.GetCellValue(sheetName, "I3")
	require.NoError(t, err)
	assert.Empty(t, reported)
}

func TestExcelEmitter_HeaderFrozen(t *testing.T) {
	f, err := buildWorkbook(sampleForecast().Rows)
	require.NoError(t, err)
	defer f.Close()

	panes, err := f.GetPanes(sheetName)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
}
