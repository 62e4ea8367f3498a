package report

import (
	"context"
	"fmt"

	"github.com/paulirish/covid-data-model/internal/models"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const sheetName = "Forecast"

// ExcelEmitter writes the forecast table to an .xlsx workbook
type ExcelEmitter struct {
	path   string
	logger *zap.Logger
}

// NewExcelEmitter creates an xlsx emitter for path
func NewExcelEmitter(path string, logger *zap.Logger) *ExcelEmitter {
	return &ExcelEmitter{path: path, logger: logger}
}

// Emit writes the workbook, replacing any existing file
func (e *ExcelEmitter) Emit(ctx context.Context, fc *models.Forecast) error {
	f, err := buildWorkbook(fc.Rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(e.path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", e.path, err)
	}

	e.logger.Info("Wrote forecast workbook",
		zap.String("path", e.path),
		zap.String("region", fc.Region.Region.String()),
		zap.Int("rows", len(fc.Rows)),
	)
	return nil
}

func buildWorkbook(rows []models.ForecastRow) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range models.ForecastColumns {
		if err := setCellValue(f, col+1, 1, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell: %w", err)
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(models.ForecastColumns))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to convert column number: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}
	if err := f.SetColWidth(sheetName, "A", lastCol, 14); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	for rowIdx, row := range rows {
		for colIdx, value := range Cells(row) {
			// leave unset cells blank
			if value == nil {
				continue
			}
			if err := setCellValue(f, colIdx+1, rowIdx+2, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell value at row %d, col %d: %w", rowIdx+2, colIdx+1, err)
			}
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	return f, nil
}

func setCellValue(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheetName, cell, value)
}
