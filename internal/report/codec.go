package report

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/paulirish/covid-data-model/internal/models"
)

const dateLayout = "2006-01-02"

// Emitter persists or publishes a finished forecast
type Emitter interface {
	Emit(ctx context.Context, fc *models.Forecast) error
}

// Cells returns the row's values in models.ForecastColumns order.
// Unset optional values are nil.
func Cells(row models.ForecastRow) []interface{} {
	return []interface{}{
		row.Note,
		row.Date.Format(dateLayout),
		row.EffectiveR0,
		row.BegSusceptible,
		row.NewInfected,
		row.PrevInfected,
		row.RecoveredOrDied,
		row.EndSusceptible,
		optionalInt(row.ActualReported),
		row.PredHospitalized,
		row.CumInfected,
		row.CumDeaths,
		row.AvailHospBeds,
		optionalFloat(row.SP500),
		optionalFloat(row.EstActualChanceOfInf),
		optionalFloat(row.PredChanceOfInf),
		optionalFloat(row.CumPredChanceOfInf),
		optionalFloat(row.R0),
		optionalFloat(row.PctSusceptible),
	}
}

// Record formats the row as text cells; unset values become empty strings
func Record(row models.ForecastRow) []string {
	cells := Cells(row)
	record := make([]string, len(cells))
	for i, c := range cells {
		record[i] = formatCell(c)
	}
	return record
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

func optionalInt(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func optionalFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// Encode JSON payload shared by the publishing emitters
func Encode(fc *models.Forecast) ([]byte, error) {
	return json.Marshal(fc)
}
