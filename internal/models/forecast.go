package models

import "time"

// ForecastColumns output column headers, in row field order
var ForecastColumns = []string{
	"Note",
	"Date",
	"Eff. R0",
	"Beg. Susceptible",
	"New Inf.",
	"Prev. Inf.",
	"Recov. or Died",
	"End Susceptible",
	"Actual Reported",
	"Pred. Hosp.",
	"Cum. Inf.",
	"Cum. Deaths",
	"Avail. Hosp. Beds",
	"S&P 500",
	"Est. Actual Chance of Inf.",
	"Pred. Chance of Inf.",
	"Cum. Pred. Chance of Inf.",
	"R0",
	"% Susceptible",
}

// ForecastRow state of one simulated step
type ForecastRow struct {
	Note             string    `json:"note"`
	Date             time.Time `json:"date"`
	EffectiveR0      float64   `json:"eff_r0"`
	BegSusceptible   int64     `json:"beg_susceptible"`
	NewInfected      int64     `json:"new_infected"`
	PrevInfected     int64     `json:"prev_infected"` // still-active infections from earlier steps
	RecoveredOrDied  int64     `json:"recovered_or_died"`
	EndSusceptible   int64     `json:"end_susceptible"`
	ActualReported   *int64    `json:"actual_reported"`
	PredHospitalized int64     `json:"pred_hospitalized"`
	CumInfected      int64     `json:"cum_infected"`
	CumDeaths        int64     `json:"cum_deaths"`
	AvailHospBeds    int64     `json:"avail_hosp_beds"`

	EstActualChanceOfInf *float64 `json:"est_actual_chance_of_inf"`

	// Reserved columns, never populated
	SP500              *float64 `json:"sp500"`
	PredChanceOfInf    *float64 `json:"pred_chance_of_inf"`
	CumPredChanceOfInf *float64 `json:"cum_pred_chance_of_inf"`
	R0                 *float64 `json:"r0"`
	PctSusceptible     *float64 `json:"pct_susceptible"`
}

// Forecast result of one engine run for a region
type Forecast struct {
	RunID       string        `json:"run_id"`
	Region      RegionProfile `json:"region"`
	Today       time.Time     `json:"today"`
	GeneratedAt time.Time     `json:"generated_at"`
	Rows        []ForecastRow `json:"rows"`
}
