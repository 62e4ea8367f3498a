package report

import (
	"time"

	"github.com/paulirish/covid-data-model/internal/models"
)

func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }

func sampleForecast() *models.Forecast {
	start := time.Date(2020, 3, 9, 0, 0, 0, 0, time.UTC)
	return &models.Forecast{
		RunID: "3f0c2a9e-9a7d-4d0e-8a57-4f5b4c1e2d10",
		Region: models.RegionProfile{
			Region:     models.Region{ProvinceState: "California", CountryRegion: "US"},
			Population: 1000000,
			Beds:       71122,
		},
		Today:       time.Date(2020, 3, 21, 0, 0, 0, 0, time.UTC),
		GeneratedAt: time.Date(2020, 3, 24, 8, 30, 0, 0, time.UTC),
		Rows: []models.ForecastRow{
			{
				Date:                 start,
				EffectiveR0:          2.8,
				BegSusceptible:       1000000,
				NewInfected:          2000,
				EndSusceptible:       998000,
				ActualReported:       int64Ptr(100),
				PredHospitalized:     100,
				CumInfected:          2000,
				AvailHospBeds:        35561,
				EstActualChanceOfInf: float64Ptr(0.002),
			},
			{
				Date:             start.AddDate(0, 0, 4),
				EffectiveR0:      2.8,
				BegSusceptible:   998000,
				NewInfected:      5588,
				PrevInfected:     2000,
				EndSusceptible:   992411,
				PredHospitalized: 379,
				CumInfected:      7588,
				CumDeaths:        30,
				AvailHospBeds:    37339,
			},
		},
	}
}
