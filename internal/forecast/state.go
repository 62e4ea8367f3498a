package forecast

import (
	"math"

	"github.com/paulirish/covid-data-model/internal/models"

	"github.com/shopspring/decimal"
)

// SimulationState running totals threaded from one step to the next
type SimulationState struct {
	EffectiveR0        float64
	PrevConfirmed      *int64   // nil when the previous step had no report
	PrevEndSusceptible int64
	PrevNewInfected    *float64 // nil before the first step
	Infections         infectionWindow
	RecoveredOrDied    float64
	CumInfected        float64
	CumDeaths          int64
	AvailableBeds      float64
}

// NewSimulationState initial state for a region
func NewSimulationState(p Params, profile models.RegionProfile) SimulationState {
	return SimulationState{
		EffectiveR0:        p.R0Initial,
		PrevEndSusceptible: profile.Population,
		Infections:         newInfectionWindow(p.RollingIntervals),
		AvailableBeds:      math.RoundToEven(float64(profile.Beds) * (1 - p.InitialBedUtilization)),
	}
}

// Step applies one interval's update. population must be positive.
func Step(p Params, population int64, s SimulationState, snap models.Snapshot) (models.ForecastRow, SimulationState) {
	pop := float64(population)
	confirmed := snap.Confirmed

	if confirmed != nil && s.PrevConfirmed != nil && *s.PrevConfirmed > 0 {
		s.EffectiveR0 = float64(*confirmed) / float64(*s.PrevConfirmed)
	}

	var newInfected float64
	if s.PrevNewInfected != nil && *s.PrevNewInfected > 0 {
		newInfected = *s.PrevNewInfected * s.EffectiveR0 * float64(s.PrevEndSusceptible) / pop
	} else if confirmed != nil {
		// no growth to extrapolate from yet: treat reported cases as the
		// hospitalized share of true infections
		newInfected = float64(*confirmed) * (1 / p.HospitalizationRate)
	}
	// nobody outside the remaining susceptible pool can be infected
	newInfected = math.Min(math.Max(newInfected, 0), float64(max(s.PrevEndSusceptible, 0)))

	if s.Infections.Full() {
		s.RecoveredOrDied += s.Infections.Expired()
	}
	active := s.Infections.Active()

	s.CumInfected += newInfected
	predHospitalized := newInfected * p.HospitalizationRate

	if s.AvailableBeds > predHospitalized {
		s.CumDeaths += int64(newInfected * p.CaseFatalityRate)
	} else {
		s.CumDeaths += int64(newInfected * p.CaseFatalityRateOverwhelmed)
	}

	endSusceptible := int64(pop - newInfected - active - s.RecoveredOrDied)

	row := models.ForecastRow{
		Date:             snap.Date,
		EffectiveR0:      roundR0(s.EffectiveR0),
		BegSusceptible:   s.PrevEndSusceptible,
		NewInfected:      int64(newInfected),
		PrevInfected:     int64(active),
		RecoveredOrDied:  int64(s.RecoveredOrDied),
		EndSusceptible:   endSusceptible,
		PredHospitalized: int64(predHospitalized),
		CumInfected:      int64(s.CumInfected),
		CumDeaths:        s.CumDeaths,
		AvailHospBeds:    int64(s.AvailableBeds),
	}
	if confirmed != nil {
		reported := *confirmed
		chance := (float64(reported) / p.HospitalizationRate * 2) / pop
		row.ActualReported = &reported
		row.EstActualChanceOfInf = &chance
	}

	s.Infections = s.Infections.Push(newInfected)
	s.PrevNewInfected = &newInfected
	s.PrevEndSusceptible = endSusceptible
	s.AvailableBeds *= p.HospitalCapacityGrowth
	s.PrevConfirmed = confirmed

	return row, s
}

// exactExponent is low enough for NewFromFloatWithExponent to keep every
// binary digit of a float64
const exactExponent = -1074

// roundR0 rounds the exact binary value to two places, ties to even
func roundR0(r0 float64) float64 {
	return decimal.NewFromFloatWithExponent(r0, exactExponent).RoundBank(2).InexactFloat64()
}
