package forecast

import (
	"errors"
	"fmt"
)

// ErrInvalidParams model parameters that would make the step update meaningless
var ErrInvalidParams = errors.New("invalid model parameters")

// Params model assumptions
type Params struct {
	R0Initial                   float64
	HospitalizationRate         float64 // share of true infections that are hospitalized
	CaseFatalityRate            float64
	CaseFatalityRateOverwhelmed float64 // used once predicted hospitalizations reach available beds
	HospitalCapacityGrowth      float64 // per-step multiplier on available beds
	InitialBedUtilization       float64
	IntervalDays                int
	RollingIntervals            int // steps an infection stays active before it resolves
}

// DefaultParams returns the stock assumptions
func DefaultParams() Params {
	return Params{
		R0Initial:                   2.8,
		HospitalizationRate:         0.05,
		CaseFatalityRate:            0.015,
		CaseFatalityRateOverwhelmed: 0.015,
		HospitalCapacityGrowth:      1.05,
		InitialBedUtilization:       0.5,
		IntervalDays:                4,
		RollingIntervals:            3,
	}
}

// Validate checks every parameter is usable
func (p Params) Validate() error {
	switch {
	case p.HospitalizationRate <= 0 || p.HospitalizationRate > 1:
		return fmt.Errorf("%w: hospitalization rate %v must be in (0, 1]", ErrInvalidParams, p.HospitalizationRate)
	case p.CaseFatalityRate < 0 || p.CaseFatalityRateOverwhelmed < 0:
		return fmt.Errorf("%w: case fatality rates must not be negative", ErrInvalidParams)
	case p.R0Initial < 0:
		return fmt.Errorf("%w: initial R0 %v must not be negative", ErrInvalidParams, p.R0Initial)
	case p.HospitalCapacityGrowth < 0:
		return fmt.Errorf("%w: capacity growth %v must not be negative", ErrInvalidParams, p.HospitalCapacityGrowth)
	case p.InitialBedUtilization < 0 || p.InitialBedUtilization > 1:
		return fmt.Errorf("%w: bed utilization %v must be in [0, 1]", ErrInvalidParams, p.InitialBedUtilization)
	case p.IntervalDays <= 0:
		return fmt.Errorf("%w: interval must be at least one day", ErrInvalidParams)
	case p.RollingIntervals <= 0:
		return fmt.Errorf("%w: rolling window must be at least one step", ErrInvalidParams)
	}
	return nil
}
