package models

import "fmt"

// Region a geographic area keyed by (Province/State, Country/Region).
// ProvinceState may be empty for country-level rows.
type Region struct {
	ProvinceState string `json:"province_state"`
	CountryRegion string `json:"country_region"`
}

func (r Region) String() string {
	if r.ProvinceState == "" {
		return r.CountryRegion
	}
	return fmt.Sprintf("%s, %s", r.ProvinceState, r.CountryRegion)
}

// RegionProfile resolved static data for a region
type RegionProfile struct {
	Region     Region `json:"region"`
	Population int64  `json:"population"`
	Beds       int64  `json:"beds"`
}
