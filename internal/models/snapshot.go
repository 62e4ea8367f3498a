package models

import "time"

// Snapshot cumulative counts reported for a region on one date.
// A nil field means no data for that date, which is not the same as zero.
type Snapshot struct {
	Date      time.Time `json:"date"`
	Confirmed *int64    `json:"confirmed,omitempty"`
	Deaths    *int64    `json:"deaths,omitempty"`
	Recovered *int64    `json:"recovered,omitempty"`
}

// UnknownSnapshot returns a snapshot with every count unset
func UnknownSnapshot(date time.Time) Snapshot {
	return Snapshot{Date: date}
}

// Known reports whether any count is set
func (s Snapshot) Known() bool {
	return s.Confirmed != nil || s.Deaths != nil || s.Recovered != nil
}
