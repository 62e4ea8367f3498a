package repository

import (
	"errors"
	"math"
)

// ErrRegionNotFound no population or beds row matches the region exactly
var ErrRegionNotFound = errors.New("region not found")

// bedsFromRate converts beds-per-1000 into a whole bed count
func bedsFromRate(bedsPer1000 float64, population int64) int64 {
	return int64(math.Floor(bedsPer1000 * float64(population) / 1000))
}
