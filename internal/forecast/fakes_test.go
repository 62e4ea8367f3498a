package forecast

import (
	"context"
	"errors"
	"time"

	"github.com/paulirish/covid-data-model/internal/models"
)

var errNoRegion = errors.New("region not found")

// fakeRegions in-memory RegionProvider
type fakeRegions struct {
	profiles map[models.Region]models.RegionProfile
}

func newFakeRegions(profiles ...models.RegionProfile) *fakeRegions {
	f := &fakeRegions{profiles: make(map[models.Region]models.RegionProfile)}
	for _, p := range profiles {
		f.profiles[p.Region] = p
	}
	return f
}

func (f *fakeRegions) Population(ctx context.Context, region models.Region) (int64, error) {
	p, ok := f.profiles[region]
	if !ok {
		return 0, errNoRegion
	}
	return p.Population, nil
}

func (f *fakeRegions) Beds(ctx context.Context, region models.Region) (int64, error) {
	p, ok := f.profiles[region]
	if !ok {
		return 0, errNoRegion
	}
	return p.Beds, nil
}

// fakeSnapshots serves confirmed counts by date and records every request
type fakeSnapshots struct {
	confirmed map[string]int64
	failOn    string
	requested []string
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{confirmed: make(map[string]int64)}
}

func (f *fakeSnapshots) set(date time.Time, confirmed int64) {
	f.confirmed[date.Format(dateLayout)] = confirmed
}

func (f *fakeSnapshots) Snapshot(ctx context.Context, date time.Time, region models.Region) (models.Snapshot, error) {
	key := date.Format(dateLayout)
	f.requested = append(f.requested, key)
	if key == f.failOn {
		return models.Snapshot{}, errors.New("malformed table")
	}
	c, ok := f.confirmed[key]
	if !ok {
		return models.UnknownSnapshot(date), nil
	}
	return models.Snapshot{Date: date, Confirmed: &c}, nil
}
