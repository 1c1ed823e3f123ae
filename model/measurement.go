package model

import (
	"math"
	"sort"

	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

// MeasurementRecord holds the mean duration, in seconds, of every scenario
// measured for one configuration. Records carry their own key so that they
// are self-describing in a bucket or collection.
type MeasurementRecord struct {
	Key   ConfigurationKey   `bson:"key" json:"key" yaml:"key"`
	Means map[string]float64 `bson:"means" json:"means" yaml:"means"`
}

// Mean returns the recorded mean for the scenario.
func (r MeasurementRecord) Mean(sc Scenario) (float64, bool) {
	val, ok := r.Means[string(sc)]
	return val, ok
}

// Validate checks the key and that every mean is a finite, non-negative
// duration. Unrecognized scenario names are allowed.
func (r MeasurementRecord) Validate() error {
	catcher := grip.NewBasicCatcher()
	catcher.Wrap(r.Key.Validate(), "invalid key")
	catcher.NewWhen(len(r.Means) == 0, "record must contain at least one mean")

	names := make([]string, 0, len(r.Means))
	for name := range r.Means {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		val := r.Means[name]
		catcher.ErrorfWhen(math.IsNaN(val) || math.IsInf(val, 0), "mean for '%s' is not finite", name)
		catcher.ErrorfWhen(val < 0, "mean for '%s' is negative", name)
	}

	return errors.Wrapf(catcher.Resolve(), "invalid measurement record for '%s'", r.Key)
}
