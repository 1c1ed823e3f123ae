package perf

import (
	"github.com/evergreen-ci/benchboard/model"
	"github.com/pkg/errors"
)

// SeriesAggregator redistributes the measurements of an ordered list of
// configurations into per-scenario series.
type SeriesAggregator struct {
	scenarios model.ScenarioSet
}

// NewSeriesAggregator returns an aggregator routing the given scenarios.
func NewSeriesAggregator(scenarios model.ScenarioSet) *SeriesAggregator {
	return &SeriesAggregator{scenarios: scenarios}
}

// DefaultAggregator routes the six rendering scenarios.
func DefaultAggregator() *SeriesAggregator {
	return NewSeriesAggregator(model.DefaultScenarioSet())
}

// Scenarios returns the routing table.
func (a *SeriesAggregator) Scenarios() model.ScenarioSet { return a.scenarios }

// Aggregate looks up each key in order and appends its means to the
// series. A key without a record, or whose record lacks a routed scenario,
// is dropped from the labels and from every series and reported with
// exactly one data-not-found notice, so labels and series always stay
// aligned. Scenario names outside the routing table are ignored.
func (a *SeriesAggregator) Aggregate(store model.ResultStore, keys []model.ConfigurationKey) (*model.Report, []model.Notice) {
	report := model.NewReport(a.scenarios)
	notices := []model.Notice{}
	seen := make(map[model.ConfigurationKey]bool, len(keys))

	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true

		record, ok := store.Get(key)
		if !ok {
			notices = append(notices, model.DataNotFoundNotice(key))
			continue
		}

		values := make(map[model.Scenario]float64, a.scenarios.Len())
		for _, sc := range a.scenarios.Scenarios() {
			if val, ok := record.Mean(sc); ok {
				values[sc] = val
			}
		}
		if err := report.AddColumn(key, values); err != nil {
			notices = append(notices, columnNotice(key, err))
		}
	}

	return report, notices
}

// columnNotice converts a rejected column into the key's single
// data-not-found notice.
func columnNotice(key model.ConfigurationKey, err error) model.Notice {
	var missing *model.MissingScenarioError
	if errors.As(err, &missing) {
		return model.MissingScenarioNotice(key, missing.Scenario)
	}

	return model.DataNotFoundNotice(key)
}

// BuildReport aggregates the current configuration selection. It is the
// only path by which the service, the command line tools and the export
// job produce reports.
func BuildReport(store model.ResultStore, selection *model.SelectionState, agg *SeriesAggregator) (*model.Report, []model.Notice) {
	if agg == nil {
		agg = DefaultAggregator()
	}

	return agg.Aggregate(store, selection.Configurations())
}
