package model

import (
	"fmt"

	"github.com/mongodb/grip"
)

// Report is the aggregated, index-aligned view of a selection: Series[s][i]
// is the mean of scenario s for Labels[i]. Every routed scenario has a
// series and every series has exactly len(Labels) values.
type Report struct {
	Labels []ConfigurationKey     `json:"labels" yaml:"labels"`
	Series map[Scenario][]float64 `json:"series" yaml:"series"`

	scenarios ScenarioSet
}

// NewReport returns an empty report with one empty series per scenario.
func NewReport(scenarios ScenarioSet) *Report {
	r := &Report{
		Labels:    []ConfigurationKey{},
		Series:    make(map[Scenario][]float64, scenarios.Len()),
		scenarios: scenarios,
	}
	for _, sc := range scenarios.Scenarios() {
		r.Series[sc] = []float64{}
	}

	return r
}

// Scenarios returns the routing table the report was built with.
func (r *Report) Scenarios() ScenarioSet { return r.scenarios }

// MissingScenarioError is returned by AddColumn when a column lacks a
// routed scenario.
type MissingScenarioError struct {
	Key      ConfigurationKey
	Scenario Scenario
}

func (e *MissingScenarioError) Error() string {
	return fmt.Sprintf("column '%s' is missing scenario '%s'", e.Key, e.Scenario)
}

// AddColumn appends a label and its value for every routed scenario. The
// values map must contain every scenario; otherwise nothing is appended
// and the error is a *MissingScenarioError naming the first gap.
func (r *Report) AddColumn(key ConfigurationKey, values map[Scenario]float64) error {
	for _, sc := range r.scenarios.Scenarios() {
		if _, ok := values[sc]; !ok {
			return &MissingScenarioError{Key: key, Scenario: sc}
		}
	}

	r.Labels = append(r.Labels, key)
	for _, sc := range r.scenarios.Scenarios() {
		r.Series[sc] = append(r.Series[sc], values[sc])
	}

	return nil
}

// Empty reports whether the report has no columns.
func (r *Report) Empty() bool { return len(r.Labels) == 0 }

// LabelStrings returns the labels in serialized form.
func (r *Report) LabelStrings() []string { return keyStrings(r.Labels) }

// Aligned checks that every routed scenario has a series of len(Labels).
func (r *Report) Aligned() error {
	catcher := grip.NewBasicCatcher()
	for _, sc := range r.scenarios.Scenarios() {
		series, ok := r.Series[sc]
		if !ok {
			catcher.Errorf("missing series for scenario '%s'", sc)
			continue
		}
		catcher.ErrorfWhen(len(series) != len(r.Labels), "series '%s' has %d values for %d labels", sc, len(series), len(r.Labels))
	}

	return catcher.Resolve()
}
