package perf

import (
	"math"

	"github.com/evergreen-ci/benchboard/model"
)

const (
	scaleHeadroom = 1.2
	scaleFloor    = 1.0
)

// ScenarioSummary is everything a chart card needs for one scenario.
type ScenarioSummary struct {
	Info     model.ScenarioInfo   `json:"info"`
	Values   []float64            `json:"values"`
	Analysis *PerformanceAnalysis `json:"analysis"`
	ScaleMax float64              `json:"scale_max"`
}

// Winner is the configuration with the lowest mean across a group.
type Winner struct {
	Index   int     `json:"index"`
	Label   string  `json:"label"`
	AvgTime float64 `json:"avg_time"`
}

// GroupSummary describes the scenarios that share an axis.
type GroupSummary struct {
	Group    model.ScenarioGroup `json:"group"`
	ScaleMax float64             `json:"scale_max"`
	Winner   *Winner             `json:"winner"`
}

// Summary holds the per-scenario and per-group summaries of a report.
type Summary struct {
	Scenarios []ScenarioSummary `json:"scenarios"`
	Groups    []GroupSummary    `json:"groups"`
}

// ScaleMax returns the shared axis maximum for a group: the largest value
// of any scenario in the group (at least 1) plus 20% headroom, rounded up.
func ScaleMax(report *model.Report, group model.ScenarioGroup) float64 {
	max := scaleFloor
	for _, sc := range report.Scenarios().GroupScenarios(group) {
		for _, val := range report.Series[sc] {
			max = math.Max(max, val)
		}
	}

	return math.Ceil(max * scaleHeadroom)
}

// OverallWinner returns the configuration with the lowest mean over the
// group's scenarios, preferring the first on ties. It returns nil for an
// empty report or a group without scenarios.
func OverallWinner(report *model.Report, group model.ScenarioGroup) *Winner {
	scenarios := report.Scenarios().GroupScenarios(group)
	if report.Empty() || len(scenarios) == 0 {
		return nil
	}

	var winner *Winner
	for idx, key := range report.Labels {
		var sum float64
		for _, sc := range scenarios {
			sum += report.Series[sc][idx]
		}
		avg := sum / float64(len(scenarios))

		if winner == nil || avg < winner.AvgTime {
			winner = &Winner{Index: idx, Label: key.String(), AvgTime: avg}
		}
	}

	return winner
}

// Summarize analyzes every scenario and group of the report.
func Summarize(report *model.Report) *Summary {
	set := report.Scenarios()
	labels := report.LabelStrings()
	out := &Summary{
		Scenarios: make([]ScenarioSummary, 0, set.Len()),
		Groups:    []GroupSummary{},
	}

	scales := map[model.ScenarioGroup]float64{}
	for _, group := range set.Groups() {
		scales[group] = ScaleMax(report, group)
		out.Groups = append(out.Groups, GroupSummary{
			Group:    group,
			ScaleMax: scales[group],
			Winner:   OverallWinner(report, group),
		})
	}

	for _, info := range set.Infos() {
		values := append([]float64{}, report.Series[info.Scenario]...)
		out.Scenarios = append(out.Scenarios, ScenarioSummary{
			Info:     info,
			Values:   values,
			Analysis: Analyze(labels, values),
			ScaleMax: scales[info.Group],
		})
	}

	return out
}
