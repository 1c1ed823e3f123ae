package model

import (
	dbmodel "github.com/evergreen-ci/benchboard/model"
	"github.com/evergreen-ci/benchboard/perf"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
)

// Column colors are assigned by label position so that a configuration
// keeps its color across every scenario chart.
var chartColors = []string{
	"rgba(0, 212, 170, 0.85)",
	"rgba(99, 102, 241, 0.85)",
	"rgba(245, 158, 11, 0.85)",
	"rgba(236, 72, 153, 0.85)",
	"rgba(34, 197, 94, 0.85)",
	"rgba(168, 85, 247, 0.85)",
	"rgba(59, 130, 246, 0.85)",
	"rgba(239, 68, 68, 0.85)",
	"rgba(20, 184, 166, 0.85)",
	"rgba(251, 146, 60, 0.85)",
	"rgba(139, 92, 246, 0.85)",
	"rgba(6, 182, 212, 0.85)",
}

// ChartColor returns the color of the column at idx.
func ChartColor(idx int) string {
	if idx < 0 {
		idx = -idx
	}
	return chartColors[idx%len(chartColors)]
}

// APIReportLabel is one column of a report.
type APIReportLabel struct {
	APIConfigurationKey
	Color *string `json:"color"`
}

// APIReport is an aggregated report with its per-scenario and per-group
// summaries.
type APIReport struct {
	Labels    []APIReportLabel     `json:"labels"`
	Series    map[string][]float64 `json:"series"`
	Scenarios []APIScenarioSummary `json:"scenarios"`
	Groups    []APIGroupSummary    `json:"groups"`
	Notices   []APINotice          `json:"notices"`
}

// Import transforms a Report into an APIReport, summarizing every scenario
// and group. Notices are not part of a Report and are set separately.
func (r *APIReport) Import(i interface{}) error {
	report, ok := i.(*dbmodel.Report)
	if !ok || report == nil {
		return errors.Errorf("incorrect type %T when converting to APIReport", i)
	}
	if err := report.Aligned(); err != nil {
		return errors.Wrap(err, "cannot serve a misaligned report")
	}

	r.Labels = make([]APIReportLabel, 0, len(report.Labels))
	for idx, key := range report.Labels {
		label := APIReportLabel{Color: utility.ToStringPtr(ChartColor(idx))}
		if err := label.APIConfigurationKey.Import(key); err != nil {
			return errors.WithStack(err)
		}
		r.Labels = append(r.Labels, label)
	}

	r.Series = make(map[string][]float64, len(report.Series))
	for sc, values := range report.Series {
		r.Series[string(sc)] = append([]float64{}, values...)
	}

	summary := perf.Summarize(report)
	r.Scenarios = make([]APIScenarioSummary, 0, len(summary.Scenarios))
	for _, sc := range summary.Scenarios {
		apiSummary := APIScenarioSummary{}
		if err := apiSummary.Import(sc); err != nil {
			return errors.WithStack(err)
		}
		r.Scenarios = append(r.Scenarios, apiSummary)
	}
	r.Groups = make([]APIGroupSummary, 0, len(summary.Groups))
	for _, group := range summary.Groups {
		apiGroup := APIGroupSummary{}
		if err := apiGroup.Import(group); err != nil {
			return errors.WithStack(err)
		}
		r.Groups = append(r.Groups, apiGroup)
	}

	if r.Notices == nil {
		r.Notices = []APINotice{}
	}

	return nil
}

func (r *APIReport) Export() (interface{}, error) {
	return nil, errors.New("Export is not implemented for APIReport")
}

// APIAnalysis is the comparative summary of one scenario series.
type APIAnalysis struct {
	BestIndex   int     `json:"best_index"`
	BestLabel   *string `json:"best_label"`
	BestValue   float64 `json:"best_value"`
	WorstIndex  int     `json:"worst_index"`
	WorstLabel  *string `json:"worst_label"`
	WorstValue  float64 `json:"worst_value"`
	Improvement float64 `json:"improvement"`
	AvgValue    float64 `json:"avg_value"`
}

// Import transforms a PerformanceAnalysis into an APIAnalysis.
func (a *APIAnalysis) Import(i interface{}) error {
	var analysis perf.PerformanceAnalysis
	switch in := i.(type) {
	case perf.PerformanceAnalysis:
		analysis = in
	case *perf.PerformanceAnalysis:
		if in == nil {
			return errors.New("cannot import a nil analysis")
		}
		analysis = *in
	default:
		return errors.Errorf("incorrect type %T when converting to APIAnalysis", i)
	}

	a.BestIndex = analysis.BestIndex
	a.BestLabel = utility.ToStringPtr(analysis.BestLabel)
	a.BestValue = analysis.BestValue
	a.WorstIndex = analysis.WorstIndex
	a.WorstLabel = utility.ToStringPtr(analysis.WorstLabel)
	a.WorstValue = analysis.WorstValue
	a.Improvement = analysis.Improvement
	a.AvgValue = analysis.AvgValue

	return nil
}

func (a *APIAnalysis) Export() (interface{}, error) {
	return perf.PerformanceAnalysis{
		BestIndex:   a.BestIndex,
		BestLabel:   utility.FromStringPtr(a.BestLabel),
		BestValue:   a.BestValue,
		WorstIndex:  a.WorstIndex,
		WorstLabel:  utility.FromStringPtr(a.WorstLabel),
		WorstValue:  a.WorstValue,
		Improvement: a.Improvement,
		AvgValue:    a.AvgValue,
	}, nil
}

// APIScenarioSummary holds what one scenario chart renders.
type APIScenarioSummary struct {
	Scenario *string      `json:"scenario"`
	Group    *string      `json:"group"`
	Title    *string      `json:"title"`
	Subtitle *string      `json:"subtitle"`
	Values   []float64    `json:"values"`
	Analysis *APIAnalysis `json:"analysis"`
	ScaleMax float64      `json:"scale_max"`
}

// Import transforms a ScenarioSummary into an APIScenarioSummary.
func (s *APIScenarioSummary) Import(i interface{}) error {
	summary, ok := i.(perf.ScenarioSummary)
	if !ok {
		return errors.Errorf("incorrect type %T when converting to APIScenarioSummary", i)
	}

	s.Scenario = utility.ToStringPtr(string(summary.Info.Scenario))
	s.Group = utility.ToStringPtr(string(summary.Info.Group))
	s.Title = utility.ToStringPtr(summary.Info.Title)
	s.Subtitle = utility.ToStringPtr(summary.Info.Subtitle)
	s.Values = append([]float64{}, summary.Values...)
	s.ScaleMax = summary.ScaleMax
	s.Analysis = nil
	if summary.Analysis != nil {
		s.Analysis = &APIAnalysis{}
		if err := s.Analysis.Import(summary.Analysis); err != nil {
			return errors.WithStack(err)
		}
	}

	return nil
}

func (s *APIScenarioSummary) Export() (interface{}, error) {
	return nil, errors.New("Export is not implemented for APIScenarioSummary")
}

// APIWinner is the configuration with the lowest mean over a group.
type APIWinner struct {
	Index   int     `json:"index"`
	Label   *string `json:"label"`
	AvgTime float64 `json:"avg_time"`
}

// APIGroupSummary describes the scenarios sharing an axis.
type APIGroupSummary struct {
	Group    *string    `json:"group"`
	ScaleMax float64    `json:"scale_max"`
	Winner   *APIWinner `json:"winner"`
}

// Import transforms a GroupSummary into an APIGroupSummary.
func (g *APIGroupSummary) Import(i interface{}) error {
	summary, ok := i.(perf.GroupSummary)
	if !ok {
		return errors.Errorf("incorrect type %T when converting to APIGroupSummary", i)
	}

	g.Group = utility.ToStringPtr(string(summary.Group))
	g.ScaleMax = summary.ScaleMax
	g.Winner = nil
	if summary.Winner != nil {
		g.Winner = &APIWinner{
			Index:   summary.Winner.Index,
			Label:   utility.ToStringPtr(summary.Winner.Label),
			AvgTime: summary.Winner.AvgTime,
		}
	}

	return nil
}

func (g *APIGroupSummary) Export() (interface{}, error) {
	return nil, errors.New("Export is not implemented for APIGroupSummary")
}

// APIScenarioAnalysis is the analysis of a single scenario over a list of
// configurations. Analysis is null when the series is empty or all zero.
type APIScenarioAnalysis struct {
	Scenario *string      `json:"scenario"`
	Labels   []string     `json:"labels"`
	Values   []float64    `json:"values"`
	Analysis *APIAnalysis `json:"analysis"`
}
