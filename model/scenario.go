package model

import "github.com/pkg/errors"

// Scenario names one measured workload within a MeasurementRecord.
type Scenario string

const (
	Scenario1500View  Scenario = "1500View"
	Scenario1500Text  Scenario = "1500Text"
	Scenario1500Image Scenario = "1500Image"
	Scenario5000View  Scenario = "5000View"
	Scenario5000Text  Scenario = "5000Text"
	Scenario5000Image Scenario = "5000Image"
)

// ScenarioGroup collects the scenarios rendered with the same element count,
// which share an axis scale.
type ScenarioGroup string

const (
	ScenarioGroup1500 ScenarioGroup = "1500"
	ScenarioGroup5000 ScenarioGroup = "5000"
)

// ScenarioInfo describes how a scenario is presented.
type ScenarioInfo struct {
	Scenario Scenario      `json:"scenario" yaml:"scenario"`
	Group    ScenarioGroup `json:"group" yaml:"group"`
	Title    string        `json:"title" yaml:"title"`
	Subtitle string        `json:"subtitle" yaml:"subtitle"`
}

var scenarioInfo = []ScenarioInfo{
	{Scenario: Scenario1500View, Group: ScenarioGroup1500, Title: "1500 Views", Subtitle: "View component render time"},
	{Scenario: Scenario1500Text, Group: ScenarioGroup1500, Title: "1500 Text", Subtitle: "Text component render time"},
	{Scenario: Scenario1500Image, Group: ScenarioGroup1500, Title: "1500 Images", Subtitle: "Image component render time"},
	{Scenario: Scenario5000View, Group: ScenarioGroup5000, Title: "5000 Views", Subtitle: "View component render time"},
	{Scenario: Scenario5000Text, Group: ScenarioGroup5000, Title: "5000 Text", Subtitle: "Text component render time"},
	{Scenario: Scenario5000Image, Group: ScenarioGroup5000, Title: "5000 Images", Subtitle: "Image component render time"},
}

// ScenarioSet is the ordered routing table from scenario names in a
// MeasurementRecord to report series. Names outside the set are ignored.
type ScenarioSet struct {
	infos []ScenarioInfo
	index map[Scenario]int
}

// DefaultScenarioSet returns the six rendering scenarios.
func DefaultScenarioSet() ScenarioSet {
	set, _ := NewScenarioSet(scenarioInfo...)
	return set
}

// NewScenarioSet builds a routing table, rejecting empty or duplicate names.
func NewScenarioSet(infos ...ScenarioInfo) (ScenarioSet, error) {
	set := ScenarioSet{
		infos: make([]ScenarioInfo, 0, len(infos)),
		index: make(map[Scenario]int, len(infos)),
	}

	for _, info := range infos {
		if info.Scenario == "" {
			return ScenarioSet{}, errors.New("scenario name must not be empty")
		}
		if _, ok := set.index[info.Scenario]; ok {
			return ScenarioSet{}, errors.Errorf("duplicate scenario '%s'", info.Scenario)
		}
		set.index[info.Scenario] = len(set.infos)
		set.infos = append(set.infos, info)
	}

	return set, nil
}

// Scenarios returns the scenarios in routing order.
func (s ScenarioSet) Scenarios() []Scenario {
	out := make([]Scenario, 0, len(s.infos))
	for _, info := range s.infos {
		out = append(out, info.Scenario)
	}
	return out
}

// Infos returns the presentation data in routing order.
func (s ScenarioSet) Infos() []ScenarioInfo {
	return append([]ScenarioInfo{}, s.infos...)
}

// Info returns the presentation data for the scenario.
func (s ScenarioSet) Info(sc Scenario) (ScenarioInfo, bool) {
	idx, ok := s.index[sc]
	if !ok {
		return ScenarioInfo{}, false
	}
	return s.infos[idx], true
}

// Contains reports whether the scenario name is routed.
func (s ScenarioSet) Contains(name string) bool {
	_, ok := s.index[Scenario(name)]
	return ok
}

// Groups returns each group once, in first-seen order.
func (s ScenarioSet) Groups() []ScenarioGroup {
	seen := map[ScenarioGroup]bool{}
	out := []ScenarioGroup{}
	for _, info := range s.infos {
		if !seen[info.Group] {
			seen[info.Group] = true
			out = append(out, info.Group)
		}
	}
	return out
}

// GroupScenarios returns the scenarios of the group in routing order.
func (s ScenarioSet) GroupScenarios(group ScenarioGroup) []Scenario {
	out := []Scenario{}
	for _, info := range s.infos {
		if info.Group == group {
			out = append(out, info.Scenario)
		}
	}
	return out
}

// Len returns the number of routed scenarios.
func (s ScenarioSet) Len() int { return len(s.infos) }
