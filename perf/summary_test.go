package perf

import (
	"testing"

	"github.com/evergreen-ci/benchboard/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleMax(t *testing.T) {
	k1 := testKey("v1", "android/oldarch")
	k2 := testKey("v1", "android/newarch")

	t.Run("Empty", func(t *testing.T) {
		report := model.NewReport(model.DefaultScenarioSet())
		assert.Equal(t, 2.0, ScaleMax(report, model.ScenarioGroup1500))
	})
	t.Run("PerGroup", func(t *testing.T) {
		report, _ := DefaultAggregator().Aggregate(testStore(t, testRecord(k1, 10), testRecord(k2, 0.1)), []model.ConfigurationKey{k1, k2})
		// 1500 max is 12, 5000 max is 15
		assert.Equal(t, 15.0, ScaleMax(report, model.ScenarioGroup1500))
		assert.Equal(t, 18.0, ScaleMax(report, model.ScenarioGroup5000))
	})
	t.Run("SmallValuesUseFloor", func(t *testing.T) {
		set, err := model.NewScenarioSet(model.ScenarioInfo{Scenario: "a", Group: "g"})
		require.NoError(t, err)
		report := model.NewReport(set)
		require.NoError(t, report.AddColumn(k1, map[model.Scenario]float64{"a": 0.3}))
		assert.Equal(t, 2.0, ScaleMax(report, "g"))
	})
}

func TestOverallWinner(t *testing.T) {
	k1 := testKey("v1", "android/oldarch")
	k2 := testKey("v1", "android/newarch")
	k3 := testKey("v1", "ios/newarch")

	t.Run("Empty", func(t *testing.T) {
		assert.Nil(t, OverallWinner(model.NewReport(model.DefaultScenarioSet()), model.ScenarioGroup1500))
	})
	t.Run("UnknownGroup", func(t *testing.T) {
		report, _ := DefaultAggregator().Aggregate(testStore(t, testRecord(k1, 1)), []model.ConfigurationKey{k1})
		assert.Nil(t, OverallWinner(report, "10000"))
	})
	t.Run("LowestMeanWins", func(t *testing.T) {
		report, _ := DefaultAggregator().Aggregate(
			testStore(t, testRecord(k1, 5), testRecord(k2, 2), testRecord(k3, 2)),
			[]model.ConfigurationKey{k1, k2, k3})

		w := OverallWinner(report, model.ScenarioGroup1500)
		require.NotNil(t, w)
		assert.Equal(t, 1, w.Index)
		assert.Equal(t, k2.String(), w.Label)
		assert.Equal(t, 3.0, w.AvgTime)

		w = OverallWinner(report, model.ScenarioGroup5000)
		require.NotNil(t, w)
		assert.Equal(t, 1, w.Index)
		assert.Equal(t, 6.0, w.AvgTime)
	})
}

func TestSummarize(t *testing.T) {
	k1 := testKey("v1", "android/oldarch")
	k2 := testKey("v1", "android/newarch")

	t.Run("Populated", func(t *testing.T) {
		report, _ := DefaultAggregator().Aggregate(testStore(t, testRecord(k1, 4), testRecord(k2, 2)), []model.ConfigurationKey{k1, k2})
		summary := Summarize(report)

		require.Len(t, summary.Scenarios, 6)
		require.Len(t, summary.Groups, 2)

		first := summary.Scenarios[0]
		assert.Equal(t, model.Scenario1500View, first.Info.Scenario)
		assert.Equal(t, "1500 Views", first.Info.Title)
		assert.Equal(t, []float64{4, 2}, first.Values)
		require.NotNil(t, first.Analysis)
		assert.Equal(t, 1, first.Analysis.BestIndex)
		assert.Equal(t, k2.String(), first.Analysis.BestLabel)
		assert.Equal(t, 50.0, first.Analysis.Improvement)
		assert.Equal(t, summary.Groups[0].ScaleMax, first.ScaleMax)

		assert.Equal(t, model.ScenarioGroup1500, summary.Groups[0].Group)
		require.NotNil(t, summary.Groups[0].Winner)
		assert.Equal(t, 1, summary.Groups[0].Winner.Index)
	})
	t.Run("Empty", func(t *testing.T) {
		summary := Summarize(model.NewReport(model.DefaultScenarioSet()))
		require.Len(t, summary.Scenarios, 6)
		for _, sc := range summary.Scenarios {
			assert.Nil(t, sc.Analysis)
			assert.Empty(t, sc.Values)
		}
		for _, g := range summary.Groups {
			assert.Nil(t, g.Winner)
			assert.Equal(t, 2.0, g.ScaleMax)
		}
	})
	t.Run("ValuesAreCopied", func(t *testing.T) {
		report, _ := DefaultAggregator().Aggregate(testStore(t, testRecord(k1, 4)), []model.ConfigurationKey{k1})
		summary := Summarize(report)
		summary.Scenarios[0].Values[0] = 100
		assert.Equal(t, 4.0, report.Series[model.Scenario1500View][0])
	})
}
