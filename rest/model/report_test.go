package model

import (
	"testing"

	dbmodel "github.com/evergreen-ci/benchboard/model"
	"github.com/evergreen-ci/benchboard/perf"
	"github.com/evergreen-ci/utility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport(t *testing.T, bases ...float64) *dbmodel.Report {
	report := dbmodel.NewReport(dbmodel.DefaultScenarioSet())
	archs := []dbmodel.Architecture{dbmodel.ArchitectureOld, dbmodel.ArchitectureNew}
	for idx, base := range bases {
		key := dbmodel.ConfigurationKey{Version: "0.76.0", Platform: dbmodel.PlatformAndroid, Architecture: archs[idx%2]}
		if idx >= 2 {
			key.Platform = dbmodel.PlatformIOS
		}
		values := map[dbmodel.Scenario]float64{}
		for offset, sc := range dbmodel.DefaultScenarioSet().Scenarios() {
			values[sc] = base + float64(offset)
		}
		require.NoError(t, report.AddColumn(key, values))
	}
	return report
}

func TestAPIReport(t *testing.T) {
	t.Run("Import", func(t *testing.T) {
		apiReport := APIReport{}
		require.NoError(t, apiReport.Import(testReport(t, 10, 4)))

		require.Len(t, apiReport.Labels, 2)
		assert.Equal(t, "0.76.0/android/oldarch", utility.FromStringPtr(apiReport.Labels[0].Key))
		assert.Equal(t, "0.76.0 AN", utility.FromStringPtr(apiReport.Labels[1].ShortLabel))
		assert.Equal(t, "0.76.0", utility.FromStringPtr(apiReport.Labels[0].Version))
		assert.Equal(t, "newarch", utility.FromStringPtr(apiReport.Labels[1].Architecture))
		assert.Equal(t, ChartColor(0), utility.FromStringPtr(apiReport.Labels[0].Color))
		assert.Equal(t, ChartColor(1), utility.FromStringPtr(apiReport.Labels[1].Color))

		assert.Len(t, apiReport.Series, 6)
		assert.Equal(t, []float64{10, 4}, apiReport.Series["1500View"])
		assert.Equal(t, []float64{15, 9}, apiReport.Series["5000Image"])

		require.Len(t, apiReport.Scenarios, 6)
		first := apiReport.Scenarios[0]
		assert.Equal(t, "1500View", utility.FromStringPtr(first.Scenario))
		assert.Equal(t, "1500", utility.FromStringPtr(first.Group))
		assert.Equal(t, "1500 Views", utility.FromStringPtr(first.Title))
		require.NotNil(t, first.Analysis)
		assert.Equal(t, 1, first.Analysis.BestIndex)
		assert.Equal(t, "0.76.0/android/newarch", utility.FromStringPtr(first.Analysis.BestLabel))
		assert.Equal(t, 0, first.Analysis.WorstIndex)
		assert.InDelta(t, 60.0, first.Analysis.Improvement, 1e-9)
		assert.InDelta(t, 7.0, first.Analysis.AvgValue, 1e-9)
		// the 1500 group peaks at 1500Image 12
		assert.Equal(t, 15.0, first.ScaleMax)

		require.Len(t, apiReport.Groups, 2)
		assert.Equal(t, "1500", utility.FromStringPtr(apiReport.Groups[0].Group))
		require.NotNil(t, apiReport.Groups[0].Winner)
		assert.Equal(t, 1, apiReport.Groups[0].Winner.Index)
		assert.InDelta(t, 5.0, apiReport.Groups[0].Winner.AvgTime, 1e-9)

		assert.NotNil(t, apiReport.Notices)
		assert.Empty(t, apiReport.Notices)
	})
	t.Run("ImportEmpty", func(t *testing.T) {
		apiReport := APIReport{}
		require.NoError(t, apiReport.Import(testReport(t)))
		assert.Empty(t, apiReport.Labels)
		assert.Len(t, apiReport.Series, 6)
		for _, sc := range apiReport.Scenarios {
			assert.Nil(t, sc.Analysis)
			assert.Empty(t, sc.Values)
			assert.Equal(t, 2.0, sc.ScaleMax)
		}
		for _, group := range apiReport.Groups {
			assert.Nil(t, group.Winner)
		}
	})
	t.Run("ImportMisaligned", func(t *testing.T) {
		report := testReport(t, 1)
		report.Series[dbmodel.Scenario1500View] = nil
		apiReport := APIReport{}
		assert.Error(t, apiReport.Import(report))
	})
	t.Run("ImportWrongType", func(t *testing.T) {
		apiReport := APIReport{}
		assert.Error(t, apiReport.Import(dbmodel.Report{}))
		var nilReport *dbmodel.Report
		assert.Error(t, apiReport.Import(nilReport))
	})
	t.Run("ColorsWrap", func(t *testing.T) {
		assert.Equal(t, ChartColor(0), ChartColor(len(chartColors)))
		assert.NotEqual(t, ChartColor(0), ChartColor(1))
	})
}

func TestAPIAnalysis(t *testing.T) {
	analysis := perf.Analyze([]string{"a", "b", "c"}, []float64{2, 1, 4})
	require.NotNil(t, analysis)

	apiAnalysis := APIAnalysis{}
	require.NoError(t, apiAnalysis.Import(analysis))
	assert.Equal(t, "b", utility.FromStringPtr(apiAnalysis.BestLabel))
	assert.Equal(t, "c", utility.FromStringPtr(apiAnalysis.WorstLabel))
	assert.InDelta(t, 75.0, apiAnalysis.Improvement, 1e-9)

	out, err := apiAnalysis.Export()
	require.NoError(t, err)
	assert.Equal(t, *analysis, out)

	var nilAnalysis *perf.PerformanceAnalysis
	assert.Error(t, apiAnalysis.Import(nilAnalysis))
	assert.Error(t, apiAnalysis.Import(3.0))
}
