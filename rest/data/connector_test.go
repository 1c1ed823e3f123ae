package data

import (
	"context"
	"net/http"
	"testing"

	"github.com/evergreen-ci/benchboard"
	dbmodel "github.com/evergreen-ci/benchboard/model"
	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/pail"
	"github.com/evergreen-ci/utility"
	"github.com/stretchr/testify/suite"
)

func testMeans(base float64) map[string]float64 {
	return map[string]float64{
		"1500View":  base,
		"1500Text":  base + 1,
		"1500Image": base + 2,
		"5000View":  base + 3,
		"5000Text":  base + 4,
		"5000Image": base + 5,
	}
}

type connectorSuite struct {
	ctx    context.Context
	cancel context.CancelFunc
	sc     Connector
	env    benchboard.Environment
	suite.Suite
}

func TestConnectorSuiteDB(t *testing.T) {
	s := new(connectorSuite)
	s.setup(t)
	s.sc = CreateDBConnector(s.env)
	suite.Run(t, s)
}

func TestConnectorSuiteMock(t *testing.T) {
	s := new(connectorSuite)
	s.setup(t)

	store, err := dbmodel.GetResultStore(s.env)
	if err != nil {
		t.Fatal(err)
	}
	versions, err := dbmodel.GetVersionCatalog(s.env)
	if err != nil {
		t.Fatal(err)
	}
	benchmarks, err := dbmodel.GetBenchmarkCatalog(s.env)
	if err != nil {
		t.Fatal(err)
	}
	s.sc = &MockConnector{
		Store:      store,
		Versions:   versions,
		Benchmarks: benchmarks,
		Options:    dbmodel.SelectionOptions{MaxConfigurations: 3},
	}
	suite.Run(t, s)
}

func (s *connectorSuite) setup(t *testing.T) {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	dir := t.TempDir()
	bucket, err := pail.NewLocalBucket(pail.LocalOptions{Path: dir})
	if err != nil {
		t.Fatal(err)
	}
	for raw, base := range map[string]float64{
		"0.75.2/android/oldarch": 20,
		"0.76.0/android/oldarch": 10,
		"0.76.0/android/newarch": 4,
		"0.76.0/ios/newarch":     6,
	} {
		key, err := dbmodel.ParseConfigurationKey(raw)
		if err != nil {
			t.Fatal(err)
		}
		if err = dbmodel.SaveRecordToBucket(s.ctx, bucket, dbmodel.MeasurementRecord{Key: key, Means: testMeans(base)}); err != nil {
			t.Fatal(err)
		}
	}

	s.env, err = benchboard.NewEnvironment(s.ctx, "data-test", &benchboard.Configuration{
		ResultsPath:       dir,
		ExportPath:        t.TempDir(),
		NumWorkers:        1,
		MaxConfigurations: 3,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err = dbmodel.SetupEnvironmentData(s.ctx, s.env); err != nil {
		t.Fatal(err)
	}
}

func (s *connectorSuite) TearDownSuite() {
	s.NoError(s.env.Close(s.ctx))
	s.cancel()
}

func (s *connectorSuite) requireStatus(err error, status int) {
	s.Require().Error(err)
	resp, ok := err.(gimlet.ErrorResponse)
	s.Require().True(ok, "%T", err)
	s.Equal(status, resp.StatusCode)
}

func (s *connectorSuite) TestGetStatus() {
	status, err := s.sc.GetStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal(4, status.Records)
	s.Equal(2, status.Versions)
	s.Equal("0.76.0", utility.FromStringPtr(status.Latest))
}

func (s *connectorSuite) TestFindVersions() {
	versions, err := s.sc.FindVersions(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"0.75.2", "0.76.0"}, versions.Versions)
	s.Equal([]string{"0.76.0", "0.75.2"}, versions.Newest)
	s.Equal("0.76.0", utility.FromStringPtr(versions.Latest))
}

func (s *connectorSuite) TestFindConfigurations() {
	all, err := s.sc.FindConfigurations(s.ctx, "")
	s.Require().NoError(err)
	s.Require().Len(all, 4)
	s.Equal("0.75.2/android/oldarch", utility.FromStringPtr(all[0].Key))

	filtered, err := s.sc.FindConfigurations(s.ctx, "0.76.0")
	s.Require().NoError(err)
	s.Len(filtered, 3)
	for _, key := range filtered {
		s.Equal("0.76.0", utility.FromStringPtr(key.Version))
	}

	_, err = s.sc.FindConfigurations(s.ctx, "0.60.0")
	s.requireStatus(err, http.StatusNotFound)
}

func (s *connectorSuite) TestFindBenchmarks() {
	benchmarks, err := s.sc.FindBenchmarks(s.ctx)
	s.Require().NoError(err)
	s.NotNil(benchmarks.Items)
	s.Empty(benchmarks.Items)
	s.Nil(benchmarks.Default)
}

func (s *connectorSuite) TestBuildReport() {
	report, err := s.sc.BuildReport(s.ctx, []string{"0.76.0/android/newarch", "0.76.0/ios/oldarch", "0.75.2/android/oldarch"})
	s.Require().NoError(err)
	s.Require().Len(report.Labels, 2)
	s.Equal("0.76.0/android/newarch", utility.FromStringPtr(report.Labels[0].Key))
	s.Equal("0.75.2/android/oldarch", utility.FromStringPtr(report.Labels[1].Key))
	s.Equal([]float64{4, 20}, report.Series["1500View"])
	s.Require().Len(report.Notices, 1)
	s.Equal("0.76.0/ios/oldarch", utility.FromStringPtr(report.Notices[0].Key))
}

func (s *connectorSuite) TestBuildReportOverCapacity() {
	report, err := s.sc.BuildReport(s.ctx, []string{
		"0.76.0/android/oldarch",
		"0.76.0/android/newarch",
		"0.76.0/ios/newarch",
		"0.75.2/android/oldarch",
	})
	s.Require().NoError(err)
	s.Len(report.Labels, 3)
	s.Require().Len(report.Notices, 1)
	s.Equal("max-configurations", utility.FromStringPtr(report.Notices[0].Kind))
	s.Equal("maximum 3 configurations can be selected", utility.FromStringPtr(report.Notices[0].Message))
}

func (s *connectorSuite) TestBuildReportInvalidKey() {
	_, err := s.sc.BuildReport(s.ctx, []string{"0.76.0/android"})
	s.requireStatus(err, http.StatusBadRequest)
}

func (s *connectorSuite) TestBuildEmptyReport() {
	report, err := s.sc.BuildReport(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(report.Labels)
	s.Len(report.Series, 6)
	s.Empty(report.Notices)
}

func (s *connectorSuite) TestReplaySelection() {
	selection, err := s.sc.ReplaySelection(s.ctx, []dbmodel.SelectionAction{
		{Type: dbmodel.SelectionActionVersion, Version: "0.76.0"},
		{Type: dbmodel.SelectionActionConfiguration, Version: "0.76.0", PlatformArch: "ios/newarch"},
		{Type: dbmodel.SelectionActionConfiguration, Version: "0.76.0", PlatformArch: "ios/oldarch"},
		{Type: dbmodel.SelectionActionGenerate},
	})
	s.Require().NoError(err)
	s.Equal([]string{"0.76.0"}, selection.Versions)
	s.Len(selection.Configurations, 3)
	s.Require().Len(selection.Notices, 1)
	s.Equal("max-configurations", utility.FromStringPtr(selection.Notices[0].Kind))
	s.Require().NotNil(selection.Report)
	s.Len(selection.Report.Labels, 3)
	s.Empty(selection.Report.Notices)
}

func (s *connectorSuite) TestDefaultSelection() {
	selection, err := s.sc.DefaultSelection(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal([]string{"0.76.0"}, selection.Versions)
	s.Require().Len(selection.Configurations, 2)
	s.Equal("0.76.0/android/oldarch", utility.FromStringPtr(selection.Configurations[0].Key))
	s.Equal("0.76.0/android/newarch", utility.FromStringPtr(selection.Configurations[1].Key))
	s.True(selection.AutoGenerated)
	s.Empty(selection.Notices)
	s.Require().NotNil(selection.Report)
	s.Require().Len(selection.Report.Labels, 2)
	s.Equal([]float64{10, 4}, selection.Report.Series["1500View"])
	s.Empty(selection.Report.Notices)

	selection, err = s.sc.DefaultSelection(s.ctx, []dbmodel.SelectionAction{
		{Type: dbmodel.SelectionActionConfiguration, Version: "0.76.0", PlatformArch: "ios/newarch"},
		{Type: dbmodel.SelectionActionConfiguration, Version: "0.76.0", PlatformArch: "ios/oldarch"},
		{Type: dbmodel.SelectionActionGenerate},
	})
	s.Require().NoError(err)
	s.Len(selection.Configurations, 3)
	s.Require().Len(selection.Notices, 1)
	s.Equal("max-configurations", utility.FromStringPtr(selection.Notices[0].Kind))
	s.Require().NotNil(selection.Report)
	s.Len(selection.Report.Labels, 3)

	_, err = s.sc.DefaultSelection(s.ctx, []dbmodel.SelectionAction{
		{Type: dbmodel.SelectionActionConfiguration, Version: "0.75.2", PlatformArch: "ios/newarch"},
	})
	s.requireStatus(err, http.StatusBadRequest)
}

func (s *connectorSuite) TestReplaySelectionInvalid() {
	_, err := s.sc.ReplaySelection(s.ctx, []dbmodel.SelectionAction{
		{Type: dbmodel.SelectionActionConfiguration, Version: "0.76.0", PlatformArch: "ios/newarch"},
	})
	s.requireStatus(err, http.StatusBadRequest)
}

func (s *connectorSuite) TestAnalyzeScenario() {
	analysis, err := s.sc.AnalyzeScenario(s.ctx, []string{"0.76.0/android/oldarch", "0.76.0/android/newarch"}, "1500View")
	s.Require().NoError(err)
	s.Equal("1500View", utility.FromStringPtr(analysis.Scenario))
	s.Equal([]string{"0.76.0/android/oldarch", "0.76.0/android/newarch"}, analysis.Labels)
	s.Equal([]float64{10, 4}, analysis.Values)
	s.Require().NotNil(analysis.Analysis)
	s.Equal(1, analysis.Analysis.BestIndex)
	s.InDelta(60.0, analysis.Analysis.Improvement, 1e-9)

	empty, err := s.sc.AnalyzeScenario(s.ctx, nil, "5000Image")
	s.Require().NoError(err)
	s.Nil(empty.Analysis)
	s.Empty(empty.Values)

	_, err = s.sc.AnalyzeScenario(s.ctx, nil, "9000View")
	s.requireStatus(err, http.StatusBadRequest)
}

func (s *connectorSuite) TestScheduleReportExport() {
	job, err := s.sc.ScheduleReportExport(s.ctx, []string{"0.76.0/android/oldarch"})
	s.Require().NoError(err)
	s.NotEmpty(utility.FromStringPtr(job.ID))
	s.Equal("report-export", utility.FromStringPtr(job.Type))

	_, err = s.sc.ScheduleReportExport(s.ctx, []string{"bogus"})
	s.requireStatus(err, http.StatusBadRequest)
}

func (s *connectorSuite) TestScheduleReload() {
	first, err := s.sc.ScheduleReload(s.ctx)
	s.Require().NoError(err)
	s.Equal("reload-results", utility.FromStringPtr(first.Type))
	s.NotEmpty(utility.FromStringPtr(first.ID))
}

func TestConnectorWithoutData(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	env, err := benchboard.NewEnvironment(ctx, "data-test-empty", &benchboard.Configuration{
		ResultsPath: t.TempDir(),
		NumWorkers:  1,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = env.Close(ctx) }()

	for name, sc := range map[string]Connector{
		"DB":   CreateDBConnector(env),
		"Mock": &MockConnector{},
	} {
		t.Run(name, func(t *testing.T) {
			s := &connectorSuite{ctx: ctx}
			s.SetT(t)

			_, err := sc.BuildReport(ctx, nil)
			s.requireStatus(err, http.StatusServiceUnavailable)
			_, err = sc.FindVersions(ctx)
			s.requireStatus(err, http.StatusServiceUnavailable)
			_, err = sc.FindConfigurations(ctx, "")
			s.requireStatus(err, http.StatusServiceUnavailable)
			_, err = sc.ReplaySelection(ctx, nil)
			s.requireStatus(err, http.StatusServiceUnavailable)
			_, err = sc.DefaultSelection(ctx, nil)
			s.requireStatus(err, http.StatusServiceUnavailable)

			status, err := sc.GetStatus(ctx)
			s.Require().NoError(err)
			s.Equal(0, status.Records)
		})
	}
}
