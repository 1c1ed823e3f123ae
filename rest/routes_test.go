package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dbmodel "github.com/evergreen-ci/benchboard/model"
	"github.com/evergreen-ci/benchboard/rest/data"
	"github.com/evergreen-ci/benchboard/rest/model"
	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/prometheus/client_golang/prometheus/testutil"
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

func testMockConnector(t *testing.T) data.MockConnector {
	records := []dbmodel.MeasurementRecord{}
	for raw, base := range map[string]float64{
		"0.76.0/android/oldarch": 10,
		"0.76.0/android/newarch": 4,
		"0.75.2/android/oldarch": 20,
	} {
		key, err := dbmodel.ParseConfigurationKey(raw)
		if err != nil {
			t.Fatal(err)
		}
		records = append(records, dbmodel.MeasurementRecord{Key: key, Means: testMeans(base)})
	}

	store, err := dbmodel.NewMemoryResultStore(records...)
	if err != nil {
		t.Fatal(err)
	}

	return data.MockConnector{
		Store:    store,
		Versions: dbmodel.VersionCatalogFromStore(store),
		Benchmarks: &dbmodel.BenchmarkCatalog{
			Items: []dbmodel.BenchmarkItem{
				{
					ID:           "flashlist",
					Title:        "List rendering",
					BenchmarkURL: "https://dream-horizon-org.github.io/flashlist",
				},
			},
		},
		Revision: "abc123",
	}
}

type RouteHandlerSuite struct {
	ctx     context.Context
	sc      data.MockConnector
	metrics *serviceMetrics
	rh      map[string]gimlet.RouteHandler

	suite.Suite
}

func TestRouteHandlerSuite(t *testing.T) {
	suite.Run(t, new(RouteHandlerSuite))
}

func (s *RouteHandlerSuite) SetupTest() {
	s.ctx = context.Background()
	s.sc = testMockConnector(s.T())
	s.metrics = newServiceMetrics()
	s.rh = map[string]gimlet.RouteHandler{
		"status":         makeGetStatus(&s.sc),
		"versions":       makeGetVersions(&s.sc),
		"configurations": makeGetConfigurations(&s.sc),
		"benchmarks":     makeGetBenchmarks(&s.sc),
		"report":         makeGetReport(&s.sc, s.metrics),
		"selection":      makePostSelection(&s.sc, s.metrics),
		"landing":        makeGetSelection(&s.sc, s.metrics),
		"analysis":       makeGetAnalysis(&s.sc),
		"export":         makePostExport(&s.sc),
		"reload":         makePostReload(&s.sc),
	}
}

func (s *RouteHandlerSuite) run(name string, r *http.Request) gimlet.Responder {
	rh := s.rh[name].Factory()
	s.Require().NoError(rh.Parse(s.ctx, r))
	return rh.Run(s.ctx)
}

func (s *RouteHandlerSuite) TestStatus() {
	resp := s.run("status", httptest.NewRequest(http.MethodGet, "/status", nil))
	s.Require().Equal(http.StatusOK, resp.Status())

	status, ok := resp.Data().(*model.APIStatus)
	s.Require().True(ok)
	s.Equal("abc123", status.Revision)
	s.Equal(3, status.Records)
	s.Equal(2, status.Versions)
	s.Equal(1, status.Benchmarks)
	s.Equal("0.76.0", utility.FromStringPtr(status.Latest))
}

func (s *RouteHandlerSuite) TestVersions() {
	resp := s.run("versions", httptest.NewRequest(http.MethodGet, "/versions", nil))
	s.Require().Equal(http.StatusOK, resp.Status())

	versions, ok := resp.Data().(*model.APIVersionCatalog)
	s.Require().True(ok)
	s.Equal([]string{"0.76.0", "0.75.2"}, versions.Newest)
}

func (s *RouteHandlerSuite) TestConfigurations() {
	resp := s.run("configurations", httptest.NewRequest(http.MethodGet, "/configurations", nil))
	s.Require().Equal(http.StatusOK, resp.Status())
	all, ok := resp.Data().([]model.APIConfigurationKey)
	s.Require().True(ok)
	s.Len(all, 3)

	resp = s.run("configurations", httptest.NewRequest(http.MethodGet, "/configurations?version=0.76.0", nil))
	s.Require().Equal(http.StatusOK, resp.Status())
	filtered, ok := resp.Data().([]model.APIConfigurationKey)
	s.Require().True(ok)
	s.Len(filtered, 2)

	resp = s.run("configurations", httptest.NewRequest(http.MethodGet, "/configurations?version=0.1.0", nil))
	s.Equal(http.StatusNotFound, resp.Status())
}

func (s *RouteHandlerSuite) TestBenchmarks() {
	resp := s.run("benchmarks", httptest.NewRequest(http.MethodGet, "/benchmarks", nil))
	s.Require().Equal(http.StatusOK, resp.Status())

	benchmarks, ok := resp.Data().(*model.APIBenchmarkCatalog)
	s.Require().True(ok)
	s.Len(benchmarks.Items, 1)
	s.Equal("flashlist", utility.FromStringPtr(benchmarks.Default))
}

func (s *RouteHandlerSuite) TestReport() {
	resp := s.run("report", httptest.NewRequest(http.MethodGet, "/report?key=0.76.0/android/oldarch&key=0.76.0/android/newarch,0.76.0/ios/newarch", nil))
	s.Require().Equal(http.StatusOK, resp.Status())

	report, ok := resp.Data().(*model.APIReport)
	s.Require().True(ok)
	s.Require().Len(report.Labels, 2)
	s.Equal("0.76.0/android/oldarch", utility.FromStringPtr(report.Labels[0].Key))
	s.Equal([]float64{10, 4}, report.Series["1500View"])
	s.Require().Len(report.Notices, 1)
	s.Equal("0.76.0/ios/newarch", utility.FromStringPtr(report.Notices[0].Key))

	s.Equal(1.0, testutil.ToFloat64(s.metrics.reports.WithLabelValues("report")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.notices.WithLabelValues(utility.FromStringPtr(report.Notices[0].Kind))))
}

func (s *RouteHandlerSuite) TestReportInvalidKey() {
	resp := s.run("report", httptest.NewRequest(http.MethodGet, "/report?key=0.76.0", nil))
	s.Equal(http.StatusBadRequest, resp.Status())
	s.Equal(0.0, testutil.ToFloat64(s.metrics.reports.WithLabelValues("report")))
}

func (s *RouteHandlerSuite) TestSelection() {
	body := `{"actions": [{"type": "version", "version": "0.76.0"}, {"type": "version", "version": "0.75.2"}]}`
	resp := s.run("selection", httptest.NewRequest(http.MethodPost, "/selection", strings.NewReader(body)))
	s.Require().Equal(http.StatusOK, resp.Status())

	selection, ok := resp.Data().(*model.APISelection)
	s.Require().True(ok)
	s.Equal([]string{"0.76.0", "0.75.2"}, selection.Versions)
	s.Len(selection.Configurations, 2)
	s.True(selection.AutoGenerated)
	s.Require().NotNil(selection.Report)
	s.Len(selection.Report.Labels, 2)

	s.Equal(1.0, testutil.ToFloat64(s.metrics.reports.WithLabelValues("selection")))
}

func (s *RouteHandlerSuite) TestDefaultSelection() {
	resp := s.run("landing", httptest.NewRequest(http.MethodGet, "/selection", nil))
	s.Require().Equal(http.StatusOK, resp.Status())

	selection, ok := resp.Data().(*model.APISelection)
	s.Require().True(ok)
	s.Equal([]string{"0.76.0"}, selection.Versions)
	s.Require().Len(selection.Configurations, 2)
	s.Equal("0.76.0/android/oldarch", utility.FromStringPtr(selection.Configurations[0].Key))
	s.Equal("0.76.0/android/newarch", utility.FromStringPtr(selection.Configurations[1].Key))
	s.True(selection.AutoGenerated)
	s.Empty(selection.Notices)
	s.Require().NotNil(selection.Report)
	s.Len(selection.Report.Labels, 2)
	s.Equal([]float64{10, 4}, selection.Report.Series["1500View"])

	s.Equal(1.0, testutil.ToFloat64(s.metrics.reports.WithLabelValues("selection")))
}

func (s *RouteHandlerSuite) TestDefaultSelectionNotLoaded() {
	s.sc.Versions = nil
	resp := s.run("landing", httptest.NewRequest(http.MethodGet, "/selection", nil))
	s.Equal(http.StatusServiceUnavailable, resp.Status())
	s.Equal(0.0, testutil.ToFloat64(s.metrics.reports.WithLabelValues("selection")))
}

func (s *RouteHandlerSuite) TestSelectionFromLatest() {
	body := `{"from_latest": true, "actions": [{"type": "version", "version": "0.75.2"}]}`
	resp := s.run("selection", httptest.NewRequest(http.MethodPost, "/selection", strings.NewReader(body)))
	s.Require().Equal(http.StatusOK, resp.Status())

	selection, ok := resp.Data().(*model.APISelection)
	s.Require().True(ok)
	s.Equal([]string{"0.76.0", "0.75.2"}, selection.Versions)
	s.Len(selection.Configurations, 2)
	s.Require().NotNil(selection.Report)
	s.Len(selection.Report.Labels, 2)

	body = `{"from_latest": true, "actions": [{"type": "configuration", "version": "0.75.2", "platform_arch": "android/oldarch"}]}`
	resp = s.run("selection", httptest.NewRequest(http.MethodPost, "/selection", strings.NewReader(body)))
	s.Equal(http.StatusBadRequest, resp.Status())
}

func (s *RouteHandlerSuite) TestSelectionInvalid() {
	rh := s.rh["selection"].Factory()
	s.Error(rh.Parse(s.ctx, httptest.NewRequest(http.MethodPost, "/selection", strings.NewReader("{"))))

	body := `{"actions": [{"type": "configuration", "version": "0.76.0"}]}`
	resp := s.run("selection", httptest.NewRequest(http.MethodPost, "/selection", strings.NewReader(body)))
	s.Equal(http.StatusBadRequest, resp.Status())

	body = `{"actions": [{"type": "shuffle"}]}`
	resp = s.run("selection", httptest.NewRequest(http.MethodPost, "/selection", strings.NewReader(body)))
	s.Equal(http.StatusBadRequest, resp.Status())
}

func (s *RouteHandlerSuite) TestAnalysis() {
	resp := s.run("analysis", httptest.NewRequest(http.MethodGet, "/analysis?key=0.76.0/android/oldarch&key=0.76.0/android/newarch&scenario=1500View", nil))
	s.Require().Equal(http.StatusOK, resp.Status())

	analysis, ok := resp.Data().(*model.APIScenarioAnalysis)
	s.Require().True(ok)
	s.Require().NotNil(analysis.Analysis)
	s.Equal(1, analysis.Analysis.BestIndex)
	s.InDelta(60.0, analysis.Analysis.Improvement, 1e-9)

	resp = s.run("analysis", httptest.NewRequest(http.MethodGet, "/analysis?scenario=9000View", nil))
	s.Equal(http.StatusBadRequest, resp.Status())

	rh := s.rh["analysis"].Factory()
	s.Error(rh.Parse(s.ctx, httptest.NewRequest(http.MethodGet, "/analysis?key=0.76.0/android/oldarch", nil)))
}

func (s *RouteHandlerSuite) TestExport() {
	body := `{"keys": ["0.76.0/android/oldarch"]}`
	resp := s.run("export", httptest.NewRequest(http.MethodPost, "/export", strings.NewReader(body)))
	s.Require().Equal(http.StatusAccepted, resp.Status())

	job, ok := resp.Data().(*model.APIJob)
	s.Require().True(ok)
	s.Equal("report-export", utility.FromStringPtr(job.Type))
	s.Equal([][]string{{"0.76.0/android/oldarch"}}, s.sc.ExportedKeys)

	body = `{"keys": ["android/oldarch"]}`
	resp = s.run("export", httptest.NewRequest(http.MethodPost, "/export", strings.NewReader(body)))
	s.Equal(http.StatusBadRequest, resp.Status())
	s.Len(s.sc.ExportedKeys, 1)
}

func (s *RouteHandlerSuite) TestReload() {
	resp := s.run("reload", httptest.NewRequest(http.MethodPost, "/admin/reload", nil))
	s.Require().Equal(http.StatusAccepted, resp.Status())
	s.Equal(1, s.sc.Reloads)
}

func (s *RouteHandlerSuite) TestNotLoaded() {
	s.sc = data.MockConnector{}

	resp := s.run("report", httptest.NewRequest(http.MethodGet, "/report", nil))
	s.Equal(http.StatusServiceUnavailable, resp.Status())
	resp = s.run("versions", httptest.NewRequest(http.MethodGet, "/versions", nil))
	s.Equal(http.StatusServiceUnavailable, resp.Status())
}
