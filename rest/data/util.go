package data

import (
	"fmt"
	"net/http"

	dbmodel "github.com/evergreen-ci/benchboard/model"
	"github.com/evergreen-ci/benchboard/perf"
	"github.com/evergreen-ci/benchboard/rest/model"
	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
)

func badRequest(err error) error {
	return gimlet.ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Message:    err.Error(),
	}
}

func internalError(err error) error {
	return gimlet.ErrorResponse{
		StatusCode: http.StatusInternalServerError,
		Message:    err.Error(),
	}
}

func notLoaded(what string) error {
	return gimlet.ErrorResponse{
		StatusCode: http.StatusServiceUnavailable,
		Message:    fmt.Sprintf("%s not loaded", what),
	}
}

// reportFromKeys selects the keys as if chosen by hand and aggregates them.
// Selection capacity notices come before data notices.
func reportFromKeys(store dbmodel.ResultStore, opts dbmodel.SelectionOptions, rawKeys []string) (*dbmodel.Report, []dbmodel.Notice, error) {
	if store == nil {
		return nil, nil, notLoaded("results")
	}

	keys, err := dbmodel.ParseConfigurationKeys(rawKeys)
	if err != nil {
		return nil, nil, badRequest(err)
	}

	selection, notices, err := dbmodel.SelectionFromKeys(opts, keys)
	if err != nil {
		return nil, nil, badRequest(err)
	}

	report, reportNotices := perf.BuildReport(store, selection, nil)

	return report, append(notices, reportNotices...), nil
}

func exportReport(report *dbmodel.Report, notices []dbmodel.Notice) (*model.APIReport, error) {
	apiReport := &model.APIReport{}
	if err := apiReport.Import(report); err != nil {
		return nil, internalError(errors.Wrap(err, "problem converting report"))
	}
	apiReport.Notices = model.NewAPINotices(notices)

	return apiReport, nil
}

func analyzeScenario(store dbmodel.ResultStore, opts dbmodel.SelectionOptions, rawKeys []string, scenario string) (*model.APIScenarioAnalysis, error) {
	set := dbmodel.DefaultScenarioSet()
	if !set.Contains(scenario) {
		return nil, badRequest(errors.Errorf("unrecognized scenario '%s'", scenario))
	}

	report, _, err := reportFromKeys(store, opts, rawKeys)
	if err != nil {
		return nil, err
	}

	labels := report.LabelStrings()
	values := append([]float64{}, report.Series[dbmodel.Scenario(scenario)]...)
	out := &model.APIScenarioAnalysis{
		Scenario: utility.ToStringPtr(scenario),
		Labels:   labels,
		Values:   values,
	}
	if analysis := perf.Analyze(labels, values); analysis != nil {
		out.Analysis = &model.APIAnalysis{}
		if err = out.Analysis.Import(analysis); err != nil {
			return nil, internalError(err)
		}
	}

	return out, nil
}

// replaySelection replays the actions on an empty selection, or, when a
// catalog is given, on the landing selection of its latest version.
func replaySelection(store dbmodel.ResultStore, opts dbmodel.SelectionOptions, catalog *dbmodel.VersionCatalog, actions []dbmodel.SelectionAction) (*perf.ReplayResult, *model.APISelection, error) {
	if store == nil {
		return nil, nil, notLoaded("results")
	}

	var (
		res *perf.ReplayResult
		err error
	)
	if catalog != nil {
		res, err = perf.ReplayFromLatest(store, opts, catalog, actions, nil)
	} else {
		res, err = perf.ReplaySelection(store, opts, actions, nil)
	}
	if err != nil {
		return nil, nil, badRequest(err)
	}

	apiSelection := &model.APISelection{}
	if err = apiSelection.Import(res); err != nil {
		return nil, nil, internalError(errors.Wrap(err, "problem converting selection"))
	}

	return res, apiSelection, nil
}

func findConfigurations(store dbmodel.ResultStore, version string) ([]model.APIConfigurationKey, error) {
	if store == nil {
		return nil, notLoaded("results")
	}

	keys := store.Keys()
	if version == "" {
		return model.NewAPIConfigurationKeys(keys), nil
	}

	matched := []dbmodel.ConfigurationKey{}
	for _, key := range keys {
		if key.Version == version {
			matched = append(matched, key)
		}
	}
	if len(matched) == 0 {
		return nil, gimlet.ErrorResponse{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("no configurations found for version '%s'", version),
		}
	}

	return model.NewAPIConfigurationKeys(matched), nil
}

func exportVersions(catalog *dbmodel.VersionCatalog) (*model.APIVersionCatalog, error) {
	if catalog == nil {
		return nil, notLoaded("version catalog")
	}

	apiCatalog := &model.APIVersionCatalog{}
	if err := apiCatalog.Import(catalog); err != nil {
		return nil, internalError(err)
	}

	return apiCatalog, nil
}

func exportBenchmarks(catalog *dbmodel.BenchmarkCatalog) (*model.APIBenchmarkCatalog, error) {
	apiCatalog := &model.APIBenchmarkCatalog{}
	if err := apiCatalog.Import(catalog); err != nil {
		return nil, internalError(err)
	}

	return apiCatalog, nil
}
