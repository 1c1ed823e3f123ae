package data

import (
	"context"

	"github.com/evergreen-ci/benchboard"
	dbmodel "github.com/evergreen-ci/benchboard/model"
	"github.com/evergreen-ci/benchboard/perf"
	"github.com/evergreen-ci/benchboard/rest/model"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
)

/////////////////////////////
// DBConnector Implementation
/////////////////////////////

func (dbc *DBConnector) store() (dbmodel.ResultStore, error) {
	store, err := dbmodel.GetResultStore(dbc.env)
	if err != nil {
		grip.Warning(message.WrapError(err, message.Fields{
			"message": "result store is not available",
		}))
		return nil, notLoaded("results")
	}
	return store, nil
}

func (dbc *DBConnector) selectionOptions() dbmodel.SelectionOptions {
	return dbmodel.SelectionOptionsFromConf(dbc.env.GetConf())
}

// BuildReport aggregates the keys against the cached result store.
func (dbc *DBConnector) BuildReport(ctx context.Context, keys []string) (*model.APIReport, error) {
	store, err := dbc.store()
	if err != nil {
		return nil, err
	}

	report, notices, err := reportFromKeys(store, dbc.selectionOptions(), keys)
	if err != nil {
		return nil, err
	}
	dbc.recordStats(report, notices)

	return exportReport(report, notices)
}

// ReplaySelection replays the actions against the cached result store.
func (dbc *DBConnector) ReplaySelection(ctx context.Context, actions []dbmodel.SelectionAction) (*model.APISelection, error) {
	store, err := dbc.store()
	if err != nil {
		return nil, err
	}

	return dbc.replay(store, nil, actions)
}

// DefaultSelection replays the actions from the landing selection of the
// cached version catalog.
func (dbc *DBConnector) DefaultSelection(ctx context.Context, actions []dbmodel.SelectionAction) (*model.APISelection, error) {
	store, err := dbc.store()
	if err != nil {
		return nil, err
	}

	catalog, err := dbmodel.GetVersionCatalog(dbc.env)
	if err != nil {
		grip.Warning(message.WrapError(err, message.Fields{
			"message": "version catalog is not available",
		}))
		return nil, notLoaded("version catalog")
	}

	return dbc.replay(store, catalog, actions)
}

func (dbc *DBConnector) replay(store dbmodel.ResultStore, catalog *dbmodel.VersionCatalog, actions []dbmodel.SelectionAction) (*model.APISelection, error) {
	res, apiSelection, err := replaySelection(store, dbc.selectionOptions(), catalog, actions)
	if err != nil {
		return nil, err
	}
	dbc.recordStats(res.Report, replayNotices(res))

	return apiSelection, nil
}

// AnalyzeScenario analyzes one scenario against the cached result store.
func (dbc *DBConnector) AnalyzeScenario(ctx context.Context, keys []string, scenario string) (*model.APIScenarioAnalysis, error) {
	store, err := dbc.store()
	if err != nil {
		return nil, err
	}

	return analyzeScenario(store, dbc.selectionOptions(), keys, scenario)
}

// replayNotices returns the selection notices followed by the report
// notices in a new slice.
func replayNotices(res *perf.ReplayResult) []dbmodel.Notice {
	notices := make([]dbmodel.Notice, 0, len(res.Notices)+len(res.ReportNotices))
	notices = append(notices, res.Notices...)
	if res.Report != nil {
		notices = append(notices, res.ReportNotices...)
	}

	return notices
}

// recordStats counts reported configurations and notices per version,
// platform and architecture. Stats are best effort.
func (dbc *DBConnector) recordStats(report *dbmodel.Report, notices []dbmodel.Notice) {
	if report != nil {
		if cache := dbc.env.GetStatsCache(benchboard.StatsCacheReports); cache != nil {
			for _, key := range report.Labels {
				grip.Debug(message.WrapError(cache.AddStat(statForKey(key)), message.Fields{
					"message": "dropped report stat",
				}))
			}
		}
	}

	cache := dbc.env.GetStatsCache(benchboard.StatsCacheNotices)
	if cache == nil {
		return
	}
	for _, notice := range notices {
		stat := benchboard.Stat{Count: 1, Version: string(notice.Kind)}
		if key, err := dbmodel.ParseConfigurationKey(notice.Key); err == nil {
			stat = statForKey(key)
		}
		grip.Debug(message.WrapError(cache.AddStat(stat), message.Fields{
			"message": "dropped notice stat",
			"kind":    notice.Kind,
		}))
	}
}

func statForKey(key dbmodel.ConfigurationKey) benchboard.Stat {
	return benchboard.Stat{
		Count:        1,
		Version:      key.Version,
		Platform:     string(key.Platform),
		Architecture: string(key.Architecture),
	}
}

///////////////////////////////
// MockConnector Implementation
///////////////////////////////

// BuildReport aggregates the keys against the mock's store.
func (mc *MockConnector) BuildReport(ctx context.Context, keys []string) (*model.APIReport, error) {
	report, notices, err := reportFromKeys(mc.Store, mc.Options, keys)
	if err != nil {
		return nil, err
	}

	return exportReport(report, notices)
}

// ReplaySelection replays the actions against the mock's store.
func (mc *MockConnector) ReplaySelection(ctx context.Context, actions []dbmodel.SelectionAction) (*model.APISelection, error) {
	_, apiSelection, err := replaySelection(mc.Store, mc.Options, nil, actions)
	return apiSelection, err
}

// DefaultSelection replays the actions from the landing selection of the
// mock's version catalog.
func (mc *MockConnector) DefaultSelection(ctx context.Context, actions []dbmodel.SelectionAction) (*model.APISelection, error) {
	if mc.Versions == nil {
		return nil, notLoaded("version catalog")
	}

	_, apiSelection, err := replaySelection(mc.Store, mc.Options, mc.Versions, actions)
	return apiSelection, err
}

// AnalyzeScenario analyzes one scenario against the mock's store.
func (mc *MockConnector) AnalyzeScenario(ctx context.Context, keys []string, scenario string) (*model.APIScenarioAnalysis, error) {
	return analyzeScenario(mc.Store, mc.Options, keys, scenario)
}
