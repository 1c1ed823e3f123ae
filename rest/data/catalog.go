package data

import (
	"context"

	"github.com/evergreen-ci/benchboard"
	dbmodel "github.com/evergreen-ci/benchboard/model"
	"github.com/evergreen-ci/benchboard/rest/model"
	"github.com/evergreen-ci/utility"
)

/////////////////////////////
// DBConnector Implementation
/////////////////////////////

// GetStatus reports the revision, the cached snapshots and the local
// queue. Snapshots that are not loaded are reported as empty.
func (dbc *DBConnector) GetStatus(ctx context.Context) (*model.APIStatus, error) {
	status := &model.APIStatus{
		Revision:     benchboard.BuildRevision,
		ResultSource: dbc.env.GetConf().ResultSource,
		Latest:       utility.ToStringPtr(""),
	}

	if store, err := dbmodel.GetResultStore(dbc.env); err == nil {
		status.Records = store.Len()
	}
	if versions, err := dbmodel.GetVersionCatalog(dbc.env); err == nil {
		status.Versions = len(versions.Versions)
		status.Latest = utility.ToStringPtr(versions.Latest())
	}
	if benchmarks, err := dbmodel.GetBenchmarkCatalog(dbc.env); err == nil {
		status.Benchmarks = len(benchmarks.Items)
	}

	if q := dbc.env.GetLocalQueue(); q != nil {
		stats := q.Stats(ctx)
		status.Queue = &model.APIQueueInfo{
			Started:   q.Info().Started,
			Running:   stats.Running,
			Pending:   stats.Pending,
			Completed: stats.Completed,
		}
	}

	return status, nil
}

// FindVersions returns the cached version catalog.
func (dbc *DBConnector) FindVersions(ctx context.Context) (*model.APIVersionCatalog, error) {
	catalog, err := dbmodel.GetVersionCatalog(dbc.env)
	if err != nil {
		return nil, notLoaded("version catalog")
	}

	return exportVersions(catalog)
}

// FindConfigurations returns the keys of the cached result store.
func (dbc *DBConnector) FindConfigurations(ctx context.Context, version string) ([]model.APIConfigurationKey, error) {
	store, err := dbc.store()
	if err != nil {
		return nil, err
	}

	return findConfigurations(store, version)
}

// FindBenchmarks returns the cached benchmark catalog.
func (dbc *DBConnector) FindBenchmarks(ctx context.Context) (*model.APIBenchmarkCatalog, error) {
	catalog, err := dbmodel.GetBenchmarkCatalog(dbc.env)
	if err != nil {
		return nil, notLoaded("benchmark catalog")
	}

	return exportBenchmarks(catalog)
}

///////////////////////////////
// MockConnector Implementation
///////////////////////////////

// GetStatus reports the mock's data. The mock has no queue.
func (mc *MockConnector) GetStatus(ctx context.Context) (*model.APIStatus, error) {
	status := &model.APIStatus{
		Revision:     mc.Revision,
		ResultSource: "mock",
		Latest:       utility.ToStringPtr(mc.Versions.Latest()),
	}
	if mc.Store != nil {
		status.Records = mc.Store.Len()
	}
	if mc.Versions != nil {
		status.Versions = len(mc.Versions.Versions)
	}
	if mc.Benchmarks != nil {
		status.Benchmarks = len(mc.Benchmarks.Items)
	}

	return status, nil
}

// FindVersions returns the mock's version catalog.
func (mc *MockConnector) FindVersions(ctx context.Context) (*model.APIVersionCatalog, error) {
	return exportVersions(mc.Versions)
}

// FindConfigurations returns the keys of the mock's store.
func (mc *MockConnector) FindConfigurations(ctx context.Context, version string) ([]model.APIConfigurationKey, error) {
	return findConfigurations(mc.Store, version)
}

// FindBenchmarks returns the mock's benchmark catalog.
func (mc *MockConnector) FindBenchmarks(ctx context.Context) (*model.APIBenchmarkCatalog, error) {
	return exportBenchmarks(mc.Benchmarks)
}
