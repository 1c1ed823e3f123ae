package data

import (
	"github.com/evergreen-ci/benchboard"
	dbmodel "github.com/evergreen-ci/benchboard/model"
)

// DBConnector is a struct that implements all of the methods which connect to
// the service layer of benchboard. It serves the snapshots cached in the
// environment and schedules jobs on the environment's local queue.
type DBConnector struct {
	env benchboard.Environment
}

// CreateDBConnector returns a Connector backed by the environment.
func CreateDBConnector(env benchboard.Environment) Connector {
	return &DBConnector{
		env: env,
	}
}

// MockConnector serves fixed data and records the jobs it is asked to
// schedule. It is used to test the route handlers.
type MockConnector struct {
	Store      dbmodel.ResultStore
	Versions   *dbmodel.VersionCatalog
	Benchmarks *dbmodel.BenchmarkCatalog
	Options    dbmodel.SelectionOptions
	Revision   string

	// ExportedKeys records the keys of every scheduled export.
	ExportedKeys [][]string
	Reloads      int
}
