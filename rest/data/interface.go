package data

import (
	"context"

	dbmodel "github.com/evergreen-ci/benchboard/model"
	"github.com/evergreen-ci/benchboard/rest/model"
)

// Connector abstracts the link between benchboard's service and API layers,
// allowing for changes in the service architecture without forcing changes
// to the API.
type Connector interface {
	/////////
	// Status
	/////////
	// GetStatus returns the revision and the size of the data being
	// served.
	GetStatus(context.Context) (*model.APIStatus, error)

	///////////
	// Catalogs
	///////////
	// FindVersions returns the selectable versions.
	FindVersions(context.Context) (*model.APIVersionCatalog, error)
	// FindConfigurations returns every configuration with results,
	// optionally restricted to one version.
	FindConfigurations(context.Context, string) ([]model.APIConfigurationKey, error)
	// FindBenchmarks returns the other benchmarks catalog.
	FindBenchmarks(context.Context) (*model.APIBenchmarkCatalog, error)

	//////////
	// Reports
	//////////
	// BuildReport aggregates the given configuration keys, in order, into
	// a report with its summaries and notices.
	BuildReport(context.Context, []string) (*model.APIReport, error)
	// ReplaySelection applies the actions to a fresh selection and
	// returns the final selection and, if any action requested one, the
	// report.
	ReplaySelection(context.Context, []dbmodel.SelectionAction) (*model.APISelection, error)
	// DefaultSelection is ReplaySelection starting from the landing
	// selection: the latest version with its default keys and the
	// automatic report.
	DefaultSelection(context.Context, []dbmodel.SelectionAction) (*model.APISelection, error)
	// AnalyzeScenario analyzes one scenario over the given configuration
	// keys.
	AnalyzeScenario(context.Context, []string, string) (*model.APIScenarioAnalysis, error)

	///////
	// Jobs
	///////
	// ScheduleReportExport enqueues a job writing the report of the given
	// keys to the export bucket.
	ScheduleReportExport(context.Context, []string) (*model.APIJob, error)
	// ScheduleReload enqueues a job reloading the results from their
	// source.
	ScheduleReload(context.Context) (*model.APIJob, error)
}
