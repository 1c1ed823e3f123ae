package data

import (
	"context"
	"fmt"
	"net/http"

	dbmodel "github.com/evergreen-ci/benchboard/model"
	"github.com/evergreen-ci/benchboard/rest/model"
	"github.com/evergreen-ci/benchboard/units"
	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/amboy"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

const tsFormat = "2006-01-02.15-04-05"

/////////////////////////////
// DBConnector Implementation
/////////////////////////////

// ScheduleReportExport validates the keys and enqueues an export job.
func (dbc *DBConnector) ScheduleReportExport(ctx context.Context, keys []string) (*model.APIJob, error) {
	if _, err := dbmodel.ParseConfigurationKeys(keys); err != nil {
		return nil, badRequest(err)
	}

	return dbc.enqueue(ctx, units.NewReportExportJob(dbc.env, keys))
}

// ScheduleReload enqueues a reload of the result store. Reloads requested
// within the same minute share a job.
func (dbc *DBConnector) ScheduleReload(ctx context.Context) (*model.APIJob, error) {
	ts := utility.RoundPartOfMinute(0).Format(tsFormat)
	return dbc.enqueue(ctx, units.NewReloadResultsJob(dbc.env, ts))
}

func (dbc *DBConnector) enqueue(ctx context.Context, j amboy.Job) (*model.APIJob, error) {
	q := dbc.env.GetLocalQueue()
	if q == nil {
		return nil, gimlet.ErrorResponse{
			StatusCode: http.StatusServiceUnavailable,
			Message:    "no queue available",
		}
	}

	if err := q.Put(ctx, j); err != nil && !amboy.IsDuplicateJobError(err) {
		err = errors.Wrapf(err, "problem enqueueing job '%s'", j.ID())
		grip.Error(message.WrapError(err, message.Fields{
			"job":  j.ID(),
			"type": j.Type().Name,
		}))
		return nil, internalError(err)
	}

	return &model.APIJob{
		ID:   utility.ToStringPtr(j.ID()),
		Type: utility.ToStringPtr(j.Type().Name),
	}, nil
}

///////////////////////////////
// MockConnector Implementation
///////////////////////////////

// ScheduleReportExport validates the keys and records them.
func (mc *MockConnector) ScheduleReportExport(ctx context.Context, keys []string) (*model.APIJob, error) {
	if _, err := dbmodel.ParseConfigurationKeys(keys); err != nil {
		return nil, badRequest(err)
	}

	mc.ExportedKeys = append(mc.ExportedKeys, keys)

	return &model.APIJob{
		ID:   utility.ToStringPtr(fmt.Sprintf("report-export.mock-%d", len(mc.ExportedKeys))),
		Type: utility.ToStringPtr("report-export"),
	}, nil
}

// ScheduleReload counts the request.
func (mc *MockConnector) ScheduleReload(ctx context.Context) (*model.APIJob, error) {
	mc.Reloads++

	return &model.APIJob{
		ID:   utility.ToStringPtr(fmt.Sprintf("reload-results.mock-%d", mc.Reloads)),
		Type: utility.ToStringPtr("reload-results"),
	}, nil
}
