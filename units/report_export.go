package units

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/evergreen-ci/benchboard"
	"github.com/evergreen-ci/benchboard/model"
	"github.com/evergreen-ci/benchboard/perf"
	restmodel "github.com/evergreen-ci/benchboard/rest/model"
	"github.com/google/uuid"
	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/dependency"
	"github.com/mongodb/amboy/job"
	"github.com/mongodb/amboy/registry"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

const reportExportJobName = "report-export"

func init() {
	registry.AddJobType(reportExportJobName, func() amboy.Job { return makeReportExportJob() })
}

type reportExportJob struct {
	Keys     []string `bson:"keys" json:"keys" yaml:"keys"`
	job.Base `bson:"metadata" json:"metadata" yaml:"metadata"`

	env benchboard.Environment
}

func makeReportExportJob() *reportExportJob {
	j := &reportExportJob{
		env: benchboard.GetEnvironment(),
		Base: job.Base{
			JobType: amboy.JobType{
				Name:    reportExportJobName,
				Version: 0,
			},
		},
	}
	j.SetDependency(dependency.NewAlways())
	return j
}

// NewReportExportJob returns a job that builds the report of the given
// configuration keys and writes it, as JSON, to the export bucket under
// "<job id>.json".
func NewReportExportJob(env benchboard.Environment, keys []string) amboy.Job {
	j := makeReportExportJob()
	j.env = env
	j.Keys = keys
	j.SetID(fmt.Sprintf("%s.%s", reportExportJobName, uuid.New().String()))
	return j
}

// ExportFileName returns the name of the object an export job writes.
func ExportFileName(jobID string) string { return jobID + ".json" }

func (j *reportExportJob) Run(ctx context.Context) {
	defer j.MarkComplete()

	if j.env == nil {
		j.env = benchboard.GetEnvironment()
	}

	keys, err := model.ParseConfigurationKeys(j.Keys)
	if err != nil {
		j.AddError(errors.Wrap(err, "invalid configuration keys"))
		return
	}

	store, err := model.GetResultStore(j.env)
	if err != nil {
		j.AddError(errors.Wrap(err, "problem getting result store"))
		return
	}

	conf := j.env.GetConf()
	selection, notices, err := model.SelectionFromKeys(model.SelectionOptionsFromConf(conf), keys)
	if err != nil {
		j.AddError(errors.WithStack(err))
		return
	}
	report, reportNotices := perf.BuildReport(store, selection, nil)
	notices = append(notices, reportNotices...)
	model.LogNotices(notices, message.Fields{"job": j.ID()})

	apiReport := &restmodel.APIReport{}
	if err = apiReport.Import(report); err != nil {
		j.AddError(errors.Wrap(err, "problem converting report"))
		return
	}
	apiReport.Notices = restmodel.NewAPINotices(notices)

	payload, err := json.MarshalIndent(apiReport, "", "  ")
	if err != nil {
		j.AddError(errors.Wrap(err, "problem encoding report"))
		return
	}

	loc, err := model.ExportLocationFromConf(conf)
	if err != nil {
		j.AddError(errors.WithStack(err))
		return
	}
	bucket, err := loc.Open(ctx, j.env)
	if err != nil {
		j.AddError(errors.Wrap(err, "problem opening export bucket"))
		return
	}

	name := ExportFileName(j.ID())
	if err = bucket.Put(ctx, name, bytes.NewReader(payload)); err != nil {
		j.AddError(errors.Wrapf(err, "problem writing export '%s'", name))
		return
	}

	grip.Info(message.Fields{
		"message": "exported report",
		"job":     j.ID(),
		"bucket":  loc.Bucket,
		"prefix":  loc.Prefix,
		"file":    name,
		"url":     loc.Type.GetDownloadURL(loc.Bucket, loc.Prefix, name),
		"labels":  len(report.Labels),
		"notices": len(notices),
	})
}
