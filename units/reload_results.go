package units

import (
	"context"
	"fmt"

	"github.com/evergreen-ci/benchboard"
	"github.com/evergreen-ci/benchboard/model"
	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/dependency"
	"github.com/mongodb/amboy/job"
	"github.com/mongodb/amboy/registry"
	"github.com/pkg/errors"
)

const reloadResultsJobName = "reload-results"

func init() {
	registry.AddJobType(reloadResultsJobName, func() amboy.Job { return makeReloadResultsJob() })
}

type reloadResultsJob struct {
	job.Base `bson:"metadata" json:"metadata" yaml:"metadata"`

	env benchboard.Environment
}

func makeReloadResultsJob() *reloadResultsJob {
	j := &reloadResultsJob{
		env: benchboard.GetEnvironment(),
		Base: job.Base{
			JobType: amboy.JobType{
				Name:    reloadResultsJobName,
				Version: 0,
			},
		},
	}
	j.SetDependency(dependency.NewAlways())
	return j
}

// NewReloadResultsJob reloads the measurement records from the configured
// source and swaps the cached result store. Reports already being built
// keep the snapshot they started with.
func NewReloadResultsJob(env benchboard.Environment, id string) amboy.Job {
	j := makeReloadResultsJob()
	j.env = env
	j.SetID(fmt.Sprintf("%s.%s", reloadResultsJobName, id))
	return j
}

func (j *reloadResultsJob) Run(ctx context.Context) {
	defer j.MarkComplete()

	if j.env == nil {
		j.env = benchboard.GetEnvironment()
	}

	j.AddError(errors.Wrap(model.ReloadResultStore(ctx, j.env), "problem reloading results"))
}
