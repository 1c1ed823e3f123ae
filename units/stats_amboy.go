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
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
)

const amboyStatsCollectorJobName = "amboy-stats-collector"

func init() {
	registry.AddJobType(amboyStatsCollectorJobName,
		func() amboy.Job { return makeAmboyStatsCollector() })
}

type amboyStatsCollector struct {
	job.Base `bson:"job_base" json:"job_base" yaml:"job_base"`
	env      benchboard.Environment
}

// NewLocalAmboyStatsCollector reports the status of the local queue and the
// size of the cached result store.
func NewLocalAmboyStatsCollector(env benchboard.Environment, id string) amboy.Job {
	j := makeAmboyStatsCollector()
	j.env = env
	j.SetID(fmt.Sprintf("%s-%s", amboyStatsCollectorJobName, id))
	return j
}

func makeAmboyStatsCollector() *amboyStatsCollector {
	j := &amboyStatsCollector{
		env: benchboard.GetEnvironment(),
		Base: job.Base{
			JobType: amboy.JobType{
				Name:    amboyStatsCollectorJobName,
				Version: 0,
			},
		},
	}

	j.SetDependency(dependency.NewAlways())
	return j
}

func (j *amboyStatsCollector) Run(ctx context.Context) {
	defer j.MarkComplete()

	if j.env == nil {
		j.env = benchboard.GetEnvironment()
	}

	msg := message.Fields{
		"message": "amboy local queue stats",
	}

	localQueue := j.env.GetLocalQueue()
	if localQueue == nil || !localQueue.Info().Started {
		return
	}
	msg["stats"] = localQueue.Stats(ctx)

	if store, err := model.GetResultStore(j.env); err == nil {
		msg["records"] = store.Len()
	}

	grip.Info(msg)
}
