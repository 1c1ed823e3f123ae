package units

import (
	"context"
	"fmt"

	"github.com/evergreen-ci/benchboard"
	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/dependency"
	"github.com/mongodb/amboy/job"
	"github.com/mongodb/amboy/registry"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

const statsDBCollectionSizeJobName = "stats-db-collection-size"

type statsDBCollectionSizeJob struct {
	job.Base `bson:"metadata" json:"metadata" yaml:"metadata"`
	env      benchboard.Environment
}

func init() {
	registry.AddJobType(statsDBCollectionSizeJobName,
		func() amboy.Job { return makeStatsDBCollectionSizeJob() })
}

func makeStatsDBCollectionSizeJob() *statsDBCollectionSizeJob {
	j := &statsDBCollectionSizeJob{
		Base: job.Base{
			JobType: amboy.JobType{
				Name:    statsDBCollectionSizeJobName,
				Version: 0,
			},
		},
		env: benchboard.GetEnvironment(),
	}
	j.SetDependency(dependency.NewAlways())
	return j
}

// NewStatsDBCollectionSizeJob logs the document count and storage size of
// the measurement record collection. It does nothing unless results are
// read from mongodb.
func NewStatsDBCollectionSizeJob(env benchboard.Environment, id string) amboy.Job {
	j := makeStatsDBCollectionSizeJob()
	j.SetID(fmt.Sprintf("%s.%s", statsDBCollectionSizeJobName, id))
	j.env = env
	return j
}

func (j *statsDBCollectionSizeJob) Run(ctx context.Context) {
	defer j.MarkComplete()
	if j.env == nil {
		j.env = benchboard.GetEnvironment()
	}
	if j.env == nil {
		j.AddError(errors.New("no environment configured"))
		return
	}

	conf := j.env.GetConf()
	if conf == nil || !conf.UsesMongoDB() {
		return
	}

	db, err := j.env.GetDB()
	if err != nil {
		j.AddError(errors.Wrap(err, "getting database"))
		return
	}

	var statsResult bson.M
	statsCmd := bson.D{{Key: "collStats", Value: conf.CollectionName}}
	if err = db.RunCommand(ctx, statsCmd).Decode(&statsResult); err != nil {
		j.AddError(errors.Wrapf(err, "getting stats for collection '%s'", conf.CollectionName))
		return
	}

	grip.Info(message.Fields{
		"job_id":       j.ID(),
		"message":      statsDBCollectionSizeJobName,
		"collection":   conf.CollectionName,
		"count":        statsResult["count"],
		"storage_size": statsResult["storageSize"],
		"index_size":   statsResult["totalIndexSize"],
	})
}
