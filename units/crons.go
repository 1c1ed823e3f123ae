package units

import (
	"context"
	"time"

	"github.com/evergreen-ci/benchboard"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/amboy"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

const tsFormat = "2006-01-02.15-04-05"

// StartCrons schedules the periodic jobs on the local queue. Queue stats
// run every minute, record collection stats every hour when results come
// from mongodb, and a result reload runs at the configured interval.
func StartCrons(ctx context.Context, env benchboard.Environment) error {
	opts := amboy.QueueOperationConfig{
		ContinueOnError: true,
		LogErrors:       false,
		DebugLogging:    false,
	}

	local := env.GetLocalQueue()
	if local == nil {
		return errors.New("no local queue configured")
	}
	conf := env.GetConf()

	grip.Info(message.Fields{
		"message": "starting background cron jobs",
		"opts":    opts,
		"started": local.Info().Started,
		"stats":   local.Stats(ctx),
		"reload":  conf.ReloadInterval.String(),
	})

	amboy.IntervalQueueOperation(ctx, local, time.Minute, time.Now(), opts, func(ctx context.Context, queue amboy.Queue) error {
		ts := utility.RoundPartOfMinute(0).Format(tsFormat)
		return queue.Put(ctx, NewLocalAmboyStatsCollector(env, ts))
	})

	if conf.UsesMongoDB() {
		amboy.IntervalQueueOperation(ctx, local, time.Hour, time.Now(), opts, func(ctx context.Context, queue amboy.Queue) error {
			ts := utility.RoundPartOfHour(0).Format(tsFormat)
			return queue.Put(ctx, NewStatsDBCollectionSizeJob(env, ts))
		})
	}

	if conf.ReloadInterval > 0 {
		amboy.IntervalQueueOperation(ctx, local, conf.ReloadInterval, time.Now().Add(conf.ReloadInterval), opts, func(ctx context.Context, queue amboy.Queue) error {
			ts := utility.RoundPartOfMinute(0).Format(tsFormat)
			return queue.Put(ctx, NewReloadResultsJob(env, ts))
		})
	}

	return nil
}
