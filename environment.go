package benchboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/queue"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var globalEnv *envState
var globalEnvLock = &sync.RWMutex{}

func init() { resetEnv() }

func resetEnv() {
	globalEnvLock.Lock()
	defer globalEnvLock.Unlock()

	globalEnv = &envState{
		name:    "global",
		conf:    &Configuration{},
		cache:   newEnvironmentCache(),
		closers: map[string]CloserFunc{},
	}
}

// GetEnvironment returns the global application level environment.
func GetEnvironment() Environment {
	globalEnvLock.RLock()
	defer globalEnvLock.RUnlock()

	return globalEnv
}

// SetEnvironment replaces the global environment. Only environments created
// with NewEnvironment are accepted.
func SetEnvironment(env Environment) {
	e, ok := env.(*envState)
	if !ok || e == nil {
		grip.Critical(message.Fields{
			"message": "refusing to set an unknown environment",
			"type":    fmt.Sprintf("%T", env),
		})
		return
	}

	globalEnvLock.Lock()
	defer globalEnvLock.Unlock()
	globalEnv = e
}

// CloserFunc releases a resource when the environment closes.
type CloserFunc func(context.Context) error

// Environment objects provide access to shared configuration and state, in a
// way that you can isolate and test for in.
type Environment interface {
	// Context returns the context the environment was created with.
	Context() (context.Context, context.CancelFunc)
	GetConf() *Configuration

	// GetClient returns the database client. It is only configured when
	// results are loaded from MongoDB or GridFS.
	GetClient() (*mongo.Client, error)
	GetDB() (*mongo.Database, error)

	// GetLocalQueue retrieves the application's shared queue, which is
	// cached for easy access from within units or inside of requests or
	// command line operations.
	GetLocalQueue() amboy.Queue
	// SetLocalQueue configures the shared queue. It errors if a queue
	// already exists.
	SetLocalQueue(amboy.Queue) error

	// GetCache returns the snapshot cache holding the loaded result
	// store and catalogs.
	GetCache() (EnvironmentCache, bool)
	// GetStatsCache returns the named stats cache, or nil.
	GetStatsCache(string) *statsCache

	RegisterCloser(string, CloserFunc)
	Close(context.Context) error
}

// NewEnvironment validates the configuration, starts the local queue and,
// when needed, connects to the database.
func NewEnvironment(ctx context.Context, name string, conf *Configuration) (Environment, error) {
	if conf == nil {
		return nil, errors.New("cannot create an environment without a configuration")
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	env := &envState{
		name:    name,
		conf:    conf,
		cache:   newEnvironmentCache(),
		closers: map[string]CloserFunc{},
	}
	env.ctx, env.cancel = context.WithCancel(ctx)
	env.statsCacheRegistry = newStatsCacheRegistry(env.ctx)

	if conf.UsesMongoDB() {
		if err := env.connect(); err != nil {
			env.cancel()
			return nil, errors.WithStack(err)
		}
	}

	env.localQueue = queue.NewLocalLimitedSize(conf.NumWorkers, 1024)
	if err := env.localQueue.Start(env.ctx); err != nil {
		env.cancel()
		return nil, errors.Wrap(err, "problem starting local queue")
	}
	env.RegisterCloser("local-queue", func(ctx context.Context) error {
		if !amboy.WaitInterval(ctx, env.localQueue, 10*time.Millisecond) {
			grip.Critical(message.Fields{
				"message": "pending jobs failed to finish",
				"queue":   "system",
				"status":  env.localQueue.Stats(ctx),
			})
			return errors.New("failed to stop with running jobs")
		}
		env.localQueue.Close(ctx)
		return nil
	})

	grip.Info(message.Fields{
		"message": "configured local queue",
		"env":     name,
		"workers": conf.NumWorkers,
		"source":  conf.ResultSource,
	})

	return env, nil
}

type envState struct {
	name               string
	conf               *Configuration
	client             *mongo.Client
	localQueue         amboy.Queue
	cache              *envCache
	statsCacheRegistry map[string]*statsCache
	closers            map[string]CloserFunc
	ctx                context.Context
	cancel             context.CancelFunc
	mutex              sync.RWMutex
}

func (e *envState) connect() error {
	ctx, cancel := context.WithTimeout(e.ctx, e.conf.MongoDBDialTimeout)
	defer cancel()

	opts := options.Client().ApplyURI(e.conf.MongoDBURI).SetConnectTimeout(e.conf.MongoDBDialTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return errors.Wrapf(err, "problem connecting to '%s'", e.conf.MongoDBURI)
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		return errors.Wrap(err, "problem reaching database")
	}

	e.client = client
	e.closers["mongodb-client"] = func(ctx context.Context) error {
		return errors.WithStack(client.Disconnect(ctx))
	}

	return nil
}

func (e *envState) Context() (context.Context, context.CancelFunc) {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	if e.ctx == nil {
		return context.WithCancel(context.Background())
	}
	return context.WithCancel(e.ctx)
}

func (e *envState) GetConf() *Configuration {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	if e.conf == nil {
		return nil
	}

	// copy the struct
	out := &Configuration{}
	*out = *e.conf

	return out
}

func (e *envState) GetClient() (*mongo.Client, error) {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	if e.client == nil {
		return nil, errors.New("no database client defined")
	}

	return e.client, nil
}

func (e *envState) GetDB() (*mongo.Database, error) {
	client, err := e.GetClient()
	if err != nil {
		return nil, err
	}

	return client.Database(e.conf.DatabaseName), nil
}

func (e *envState) GetLocalQueue() amboy.Queue {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	return e.localQueue
}

func (e *envState) SetLocalQueue(q amboy.Queue) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.localQueue != nil {
		return errors.New("local queue exists, cannot overwrite")
	}
	if q == nil {
		return errors.New("cannot set local queue to nil")
	}

	e.localQueue = q
	grip.Noticef("caching a '%T' local queue in the '%s' service cache for use in tasks", q, e.name)
	return nil
}

func (e *envState) GetCache() (EnvironmentCache, bool) {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	if e.cache == nil {
		return nil, false
	}
	return e.cache, true
}

func (e *envState) GetStatsCache(name string) *statsCache {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	return e.statsCacheRegistry[name]
}

func (e *envState) RegisterCloser(name string, closer CloserFunc) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.closers[name] = closer
}

// Close runs every registered closer concurrently and cancels the
// environment's context.
func (e *envState) Close(ctx context.Context) error {
	e.mutex.RLock()
	closers := make(map[string]CloserFunc, len(e.closers))
	for name, fn := range e.closers {
		closers[name] = fn
	}
	e.mutex.RUnlock()

	catcher := grip.NewBasicCatcher()
	wg := &sync.WaitGroup{}
	for name, closer := range closers {
		wg.Add(1)
		go func(name string, close CloserFunc) {
			defer wg.Done()
			catcher.Wrapf(close(ctx), "problem running closer '%s'", name)
		}(name, closer)
	}
	wg.Wait()

	if e.cancel != nil {
		e.cancel()
	}

	grip.Info(message.Fields{
		"message": "closed environment",
		"env":     e.name,
		"closers": len(closers),
		"errors":  catcher.HasErrors(),
	})

	return catcher.Resolve()
}
