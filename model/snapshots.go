package model

import (
	"context"

	"github.com/evergreen-ci/benchboard"
	"github.com/evergreen-ci/benchboard/util"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// SelectionOptionsFromConf returns the selection capacities configured for
// the environment.
func SelectionOptionsFromConf(conf *benchboard.Configuration) SelectionOptions {
	if conf == nil {
		return SelectionOptions{}
	}
	return SelectionOptions{
		MaxConfigurations: conf.MaxConfigurations,
		MaxVersions:       conf.MaxVersions,
	}
}

// LoadResultStore reads every measurement record from the configured
// result source.
func LoadResultStore(ctx context.Context, env benchboard.Environment) (*MemoryResultStore, error) {
	conf := env.GetConf()
	if conf == nil {
		return nil, errors.New("environment has no configuration")
	}

	if conf.ResultSource == benchboard.ResultSourceMongoDB {
		db, err := env.GetDB()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return LoadResultStoreFromDB(ctx, db.Collection(conf.CollectionName))
	}

	pailType, err := PailTypeForSource(conf.ResultSource)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	bucket, err := pailType.Create(ctx, env, conf.ResultsPath, conf.ResultsPrefix)
	if err != nil {
		return nil, errors.Wrapf(err, "problem opening %s results bucket", pailType)
	}

	return LoadResultStoreFromBucket(ctx, bucket)
}

// SaveRecords writes records to the configured result source, replacing
// records with the same key. The cached snapshot is not changed; schedule a
// reload to serve the new records.
func SaveRecords(ctx context.Context, env benchboard.Environment, records []MeasurementRecord) error {
	conf := env.GetConf()
	if conf == nil {
		return errors.New("environment has no configuration")
	}

	catcher := grip.NewBasicCatcher()
	if conf.ResultSource == benchboard.ResultSourceMongoDB {
		db, err := env.GetDB()
		if err != nil {
			return errors.WithStack(err)
		}
		coll := db.Collection(conf.CollectionName)
		for _, record := range records {
			catcher.Wrapf(SaveRecordToDB(ctx, coll, record), "saving record '%s'", record.Key)
		}
		return catcher.Resolve()
	}

	pailType, err := PailTypeForSource(conf.ResultSource)
	if err != nil {
		return errors.WithStack(err)
	}
	bucket, err := pailType.Create(ctx, env, conf.ResultsPath, conf.ResultsPrefix)
	if err != nil {
		return errors.Wrapf(err, "problem opening %s results bucket", pailType)
	}
	for _, record := range records {
		catcher.Add(SaveRecordToBucket(ctx, bucket, record))
	}

	return catcher.Resolve()
}

// SetupEnvironmentData loads the result store, the version catalog and the
// benchmark catalog into the environment cache, replacing any previous
// snapshot.
func SetupEnvironmentData(ctx context.Context, env benchboard.Environment) error {
	store, err := LoadResultStore(ctx, env)
	if err != nil {
		return errors.Wrap(err, "problem loading results")
	}

	versions, err := loadVersionCatalog(env.GetConf(), store)
	if err != nil {
		return errors.Wrap(err, "problem loading version catalog")
	}

	benchmarks, err := loadBenchmarkCatalog(env.GetConf())
	if err != nil {
		return errors.Wrap(err, "problem loading benchmark catalog")
	}

	return errors.WithStack(SetSnapshots(env, store, versions, benchmarks))
}

// ReloadResultStore reloads the records from their source and swaps the
// snapshot. Requests already holding the previous store keep using it.
// Versions derived from the store are refreshed alongside it.
func ReloadResultStore(ctx context.Context, env benchboard.Environment) error {
	store, err := LoadResultStore(ctx, env)
	if err != nil {
		return errors.Wrap(err, "problem reloading results")
	}

	versions, err := loadVersionCatalog(env.GetConf(), store)
	if err != nil {
		return errors.Wrap(err, "problem reloading version catalog")
	}

	cache, ok := env.GetCache()
	if !ok {
		return errors.New("environment has no cache")
	}
	prev, existed := cache.Swap(benchboard.ResultStoreCacheKey, ResultStore(store))
	cache.Swap(benchboard.VersionCatalogCacheKey, versions)

	msg := message.Fields{
		"message": "swapped result store",
		"records": store.Len(),
	}
	if prevStore, ok := prev.(ResultStore); existed && ok {
		msg["previous_records"] = prevStore.Len()
	}
	grip.Info(msg)

	return nil
}

// SetSnapshots stores already loaded data in the environment cache. Nil
// catalogs are replaced by empty ones.
func SetSnapshots(env benchboard.Environment, store ResultStore, versions *VersionCatalog, benchmarks *BenchmarkCatalog) error {
	if store == nil {
		return errors.New("cannot cache a nil result store")
	}
	if versions == nil {
		versions = VersionCatalogFromStore(store)
	}
	if benchmarks == nil {
		benchmarks = &BenchmarkCatalog{Items: []BenchmarkItem{}}
	}

	cache, ok := env.GetCache()
	if !ok {
		return errors.New("environment has no cache")
	}
	cache.Swap(benchboard.ResultStoreCacheKey, store)
	cache.Swap(benchboard.VersionCatalogCacheKey, versions)
	cache.Swap(benchboard.BenchmarkCatalogCacheKey, benchmarks)

	grip.Info(message.Fields{
		"message":    "cached environment data",
		"records":    store.Len(),
		"versions":   len(versions.Versions),
		"latest":     versions.Latest(),
		"benchmarks": len(benchmarks.Items),
	})

	return nil
}

// GetResultStore returns the current result store snapshot.
func GetResultStore(env benchboard.Environment) (ResultStore, error) {
	val, err := getSnapshot(env, benchboard.ResultStoreCacheKey)
	if err != nil {
		return nil, err
	}
	store, ok := val.(ResultStore)
	if !ok {
		return nil, errors.Errorf("cached result store has unexpected type %T", val)
	}
	return store, nil
}

// GetVersionCatalog returns the current version catalog.
func GetVersionCatalog(env benchboard.Environment) (*VersionCatalog, error) {
	val, err := getSnapshot(env, benchboard.VersionCatalogCacheKey)
	if err != nil {
		return nil, err
	}
	catalog, ok := val.(*VersionCatalog)
	if !ok {
		return nil, errors.Errorf("cached version catalog has unexpected type %T", val)
	}
	return catalog, nil
}

// GetBenchmarkCatalog returns the current benchmark catalog.
func GetBenchmarkCatalog(env benchboard.Environment) (*BenchmarkCatalog, error) {
	val, err := getSnapshot(env, benchboard.BenchmarkCatalogCacheKey)
	if err != nil {
		return nil, err
	}
	catalog, ok := val.(*BenchmarkCatalog)
	if !ok {
		return nil, errors.Errorf("cached benchmark catalog has unexpected type %T", val)
	}
	return catalog, nil
}

func getSnapshot(env benchboard.Environment, key string) (interface{}, error) {
	if env == nil {
		return nil, errors.New("environment is nil")
	}
	cache, ok := env.GetCache()
	if !ok {
		return nil, errors.New("environment has no cache")
	}
	val, ok := cache.Get(key)
	if !ok {
		return nil, errors.Errorf("'%s' is not loaded", key)
	}
	return val, nil
}

func loadVersionCatalog(conf *benchboard.Configuration, store ResultStore) (*VersionCatalog, error) {
	switch {
	case len(conf.Versions) > 0:
		return NewVersionCatalog(conf.Versions...)
	case conf.VersionsFile != "":
		versions := []string{}
		if err := util.ReadFileYAML(conf.VersionsFile, &versions); err != nil {
			return nil, errors.WithStack(err)
		}
		return NewVersionCatalog(versions...)
	default:
		return VersionCatalogFromStore(store), nil
	}
}

func loadBenchmarkCatalog(conf *benchboard.Configuration) (*BenchmarkCatalog, error) {
	if conf.BenchmarksFile == "" {
		return &BenchmarkCatalog{Items: []BenchmarkItem{}}, nil
	}

	return LoadBenchmarkCatalog(conf.BenchmarksFile, conf.AllowedDomains)
}
