package model

import (
	"context"

	"github.com/mongodb/anser/bsonutil"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	measurementRecordKeyKey      = bsonutil.MustHaveTag(MeasurementRecord{}, "Key")
	measurementRecordMeansKey    = bsonutil.MustHaveTag(MeasurementRecord{}, "Means")
	configurationVersionKey      = bsonutil.MustHaveTag(ConfigurationKey{}, "Version")
	configurationPlatformKey     = bsonutil.MustHaveTag(ConfigurationKey{}, "Platform")
	configurationArchitectureKey = bsonutil.MustHaveTag(ConfigurationKey{}, "Architecture")
)

// LoadResultStoreFromDB reads every document of the collection that carries
// means as one measurement record and builds a snapshot.
func LoadResultStoreFromDB(ctx context.Context, coll *mongo.Collection) (*MemoryResultStore, error) {
	cur, err := coll.Find(ctx, bson.M{measurementRecordMeansKey: bson.M{"$exists": true}})
	if err != nil {
		return nil, errors.Wrapf(err, "problem finding records in '%s'", coll.Name())
	}

	records := []MeasurementRecord{}
	if err = cur.All(ctx, &records); err != nil {
		return nil, errors.Wrap(err, "problem decoding records")
	}

	store, err := NewMemoryResultStore(records...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	grip.Info(message.Fields{
		"message":    "loaded result store from database",
		"collection": coll.Name(),
		"records":    store.Len(),
	})

	return store, nil
}

// SaveRecordToDB upserts a validated record, replacing any document with
// the same key.
func SaveRecordToDB(ctx context.Context, coll *mongo.Collection, record MeasurementRecord) error {
	if err := record.Validate(); err != nil {
		return errors.WithStack(err)
	}

	filter := bson.M{
		bsonutil.GetDottedKeyName(measurementRecordKeyKey, configurationVersionKey):      record.Key.Version,
		bsonutil.GetDottedKeyName(measurementRecordKeyKey, configurationPlatformKey):     record.Key.Platform,
		bsonutil.GetDottedKeyName(measurementRecordKeyKey, configurationArchitectureKey): record.Key.Architecture,
	}
	_, err := coll.ReplaceOne(ctx, filter, record, options.Replace().SetUpsert(true))

	return errors.Wrapf(err, "problem saving record '%s'", record.Key)
}
