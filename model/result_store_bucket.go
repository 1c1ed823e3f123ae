package model

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"strings"

	"github.com/evergreen-ci/pail"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

const recordFileExtension = ".json"

// LoadResultStoreFromBucket reads every JSON object in the bucket as one
// measurement record and builds a snapshot. Other objects are skipped. Any
// unreadable or invalid record fails the whole load.
func LoadResultStoreFromBucket(ctx context.Context, bucket pail.Bucket) (*MemoryResultStore, error) {
	iter, err := bucket.List(ctx, "")
	if err != nil {
		return nil, errors.Wrap(err, "listing bucket contents")
	}

	records := []MeasurementRecord{}
	skipped := 0
	catcher := grip.NewBasicCatcher()
	for iter.Next(ctx) {
		item := iter.Item()
		if !strings.HasSuffix(item.Name(), recordFileExtension) {
			skipped++
			continue
		}

		record, err := readRecord(ctx, item)
		if err != nil {
			catcher.Wrapf(err, "reading record '%s'", item.Name())
			continue
		}
		records = append(records, record)
	}
	catcher.Wrap(iter.Err(), "iterating bucket contents")
	if catcher.HasErrors() {
		return nil, catcher.Resolve()
	}

	store, err := NewMemoryResultStore(records...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	grip.Info(message.Fields{
		"message": "loaded result store from bucket",
		"records": store.Len(),
		"skipped": skipped,
	})

	return store, nil
}

func readRecord(ctx context.Context, item pail.BucketItem) (MeasurementRecord, error) {
	record := MeasurementRecord{}

	r, err := item.Get(ctx)
	if err != nil {
		return record, errors.WithStack(err)
	}
	defer func() {
		grip.Warning(message.WrapError(r.Close(), message.Fields{
			"message": "problem closing record reader",
			"path":    item.Name(),
		}))
	}()

	data, err := ioutil.ReadAll(r)
	if err != nil {
		return record, errors.WithStack(err)
	}
	if err = json.Unmarshal(data, &record); err != nil {
		return record, errors.Wrap(err, "unmarshalling record")
	}

	return record, nil
}

// SaveRecordToBucket writes a validated record as
// "<version>/<platform>/<architecture>.json".
func SaveRecordToBucket(ctx context.Context, bucket pail.Bucket, record MeasurementRecord) error {
	if err := record.Validate(); err != nil {
		return errors.WithStack(err)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "marshalling record")
	}

	return errors.Wrapf(bucket.Put(ctx, record.Key.String()+recordFileExtension, bytes.NewReader(data)),
		"writing record '%s'", record.Key)
}
