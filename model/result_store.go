package model

import (
	"sort"

	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

// ResultStore resolves configuration keys to measurement records. Lookups
// are synchronous in-memory reads; stores backed by remote systems are
// loaded into a snapshot before any report is built.
type ResultStore interface {
	// Get returns the record for the key and whether it exists.
	Get(ConfigurationKey) (MeasurementRecord, bool)
	// Keys returns every key with a record, sorted by version, platform
	// and architecture.
	Keys() []ConfigurationKey
	// Versions returns the distinct versions with at least one record.
	Versions() []string
	// Len returns the number of records.
	Len() int
}

// MemoryResultStore is an immutable snapshot of measurement records.
type MemoryResultStore struct {
	records map[ConfigurationKey]MeasurementRecord
	keys    []ConfigurationKey
}

// NewMemoryResultStore validates the records and builds a snapshot. Invalid
// or duplicate records are rejected as a whole.
func NewMemoryResultStore(records ...MeasurementRecord) (*MemoryResultStore, error) {
	s := &MemoryResultStore{
		records: make(map[ConfigurationKey]MeasurementRecord, len(records)),
	}

	catcher := grip.NewBasicCatcher()
	for _, r := range records {
		if err := r.Validate(); err != nil {
			catcher.Add(err)
			continue
		}
		if _, ok := s.records[r.Key]; ok {
			catcher.Errorf("duplicate record for '%s'", r.Key)
			continue
		}

		means := make(map[string]float64, len(r.Means))
		for name, val := range r.Means {
			means[name] = val
		}
		s.records[r.Key] = MeasurementRecord{Key: r.Key, Means: means}
		s.keys = append(s.keys, r.Key)
	}
	if catcher.HasErrors() {
		return nil, errors.Wrap(catcher.Resolve(), "problem building result store")
	}

	sort.Slice(s.keys, func(i, j int) bool { return keyLess(s.keys[i], s.keys[j]) })

	return s, nil
}

// Get returns a copy of the record for the key.
func (s *MemoryResultStore) Get(key ConfigurationKey) (MeasurementRecord, bool) {
	r, ok := s.records[key]
	if !ok {
		return MeasurementRecord{}, false
	}

	means := make(map[string]float64, len(r.Means))
	for name, val := range r.Means {
		means[name] = val
	}

	return MeasurementRecord{Key: r.Key, Means: means}, true
}

func (s *MemoryResultStore) Keys() []ConfigurationKey {
	return append([]ConfigurationKey{}, s.keys...)
}

func (s *MemoryResultStore) Versions() []string {
	seen := map[string]bool{}
	out := []string{}
	for _, k := range s.keys {
		if !seen[k.Version] {
			seen[k.Version] = true
			out = append(out, k.Version)
		}
	}

	return out
}

func (s *MemoryResultStore) Len() int { return len(s.records) }

func keyLess(a, b ConfigurationKey) bool {
	if a.Version != b.Version {
		return CompareVersions(a.Version, b.Version) < 0
	}
	if a.Platform != b.Platform {
		return a.Platform < b.Platform
	}
	// old architecture first
	return a.Architecture > b.Architecture
}
