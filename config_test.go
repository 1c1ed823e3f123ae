package benchboard

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfiguration(t *testing.T) {
	t.Run("DefaultsForLocalSource", func(t *testing.T) {
		conf := &Configuration{ResultsPath: "results", NumWorkers: 2}
		require.NoError(t, conf.Validate())
		assert.Equal(t, ResultSourceLocal, conf.ResultSource)
		assert.Equal(t, 4, conf.MaxConfigurations)
		assert.Equal(t, 4, conf.MaxVersions)
		assert.Equal(t, defaultDatabase, conf.DatabaseName)
		assert.Equal(t, defaultCollection, conf.CollectionName)
		assert.Equal(t, 2*time.Second, conf.MongoDBDialTimeout)
		assert.False(t, conf.UsesMongoDB())
	})
	t.Run("RequiresWorkers", func(t *testing.T) {
		conf := &Configuration{ResultsPath: "results"}
		err := conf.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "amboy workers")
	})
	t.Run("RequiresResultsPath", func(t *testing.T) {
		for _, source := range []string{ResultSourceLocal, ResultSourceS3, ResultSourceGridFS} {
			conf := &Configuration{ResultSource: source, NumWorkers: 1, MongoDBURI: "mongodb://localhost:27017"}
			assert.Error(t, conf.Validate(), source)
		}
	})
	t.Run("MongoDBSource", func(t *testing.T) {
		conf := &Configuration{ResultSource: ResultSourceMongoDB, NumWorkers: 1}
		assert.Error(t, conf.Validate())

		conf.MongoDBURI = "mongodb://localhost:27017"
		assert.NoError(t, conf.Validate())
		assert.True(t, conf.UsesMongoDB())
	})
	t.Run("UnknownSource", func(t *testing.T) {
		conf := &Configuration{ResultSource: "ftp", ResultsPath: "x", NumWorkers: 1}
		assert.Error(t, conf.Validate())
	})
	t.Run("CapacityBounds", func(t *testing.T) {
		conf := &Configuration{ResultsPath: "results", NumWorkers: 1, MaxConfigurations: 1}
		assert.Error(t, conf.Validate())

		conf = &Configuration{ResultsPath: "results", NumWorkers: 1, MaxVersions: -1}
		assert.Error(t, conf.Validate())

		conf = &Configuration{ResultsPath: "results", NumWorkers: 1, MaxConfigurations: 6, MaxVersions: 2}
		require.NoError(t, conf.Validate())
		assert.Equal(t, 6, conf.MaxConfigurations)
		assert.Equal(t, 2, conf.MaxVersions)
	})
	t.Run("DuplicateVersions", func(t *testing.T) {
		conf := &Configuration{ResultsPath: "results", NumWorkers: 1, Versions: []string{"0.76.0", "0.76.0"}}
		assert.Error(t, conf.Validate())
	})
	t.Run("LoadFromFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
result_source: local
results_path: /tmp/results
workers: 3
versions:
  - 0.75.0
  - 0.76.0
allowed_domains:
  - github.com
reload_interval: 5m
`), 0644))

		conf, err := LoadConfiguration(path)
		require.NoError(t, err)
		require.NoError(t, conf.Validate())
		assert.Equal(t, "/tmp/results", conf.ResultsPath)
		assert.Equal(t, 3, conf.NumWorkers)
		assert.Equal(t, []string{"0.75.0", "0.76.0"}, conf.Versions)
		assert.Equal(t, []string{"github.com"}, conf.AllowedDomains)
		assert.Equal(t, 5*time.Minute, conf.ReloadInterval)
	})
	t.Run("LoadMissingFile", func(t *testing.T) {
		_, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}
