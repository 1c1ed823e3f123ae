package benchboard

import (
	"time"

	"github.com/evergreen-ci/benchboard/util"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

// Result source types.
const (
	ResultSourceLocal   = "local"
	ResultSourceS3      = "s3"
	ResultSourceGridFS  = "gridfs"
	ResultSourceMongoDB = "mongodb"
)

const (
	defaultCollection  = "results"
	defaultDatabase    = "benchboard"
	defaultS3Region    = "us-east-1"
	defaultMaxSelected = 4
)

// Configuration defines the settings for a benchboard process.
type Configuration struct {
	// ResultSource selects where measurement records are loaded from at
	// startup: a local directory, an S3 or GridFS bucket, or a MongoDB
	// collection.
	ResultSource string `yaml:"result_source"`
	// ResultsPath is the directory or bucket name for bucket sources.
	ResultsPath   string `yaml:"results_path"`
	ResultsPrefix string `yaml:"results_prefix"`
	S3Region      string `yaml:"s3_region"`
	AWSKey        string `yaml:"aws_key"`
	AWSSecret     string `yaml:"aws_secret"`

	MongoDBURI         string        `yaml:"mongodb_uri"`
	DatabaseName       string        `yaml:"db_name"`
	CollectionName     string        `yaml:"collection"`
	MongoDBDialTimeout time.Duration `yaml:"dial_timeout"`

	// Versions lists the selectable versions oldest first. When empty, the
	// versions present in the result source are used.
	Versions       []string `yaml:"versions"`
	VersionsFile   string   `yaml:"versions_file"`
	BenchmarksFile string   `yaml:"benchmarks_file"`
	AllowedDomains []string `yaml:"allowed_domains"`

	MaxConfigurations int `yaml:"max_configurations"`
	MaxVersions       int `yaml:"max_versions"`

	// ExportPath is the local directory report export jobs write to.
	ExportPath     string        `yaml:"export_path"`
	NumWorkers     int           `yaml:"workers"`
	ReloadInterval time.Duration `yaml:"reload_interval"`
	CORSOrigins    []string      `yaml:"cors_origins"`
}

// LoadConfiguration reads a YAML configuration file. The result is not
// validated.
func LoadConfiguration(path string) (*Configuration, error) {
	conf := &Configuration{}
	if err := util.ReadFileYAML(path, conf); err != nil {
		return nil, errors.Wrapf(err, "problem reading configuration from '%s'", path)
	}

	return conf, nil
}

// Validate checks the configuration and fills in defaults.
func (c *Configuration) Validate() error {
	catcher := grip.NewBasicCatcher()

	if c.ResultSource == "" {
		c.ResultSource = ResultSourceLocal
	}
	switch c.ResultSource {
	case ResultSourceLocal, ResultSourceS3:
		catcher.NewWhen(c.ResultsPath == "", "must specify a results path")
	case ResultSourceGridFS:
		catcher.NewWhen(c.ResultsPath == "", "must specify a results path")
		catcher.NewWhen(c.MongoDBURI == "", "must specify a mongodb url")
	case ResultSourceMongoDB:
		catcher.NewWhen(c.MongoDBURI == "", "must specify a mongodb url")
	default:
		catcher.Errorf("unrecognized result source '%s'", c.ResultSource)
	}

	if c.NumWorkers < 1 {
		catcher.New("must specify a valid number of amboy workers")
	}
	catcher.NewWhen(c.MaxConfigurations != 0 && c.MaxConfigurations < 2, "configuration capacity must be at least 2")
	catcher.NewWhen(c.MaxVersions < 0, "version capacity must not be negative")

	seen := map[string]bool{}
	for _, v := range c.Versions {
		catcher.NewWhen(v == "", "versions must not be empty")
		catcher.ErrorfWhen(seen[v], "duplicate version '%s'", v)
		seen[v] = true
	}

	if c.MaxConfigurations == 0 {
		c.MaxConfigurations = defaultMaxSelected
	}
	if c.MaxVersions == 0 {
		c.MaxVersions = defaultMaxSelected
	}
	if c.S3Region == "" {
		c.S3Region = defaultS3Region
	}
	if c.DatabaseName == "" {
		c.DatabaseName = defaultDatabase
	}
	if c.CollectionName == "" {
		c.CollectionName = defaultCollection
	}
	if c.MongoDBDialTimeout <= 0 {
		c.MongoDBDialTimeout = 2 * time.Second
	}
	if c.ReloadInterval < 0 {
		c.ReloadInterval = 0
	}

	return catcher.Resolve()
}

// UsesMongoDB reports whether the result source needs a database client.
func (c *Configuration) UsesMongoDB() bool {
	return utility.StringSliceContains([]string{ResultSourceMongoDB, ResultSourceGridFS}, c.ResultSource)
}
