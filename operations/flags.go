package operations

import (
	"strings"

	"github.com/evergreen-ci/benchboard"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

////////////////////////////////////////////////////////////////////////
//
// Flag Name Constants

const (
	configFlag = "config"

	resultSourceFlag  = "source"
	resultsPathFlag   = "results"
	resultsPrefixFlag = "prefix"
	dbURIFlag         = "dbUri"
	dbNameFlag        = "dbName"
	collectionFlag    = "collection"
	benchmarksFlag    = "benchmarks"
	exportPathFlag    = "exports"
	numWorkersFlag    = "workers"

	servicePortFlag   = "port"
	servicePrefixFlag = "apiPrefix"

	clientHostFlag   = "host"
	clientPortFlag   = "port"
	clientPrefixFlag = "apiPrefix"

	keyFlag        = "key"
	scenarioFlag   = "scenario"
	versionFlag    = "version"
	actionsFlag    = "actions"
	fromLatestFlag = "fromLatest"
	outputFlag     = "output"

	defaultAPIPrefix = "rest"
)

////////////////////////////////////////////////////////////////////////
//
// Utility Functions

func joinFlagNames(ids ...string) string { return strings.Join(ids, ", ") }

func mergeFlags(in ...[]cli.Flag) []cli.Flag {
	out := []cli.Flag{}

	for idx := range in {
		out = append(out, in[idx]...)
	}

	return out
}

////////////////////////////////////////////////////////////////////////
//
// Flag Groups

func configFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:   joinFlagNames(configFlag, "c"),
			Usage:  "path to a benchboard YAML configuration file",
			EnvVar: "BENCHBOARD_CONFIG",
		},
		cli.StringFlag{
			Name:   resultSourceFlag,
			Usage:  "where records are loaded from: local, s3, gridfs or mongodb",
			EnvVar: "BENCHBOARD_RESULT_SOURCE",
		},
		cli.StringFlag{
			Name:   resultsPathFlag,
			Usage:  "directory or bucket holding the measurement records",
			EnvVar: "BENCHBOARD_RESULTS_PATH",
		},
		cli.StringFlag{
			Name:  resultsPrefixFlag,
			Usage: "prefix of the records within the results bucket",
		},
		cli.StringFlag{
			Name:   dbURIFlag,
			Usage:  "specify a mongodb connection string",
			EnvVar: "BENCHBOARD_MONGODB_URL",
		},
		cli.StringFlag{
			Name:   dbNameFlag,
			Usage:  "specify a database name to use",
			EnvVar: "BENCHBOARD_DATABASE_NAME",
		},
		cli.StringFlag{
			Name:  collectionFlag,
			Usage: "collection holding the records for the mongodb source",
		},
		cli.StringFlag{
			Name:  benchmarksFlag,
			Usage: "path to the benchmark catalog file",
		},
		cli.StringFlag{
			Name:   exportPathFlag,
			Usage:  "local directory report exports are written to",
			EnvVar: "BENCHBOARD_EXPORT_PATH",
		},
		cli.IntFlag{
			Name:  numWorkersFlag,
			Usage: "specify the number of worker jobs this process will have",
			Value: 2,
		},
	)
}

func serviceFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.IntFlag{
			Name:   joinFlagNames(servicePortFlag, "p"),
			Usage:  "specify a port to run the service on",
			Value:  3000,
			EnvVar: "BENCHBOARD_SERVICE_PORT",
		},
		cli.StringFlag{
			Name:  servicePrefixFlag,
			Usage: "prefix of the REST routes",
			Value: defaultAPIPrefix,
		},
	)
}

func clientFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  clientHostFlag,
			Usage: "host for the remote benchboard instance",
			Value: "http://localhost",
		},
		cli.IntFlag{
			Name:  clientPortFlag,
			Usage: "port for the remote benchboard service",
			Value: 3000,
		},
		cli.StringFlag{
			Name:  clientPrefixFlag,
			Usage: "prefix of the remote REST routes",
			Value: defaultAPIPrefix,
		},
	)
}

func keyFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringSliceFlag{
		Name:  joinFlagNames(keyFlag, "k"),
		Usage: "configuration key as version/platform/architecture, may be repeated; positional arguments are keys too",
	})
}

func scenarioFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:  joinFlagNames(scenarioFlag, "s"),
		Usage: "scenario to analyze, e.g. 1500View",
	})
}

func actionsFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  joinFlagNames(actionsFlag, "a"),
			Usage: "YAML or JSON file holding the list of selection actions to replay, the landing selection is returned when unset",
		},
		cli.BoolFlag{
			Name:  fromLatestFlag,
			Usage: "replay the actions on the landing selection of the latest version instead of an empty one",
		})
}

func outputFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:  joinFlagNames(outputFlag, "o"),
		Usage: "path to the output file, prints to standard output when unset",
	})
}

// keysFromContext returns the keys given with --key followed by the
// positional arguments.
func keysFromContext(c *cli.Context) []string {
	keys := []string{}
	for _, key := range append(c.StringSlice(keyFlag), c.Args()...) {
		for _, k := range strings.Split(key, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
	}

	return keys
}

// loadConfiguration reads the configuration file, when given, and applies
// the flags that were set on top of it.
func loadConfiguration(c *cli.Context) (*benchboard.Configuration, error) {
	conf := &benchboard.Configuration{}
	if path := c.String(configFlag); path != "" {
		var err error
		conf, err = benchboard.LoadConfiguration(path)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}

	for flag, target := range map[string]*string{
		resultSourceFlag:  &conf.ResultSource,
		resultsPathFlag:   &conf.ResultsPath,
		resultsPrefixFlag: &conf.ResultsPrefix,
		dbURIFlag:         &conf.MongoDBURI,
		dbNameFlag:        &conf.DatabaseName,
		collectionFlag:    &conf.CollectionName,
		benchmarksFlag:    &conf.BenchmarksFile,
		exportPathFlag:    &conf.ExportPath,
	} {
		if val := c.String(flag); val != "" {
			*target = val
		}
	}
	if c.IsSet(numWorkersFlag) || conf.NumWorkers == 0 {
		conf.NumWorkers = c.Int(numWorkersFlag)
	}

	return conf, nil
}
