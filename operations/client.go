package operations

import (
	"context"

	"github.com/evergreen-ci/benchboard/rest"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Client returns the ./benchboard client sub-command object, which talks
// to a running service.
func Client() cli.Command {
	return cli.Command{
		Name:  "client",
		Usage: "run a simple benchboard client",
		Flags: clientFlags(),
		Subcommands: []cli.Command{
			printStatus(),
			printVersions(),
			printConfigurations(),
			printBenchmarks(),
			remoteReport(),
			remoteAnalysis(),
			remoteSelect(),
			remoteExport(),
			remoteReload(),
		},
	}
}

func withClient(c *cli.Context, op func(context.Context, *rest.Client) (interface{}, error)) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	parent := c.Parent()
	client, err := rest.NewClient(parent.String(clientHostFlag), parent.Int(clientPortFlag), parent.String(clientPrefixFlag))
	if err != nil {
		return errors.Wrap(err, "problem creating REST client")
	}
	defer client.Close()

	out, err := op(ctx, client)
	if err != nil {
		return errors.WithStack(err)
	}

	return writeOutput(c, out)
}

func printStatus() cli.Command {
	return cli.Command{
		Name:   "status",
		Usage:  "prints json document for the status of the service",
		Flags:  outputFlags(),
		Before: requireClientHostFlag,
		Action: func(c *cli.Context) error {
			return withClient(c, func(ctx context.Context, client *rest.Client) (interface{}, error) {
				status, err := client.GetStatus(ctx)
				return status, errors.Wrap(err, "problem getting status")
			})
		},
	}
}

func printVersions() cli.Command {
	return cli.Command{
		Name:   "versions",
		Usage:  "prints the version catalog",
		Flags:  outputFlags(),
		Before: requireClientHostFlag,
		Action: func(c *cli.Context) error {
			return withClient(c, func(ctx context.Context, client *rest.Client) (interface{}, error) {
				versions, err := client.GetVersions(ctx)
				return versions, errors.Wrap(err, "problem getting versions")
			})
		},
	}
}

func printConfigurations() cli.Command {
	return cli.Command{
		Name:  "configurations",
		Usage: "prints the configurations with results",
		Flags: outputFlags(cli.StringFlag{
			Name:  versionFlag,
			Usage: "only list configurations of this version",
		}),
		Before: requireClientHostFlag,
		Action: func(c *cli.Context) error {
			return withClient(c, func(ctx context.Context, client *rest.Client) (interface{}, error) {
				keys, err := client.GetConfigurations(ctx, c.String(versionFlag))
				return keys, errors.Wrap(err, "problem getting configurations")
			})
		},
	}
}

func printBenchmarks() cli.Command {
	return cli.Command{
		Name:   "benchmarks",
		Usage:  "prints the benchmark catalog",
		Flags:  outputFlags(),
		Before: requireClientHostFlag,
		Action: func(c *cli.Context) error {
			return withClient(c, func(ctx context.Context, client *rest.Client) (interface{}, error) {
				benchmarks, err := client.GetBenchmarks(ctx)
				return benchmarks, errors.Wrap(err, "problem getting benchmarks")
			})
		},
	}
}

func remoteReport() cli.Command {
	return cli.Command{
		Name:      "report",
		Usage:     "builds a report for configuration keys on the service",
		ArgsUsage: "[version/platform/architecture...]",
		Flags:     mergeFlags(keyFlags(), outputFlags()),
		Before:    mergeBeforeFuncs(requireClientHostFlag, requireKeys),
		Action: func(c *cli.Context) error {
			return withClient(c, func(ctx context.Context, client *rest.Client) (interface{}, error) {
				report, err := client.GetReport(ctx, keysFromContext(c))
				return report, errors.Wrap(err, "problem getting report")
			})
		},
	}
}

func remoteAnalysis() cli.Command {
	return cli.Command{
		Name:      "analyze",
		Usage:     "analyzes one scenario across configuration keys on the service",
		ArgsUsage: "[version/platform/architecture...]",
		Flags:     mergeFlags(keyFlags(), scenarioFlags(), outputFlags()),
		Before:    mergeBeforeFuncs(requireClientHostFlag, requireStringFlag(scenarioFlag), requireKeys),
		Action: func(c *cli.Context) error {
			return withClient(c, func(ctx context.Context, client *rest.Client) (interface{}, error) {
				analysis, err := client.GetAnalysis(ctx, keysFromContext(c), c.String(scenarioFlag))
				return analysis, errors.Wrap(err, "problem getting analysis")
			})
		},
	}
}

func remoteSelect() cli.Command {
	return cli.Command{
		Name:   "select",
		Usage:  "replays selection actions from a file on the service",
		Flags:  mergeFlags(actionsFlags(), outputFlags()),
		Before: mergeBeforeFuncs(requireClientHostFlag, requireFileExists(actionsFlag)),
		Action: func(c *cli.Context) error {
			actions, fromLatest, err := selectionFromContext(c)
			if err != nil {
				return errors.WithStack(err)
			}

			return withClient(c, func(ctx context.Context, client *rest.Client) (interface{}, error) {
				if c.String(actionsFlag) == "" {
					selection, err := client.GetDefaultSelection(ctx)
					return selection, errors.Wrap(err, "problem getting default selection")
				}

				replay := client.ReplaySelection
				if fromLatest {
					replay = client.ReplayFromLatest
				}
				selection, err := replay(ctx, actions)
				return selection, errors.Wrap(err, "problem replaying selection")
			})
		},
	}
}

func remoteExport() cli.Command {
	return cli.Command{
		Name:      "export",
		Usage:     "schedules a report export on the service",
		ArgsUsage: "[version/platform/architecture...]",
		Flags:     mergeFlags(keyFlags(), outputFlags()),
		Before:    mergeBeforeFuncs(requireClientHostFlag, requireKeys),
		Action: func(c *cli.Context) error {
			return withClient(c, func(ctx context.Context, client *rest.Client) (interface{}, error) {
				job, err := client.ExportReport(ctx, keysFromContext(c))
				return job, errors.Wrap(err, "problem scheduling export")
			})
		},
	}
}

func remoteReload() cli.Command {
	return cli.Command{
		Name:   "reload",
		Usage:  "schedules a reload of the service's results",
		Flags:  outputFlags(),
		Before: requireClientHostFlag,
		Action: func(c *cli.Context) error {
			return withClient(c, func(ctx context.Context, client *rest.Client) (interface{}, error) {
				job, err := client.Reload(ctx)
				return job, errors.Wrap(err, "problem scheduling reload")
			})
		},
	}
}
