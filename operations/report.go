package operations

import (
	"context"

	dbmodel "github.com/evergreen-ci/benchboard/model"
	"github.com/evergreen-ci/benchboard/rest/data"
	"github.com/evergreen-ci/benchboard/units"
	"github.com/evergreen-ci/benchboard/util"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Report builds a report for the given keys from the configured source,
// without a running service.
func Report() cli.Command {
	return cli.Command{
		Name:      "report",
		Usage:     "build a report for configuration keys",
		ArgsUsage: "[version/platform/architecture...]",
		Flags:     mergeFlags(configFlags(), keyFlags(), outputFlags()),
		Before:    mergeBeforeFuncs(requireFileExists(configFlag), requireKeys),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			env, err := setupEnvironment(ctx, c, "benchboard-report", true)
			if err != nil {
				return errors.WithStack(err)
			}
			defer closeEnvironment(ctx, env)

			report, err := data.CreateDBConnector(env).BuildReport(ctx, keysFromContext(c))
			if err != nil {
				return errors.Wrap(err, "problem building report")
			}

			return writeOutput(c, report)
		},
	}
}

// Analyze finds the best configuration for one scenario.
func Analyze() cli.Command {
	return cli.Command{
		Name:      "analyze",
		Usage:     "analyze one scenario across configuration keys",
		ArgsUsage: "[version/platform/architecture...]",
		Flags:     mergeFlags(configFlags(), keyFlags(), scenarioFlags(), outputFlags()),
		Before: mergeBeforeFuncs(
			requireFileExists(configFlag),
			requireStringFlag(scenarioFlag),
			requireKeys,
		),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			env, err := setupEnvironment(ctx, c, "benchboard-analyze", true)
			if err != nil {
				return errors.WithStack(err)
			}
			defer closeEnvironment(ctx, env)

			analysis, err := data.CreateDBConnector(env).AnalyzeScenario(ctx, keysFromContext(c), c.String(scenarioFlag))
			if err != nil {
				return errors.Wrap(err, "problem analyzing scenario")
			}

			return writeOutput(c, analysis)
		},
	}
}

// Select replays recorded selection actions and prints the final
// selection and report. Without an actions file it prints the landing
// selection.
func Select() cli.Command {
	return cli.Command{
		Name:  "select",
		Usage: "replay selection actions from a file",
		Flags: mergeFlags(configFlags(), actionsFlags(), outputFlags()),
		Before: mergeBeforeFuncs(
			requireFileExists(configFlag),
			requireFileExists(actionsFlag),
		),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			actions, fromLatest, err := selectionFromContext(c)
			if err != nil {
				return errors.WithStack(err)
			}

			env, err := setupEnvironment(ctx, c, "benchboard-select", true)
			if err != nil {
				return errors.WithStack(err)
			}
			defer closeEnvironment(ctx, env)

			sc := data.CreateDBConnector(env)
			replay := sc.ReplaySelection
			if fromLatest {
				replay = sc.DefaultSelection
			}

			selection, err := replay(ctx, actions)
			if err != nil {
				return errors.Wrap(err, "problem replaying selection")
			}

			return writeOutput(c, selection)
		},
	}
}

// selectionFromContext reads the actions to replay and reports whether the
// replay starts from the landing selection, which it does when no actions
// file is given or fromLatest is set.
func selectionFromContext(c *cli.Context) ([]dbmodel.SelectionAction, bool, error) {
	path := c.String(actionsFlag)
	if path == "" {
		return nil, true, nil
	}

	actions, err := readActions(path)
	if err != nil {
		return nil, false, errors.WithStack(err)
	}

	return actions, c.Bool(fromLatestFlag), nil
}

// readActions reads a list of selection actions from a YAML or JSON file.
func readActions(path string) ([]dbmodel.SelectionAction, error) {
	actions := []dbmodel.SelectionAction{}
	if err := util.ReadFileYAML(path, &actions); err != nil {
		return nil, errors.Wrapf(err, "problem reading actions from '%s'", path)
	}

	for idx, action := range actions {
		if err := action.Validate(); err != nil {
			return nil, errors.Wrapf(err, "invalid action %d", idx)
		}
	}

	return actions, nil
}

// Export writes a report for the given keys to the export location,
// running the export job in process.
func Export() cli.Command {
	return cli.Command{
		Name:      "export",
		Usage:     "write a report for configuration keys to the export location",
		ArgsUsage: "[version/platform/architecture...]",
		Flags:     mergeFlags(configFlags(), keyFlags()),
		Before:    mergeBeforeFuncs(requireFileExists(configFlag), requireKeys),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			env, err := setupEnvironment(ctx, c, "benchboard-export", true)
			if err != nil {
				return errors.WithStack(err)
			}
			defer closeEnvironment(ctx, env)

			j := units.NewReportExportJob(env, keysFromContext(c))
			j.Run(ctx)
			if err = j.Error(); err != nil {
				return errors.Wrap(err, "problem exporting report")
			}

			grip.Notice(message.Fields{
				"message": "exported report",
				"file":    units.ExportFileName(j.ID()),
			})
			return nil
		},
	}
}

// Import validates measurement record files and writes them to the
// configured result source.
func Import() cli.Command {
	return cli.Command{
		Name:      "import",
		Usage:     "write measurement record files to the result source",
		ArgsUsage: "<record.json>...",
		Flags:     configFlags(),
		Before: mergeBeforeFuncs(
			requireFileExists(configFlag),
			func(c *cli.Context) error {
				if c.NArg() == 0 {
					return errors.New("must specify at least one record file")
				}
				return nil
			},
		),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			records, err := readRecords(c.Args())
			if err != nil {
				return errors.WithStack(err)
			}

			env, err := setupEnvironment(ctx, c, "benchboard-import", false)
			if err != nil {
				return errors.WithStack(err)
			}
			defer closeEnvironment(ctx, env)

			if err = dbmodel.SaveRecords(ctx, env, records); err != nil {
				return errors.Wrap(err, "problem saving records")
			}

			grip.Notice(message.Fields{
				"message": "imported records",
				"records": len(records),
				"source":  env.GetConf().ResultSource,
			})
			return nil
		},
	}
}

func readRecords(paths []string) ([]dbmodel.MeasurementRecord, error) {
	catcher := grip.NewBasicCatcher()
	records := make([]dbmodel.MeasurementRecord, 0, len(paths))
	for _, path := range paths {
		record := dbmodel.MeasurementRecord{}
		if err := util.ReadFileYAML(path, &record); err != nil {
			catcher.Wrapf(err, "reading '%s'", path)
			continue
		}
		if err := record.Validate(); err != nil {
			catcher.Wrapf(err, "validating '%s'", path)
			continue
		}
		records = append(records, record)
	}

	return records, catcher.Resolve()
}
