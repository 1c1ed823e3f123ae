package operations

import (
	"context"

	"github.com/evergreen-ci/benchboard"
	"github.com/evergreen-ci/benchboard/model"
	"github.com/evergreen-ci/benchboard/util"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// setupEnvironment builds the process environment from the command's flags
// and, when loadData is set, loads the records and catalogs into it. The
// caller must close the environment.
func setupEnvironment(ctx context.Context, c *cli.Context, name string, loadData bool) (benchboard.Environment, error) {
	conf, err := loadConfiguration(c)
	if err != nil {
		return nil, errors.Wrap(err, "problem loading configuration")
	}

	env, err := benchboard.NewEnvironment(ctx, name, conf)
	if err != nil {
		return nil, errors.Wrap(err, "problem configuring environment")
	}
	benchboard.SetEnvironment(env)

	if !loadData {
		return env, nil
	}

	if err = model.SetupEnvironmentData(ctx, env); err != nil {
		closeEnvironment(ctx, env)
		return nil, errors.Wrap(err, "problem loading data")
	}

	return env, nil
}

func closeEnvironment(ctx context.Context, env benchboard.Environment) {
	grip.Warning(message.WrapError(env.Close(ctx), message.Fields{
		"message": "problem closing environment",
	}))
}

// writeOutput writes the data as JSON to the output file, or prints it.
func writeOutput(c *cli.Context, data interface{}) error {
	if fn := c.String(outputFlag); fn != "" {
		return errors.Wrapf(util.WriteJSON(fn, data), "problem writing '%s'", fn)
	}

	return errors.WithStack(util.PrintJSON(data))
}
