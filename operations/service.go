package operations

import (
	"context"

	"github.com/evergreen-ci/benchboard/rest"
	"github.com/evergreen-ci/benchboard/units"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Service returns the ./benchboard service sub-command object, which loads
// the measurement records and serves the dashboard API.
func Service() cli.Command {
	return cli.Command{
		Name:   "service",
		Usage:  "run the benchboard api service",
		Flags:  mergeFlags(configFlags(), serviceFlags()),
		Before: requireFileExists(configFlag),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			env, err := setupEnvironment(ctx, c, "benchboard-service", true)
			if err != nil {
				return errors.WithStack(err)
			}
			defer closeEnvironment(ctx, env)

			if err = units.StartCrons(ctx, env); err != nil {
				return errors.Wrap(err, "problem starting background jobs")
			}

			service := &rest.Service{
				Port:        c.Int(servicePortFlag),
				Prefix:      c.String(servicePrefixFlag),
				Environment: env,
			}
			if err = service.Validate(); err != nil {
				return errors.Wrap(err, "problem validating service")
			}

			grip.Notice(message.Fields{
				"message": "starting benchboard service",
				"port":    service.Port,
				"prefix":  service.Prefix,
				"source":  env.GetConf().ResultSource,
			})
			if err = service.Start(ctx); err != nil {
				return errors.Wrap(err, "problem running service")
			}

			grip.Info("completed service, terminating.")
			return nil
		},
	}
}
