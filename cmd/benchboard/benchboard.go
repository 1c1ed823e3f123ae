package main

import (
	"os"

	"github.com/evergreen-ci/benchboard"
	"github.com/evergreen-ci/benchboard/operations"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func main() {
	app := buildApp()
	if err := app.Run(os.Args); err != nil {
		grip.EmergencyFatal(err)
	}
}

func buildApp() *cli.App {
	app := cli.NewApp()

	app.Name = "benchboard"
	app.Usage = "compare react native benchmark results across versions and configurations"
	app.Version = benchboard.BuildRevision

	app.Commands = []cli.Command{
		operations.Service(),
		operations.Client(),
		operations.Report(),
		operations.Analyze(),
		operations.Select(),
		operations.Export(),
		operations.Import(),
	}

	// Global options, independent from specific sub commands.
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "level",
			Value: "info",
			Usage: "Specify lowest visible loglevel as string: 'emergency|alert|critical|error|warning|notice|info|debug'",
		},
	}

	app.Before = func(c *cli.Context) error {
		return errors.WithStack(loggingSetup(app.Name, c.String("level")))
	}

	return app
}

// logging setup is separate to make it unit testable
func loggingSetup(name, logLevel string) error {
	sender := grip.GetSender()
	sender.SetName(name)

	lvl := sender.Level()
	lvl.Threshold = level.FromString(logLevel)
	return errors.WithStack(sender.SetLevel(lvl))
}
