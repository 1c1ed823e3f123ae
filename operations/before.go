package operations

import (
	"github.com/evergreen-ci/benchboard/util"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// validators for the flags of commands and subcommands, passed as
// cli.BeforeFuncs.

var (
	requireClientHostFlag = func(c *cli.Context) error {
		if c.Parent().String(clientHostFlag) == "" {
			return errors.New("host not specified for client")
		}
		return nil
	}

	requireKeys = func(c *cli.Context) error {
		if len(keysFromContext(c)) == 0 {
			return errors.Errorf("must specify at least one '--%s' or positional key", keyFlag)
		}
		return nil
	}
)

func requireStringFlag(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		if c.String(name) == "" {
			return errors.Errorf("flag '--%s' was not specified", name)
		}
		return nil
	}
}

func requireFileExists(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		path := c.String(name)
		if path == "" {
			return nil
		}
		if !util.FileExists(path) {
			return errors.Errorf("file '%s' does not exist", path)
		}

		return nil
	}
}

func mergeBeforeFuncs(ops ...func(c *cli.Context) error) cli.BeforeFunc {
	return func(c *cli.Context) error {
		catcher := grip.NewBasicCatcher()

		for _, op := range ops {
			catcher.Add(op(c))
		}

		return catcher.Resolve()
	}
}
