package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/dms-portal/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show build information",
		Action: runVersion,
	}
}

func runVersion(c *cli.Context) error {
	f, err := formatter(ParseGlobalFlags(c))
	if err != nil {
		return err
	}
	return f.Format(stdout(c), buildinfo.Get())
}
