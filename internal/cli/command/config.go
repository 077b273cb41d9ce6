package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/dms-portal/internal/server/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect the effective configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "print",
				Usage:  "Print the merged configuration with secrets masked",
				Action: configPrint,
			},
			{
				Name:   "check",
				Usage:  "Validate the merged configuration",
				Action: configCheck,
			},
		},
	}
}

func configPrint(c *cli.Context) error {
	flags := ParseGlobalFlags(c)
	if flags.Output == "table" && !c.IsSet("output") {
		flags.Output = "yaml"
	}

	f, err := formatter(flags)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return f.Format(stdout(c), config.Sanitize(cfg))
}

func configCheck(c *cli.Context) error {
	cfg, err := loadConfig(ParseGlobalFlags(c))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.Verify(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	fmt.Fprintln(stdout(c), "configuration is valid")
	return nil
}
