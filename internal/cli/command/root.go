package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/dms-portal/internal/cli/output"
	"github.com/yndnr/dms-portal/internal/infra/buildinfo"
	"github.com/yndnr/dms-portal/internal/infra/confloader"
	"github.com/yndnr/dms-portal/internal/server/config"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "dms-portal",
		Usage:   "Web portal for the data mining service",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			ServeCommand(),
			VersionCommand(),
			ConfigCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the YAML configuration file",
			EnvVars: []string{"DMS_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "env-file",
			Usage:   "Path to a dotenv file loaded before the environment",
			EnvVars: []string{"DMS_ENV_FILE"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   string(output.FormatTable),
		},
		&cli.StringFlag{
			Name:  "addr",
			Usage: "Override server.http.addr",
		},
		&cli.StringFlag{
			Name:  "backend-url",
			Usage: "Override backend.base_url",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Override log.level (debug, info, warn, error)",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	ConfigFile string
	EnvFile    string
	Output     string

	// Overrides applied on top of file and environment.
	Addr       string
	BackendURL string
	LogLevel   string
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		ConfigFile: c.String("config"),
		EnvFile:    c.String("env-file"),
		Output:     c.String("output"),
		Addr:       c.String("addr"),
		BackendURL: c.String("backend-url"),
		LogLevel:   c.String("log-level"),
	}
}

// overrides returns the dotted config keys set from flags.
func (f *GlobalFlags) overrides() map[string]any {
	out := make(map[string]any)
	if f.Addr != "" {
		out["server.http.addr"] = f.Addr
	}
	if f.BackendURL != "" {
		out["backend.base_url"] = f.BackendURL
	}
	if f.LogLevel != "" {
		out["log.level"] = f.LogLevel
	}
	return out
}

// loaderOptions returns the confloader options for f.
func (f *GlobalFlags) loaderOptions() []confloader.Option {
	opts := []confloader.Option{confloader.WithOverrides(f.overrides())}
	if f.ConfigFile != "" {
		opts = append(opts, confloader.WithConfigFile(f.ConfigFile))
	}
	if f.EnvFile != "" {
		opts = append(opts, confloader.WithEnvFile(f.EnvFile))
	}
	return opts
}

// loadConfig merges defaults, file, environment and flag overrides.
// The result is not verified.
func loadConfig(f *GlobalFlags) (*config.PortalConfig, error) {
	cfg := config.Default()
	if err := confloader.NewLoader(f.loaderOptions()...).Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// formatter returns the formatter selected by --output.
func formatter(f *GlobalFlags) (output.Formatter, error) {
	format, err := output.ParseFormat(f.Output)
	if err != nil {
		return nil, err
	}
	return output.NewFormatter(format), nil
}

// stdout returns the writer command output goes to.
func stdout(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
