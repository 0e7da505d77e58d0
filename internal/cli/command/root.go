package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/mouse-go/internal/infra/buildinfo"
)

// Exit codes.
const (
	ExitConfig      = 2
	ExitSignalSetup = 3
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "mouse-node",
		Usage:   "Run a mouse storage node",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Action:  runNode,
		Commands: []*cli.Command{
			CheckCommand(),
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
			EnvVars: []string{"MOUSE_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "kvs-db-path",
			Usage: "Directory holding the key-value databases",
		},
		&cli.Int64Flag{
			Name:  "cache-size-soft-limit",
			Usage: "Byte size above which cached records are evicted",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: json, text",
		},
		&cli.StringFlag{
			Name:  "metrics-addr",
			Usage: "Serve metrics and health endpoints on this address",
		},
	}
}

// Overrides maps the flags set on the command line to configuration keys.
// Unset flags are left out so they do not mask file or env values.
func Overrides(c *cli.Context) map[string]any {
	out := make(map[string]any)
	if c.IsSet("kvs-db-path") {
		out["kvs.path"] = c.String("kvs-db-path")
	}
	if c.IsSet("cache-size-soft-limit") {
		out["cache.size_soft_limit"] = c.Int64("cache-size-soft-limit")
	}
	if c.IsSet("log-level") {
		out["log.level"] = c.String("log-level")
	}
	if c.IsSet("log-format") {
		out["log.format"] = c.String("log-format")
	}
	if c.IsSet("metrics-addr") {
		out["metrics.enabled"] = true
		out["metrics.addr"] = c.String("metrics-addr")
	}
	return out
}
