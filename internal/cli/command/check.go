package command

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/mouse-go/internal/node/config"
)

// CheckCommand validates the configuration and prints the resolved values.
func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Validate the configuration and print the resolved values",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"), Overrides(c))
			if err != nil {
				return cli.Exit(fmt.Sprintf("invalid configuration: %v", err), ExitConfig)
			}

			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	}
}
