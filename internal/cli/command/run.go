package command

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/mouse-go/internal/infra/shutdown"
	"github.com/yndnr/mouse-go/internal/node"
	"github.com/yndnr/mouse-go/internal/node/config"
	"github.com/yndnr/mouse-go/internal/telemetry/logger"
)

func runNode(c *cli.Context) error {
	configPath := c.String("config")
	overrides := Overrides(c)

	cfg, err := config.Load(configPath, overrides)
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid configuration: %v", err), ExitConfig)
	}

	n, err := node.New(c.Context, node.Options{
		Config:     cfg,
		ConfigPath: configPath,
		Overrides:  overrides,
		LogOutput:  c.App.ErrWriter,
	})
	if err != nil {
		return err
	}
	logger.SetDefault(n.Logger())

	if err := n.Run(); err != nil {
		return signalSetupExit(err)
	}
	return nil
}

// signalSetupExit turns a watcher failure into an exit status that carries
// the OS error code.
func signalSetupExit(err error) error {
	var errno syscall.Errno
	if errors.Is(err, shutdown.ErrSignalSetup) && errors.As(err, &errno) {
		return cli.Exit(fmt.Sprintf("signal watcher failed: %v (errno %d)", err, int(errno)), ExitSignalSetup)
	}
	return err
}
