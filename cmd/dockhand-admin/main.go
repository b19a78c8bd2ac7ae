// Command dockhand-admin runs maintenance tasks against a dockhand deployment
// and previews sidebar decisions offline.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dockhand/dockhand-ui/config"
	"github.com/dockhand/dockhand-ui/internal/bootstrap"
)

const defaultCommandTimeout = 5 * time.Minute

// app carries what every subcommand needs. Config is loaded on first use so
// offline commands such as "nav show" work without a database environment.
type app struct {
	logger     *slog.Logger
	in         io.Reader
	out        io.Writer
	errOut     io.Writer
	loadConfig func() (config.AppConfig, error)

	timeout time.Duration
	cfg     *config.AppConfig
}

func newApp(logger *slog.Logger) *app {
	return &app{
		logger:     logger,
		in:         os.Stdin,
		out:        os.Stdout,
		errOut:     os.Stderr,
		loadConfig: bootstrap.LoadConfig,
		timeout:    defaultCommandTimeout,
	}
}

func (a *app) config() (*config.AppConfig, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	a.cfg = &cfg
	return a.cfg, nil
}

func main() {
	logger := bootstrap.InitLogger()
	root := newRootCmd(newApp(logger))
	if err := root.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "dockhand-admin",
		Short:         "Administrative tasks for dockhand",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", defaultCommandTimeout, "overall deadline for database work")

	root.AddCommand(
		newMigrateCmd(a),
		newSeedCmd(a),
		newNavCmd(a),
		newSettingsCmd(a),
		newTemplatesCmd(a),
	)
	return root
}
