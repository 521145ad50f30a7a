package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"reeldocs/internal/daemon"
	"reeldocs/internal/logging"
)

// newDaemonRunCommand runs the daemon in the foreground, the same wiring as
// the reeldocsd binary but reachable from the CLI for development.
func newDaemonRunCommand(cliCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon-run",
		Short: "Run the daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			d, err := daemon.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			return nil
		},
	}
}
