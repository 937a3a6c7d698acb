package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pthm/hxdash/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, p, err := openAuth(ctx)
		if err != nil {
			return err
		}
		defer p.Close()

		srv, err := server.New(cfg, store, logger)
		if err != nil {
			return err
		}
		return srv.Run(ctx)
	},
}
