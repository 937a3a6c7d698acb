package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pthm/hxdash/internal/config"
	"github.com/pthm/hxdash/lib/auth"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

var (
	// configFile is set by the --config flag.
	configFile string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "hxdash",
	Short:         "hxdash is an admin dashboard for the publishing platform",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger = cfg.NewLogger()
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: hxdash.yaml or ~/.hxdash/hxdash.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(versionCmd)
}

// openAuth opens the persisted auth marker. The caller closes the
// returned persister.
func openAuth(ctx context.Context) (*auth.Store, *auth.SQLitePersister, error) {
	p, err := auth.OpenSQLite(cfg.State.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open state: %w", err)
	}
	store, err := auth.Open(ctx, p)
	if err != nil {
		p.Close()
		return nil, nil, err
	}
	return store, p, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hxdash %s\n", Version)
	},
}
