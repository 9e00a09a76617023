// Package cli implements bloodlinkctl, the operator command line.
package cli

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/bloodlink/bloodlink-api/internal/config"
	"github.com/bloodlink/bloodlink-api/internal/repository/postgres"
	"github.com/bloodlink/bloodlink-api/pkg/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigDir string
	Verbose   bool
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "bloodlinkctl",
		Short:         "BloodLink operations tool",
		Long:          "Runs database migrations and loads demo data for the BloodLink API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigDir, "config", "c", "", "directory containing config.yaml")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

func (o *RootOptions) loadConfig() (*config.Config, error) {
	var paths []string
	if o.ConfigDir != "" {
		paths = append(paths, o.ConfigDir)
	}
	cfg, err := config.LoadConfig(paths...)
	if err != nil {
		return nil, err
	}

	level := cfg.App.LogLevel
	if o.Verbose {
		level = "debug"
	}
	logger.Setup(logger.Config{Level: level, Pretty: true})
	return cfg, nil
}

func (o *RootOptions) openDB(ctx context.Context) (*config.Config, *sqlx.DB, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, db, nil
}
