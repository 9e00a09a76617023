package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bloodlink/bloodlink-api/internal/app"
	"github.com/bloodlink/bloodlink-api/internal/repository/postgres"
	"github.com/bloodlink/bloodlink-api/internal/seed"
	"github.com/bloodlink/bloodlink-api/pkg/messaging"
)

func NewSeedCommand(root *RootOptions) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo accounts, inventory and events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, db, err := root.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if migrate {
				if err := postgres.Migrate(ctx, db.DB, "up"); err != nil {
					return err
				}
			}

			svcs, err := app.NewServices(cfg, app.Deps{
				Repos:     postgres.NewStore(db),
				Publisher: messaging.NopBroker{},
			})
			if err != nil {
				return err
			}

			res, err := seed.Run(ctx, svcs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d accounts, %d inventory rows, %d requests, %d events\n",
				res.Accounts, res.Inventory, res.Requests, res.Events)
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations first")
	return cmd
}
