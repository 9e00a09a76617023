package cli

import (
	"github.com/spf13/cobra"

	"github.com/bloodlink/bloodlink-api/internal/repository/postgres"
)

func NewMigrateCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	for _, sub := range []struct {
		name, short string
	}{
		{"up", "Apply all pending migrations"},
		{"down", "Roll back the latest migration"},
		{"status", "Show applied and pending migrations"},
		{"version", "Print the current schema version"},
	} {
		command := sub.name
		cmd.AddCommand(&cobra.Command{
			Use:   command,
			Short: sub.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				_, db, err := root.openDB(cmd.Context())
				if err != nil {
					return err
				}
				defer db.Close()
				return postgres.Migrate(cmd.Context(), db.DB, command)
			},
		})
	}

	return cmd
}
