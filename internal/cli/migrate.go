package cli

import (
	"fmt"
	"log/slog"

	repository "github.com/aaravmahajanofficial/storefront-cart/internal/repositories"
	"github.com/spf13/cobra"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long: `Apply the embedded schema for the configured driver.

Every statement is idempotent, so running it against an up-to-date
database is a no-op.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config()

			repo, err := repository.New(&cfg.Database)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.Migrate(cmd.Context()); err != nil {
				return err
			}

			slog.Info("Schema applied", slog.String("driver", cfg.Database.Driver))
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")

			return nil
		},
	}
}
