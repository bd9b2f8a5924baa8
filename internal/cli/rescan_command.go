package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mpvshelf/internal/housekeeping"
	"mpvshelf/internal/library"
	"mpvshelf/internal/repository"
)

// NewRescanCommand runs a one-shot reconciliation of every root folder, the
// same pass the background housekeeping schedule performs.
func NewRescanCommand(globalOptions *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rescan",
		Short: "Reconcile all registered folders with the filesystem once",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := globalOptions.Load(); err != nil {
				return err
			}

			repo, err := repository.NewRepository(globalOptions.Conf)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer repo.Close()

			if err := repo.EnsureSchemaBootstrapped(); err != nil {
				return err
			}

			svc := housekeeping.NewService(housekeeping.Dependencies{
				DB:       repo,
				Hydrator: library.NewReconciler(repo),
			}, housekeeping.MinInterval)
			svc.RunScan()
			return nil
		},
	}
}
