package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mpvshelf/internal/library"
	"mpvshelf/internal/repository"
)

// NewDataCommand groups the archive subcommands: exporting the library to a
// JSON file and restoring from one.
func NewDataCommand(globalOptions *GlobalOptions) *cobra.Command {

	var dataCmd = &cobra.Command{
		Use:   "data",
		Short: "Export or import the library archive",
	}

	var outDir string
	var exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Write the default profile's library to a JSON archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(globalOptions)
			if err != nil {
				return err
			}
			defer repo.Close()

			user, err := repo.GetDefaultUser()
			if err != nil {
				return err
			}
			dest := outDir
			if dest == "" {
				dest = globalOptions.Conf.Database.DataDir
			}
			path, err := library.ExportAllData(repo, user, dest)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
	exportCmd.Flags().StringVar(&outDir, "out-dir", "", "Directory to write the archive into. Defaults to the data directory.")

	var importCmd = &cobra.Command{
		Use:   "import <archive.json>",
		Short: "Restore a library archive written by 'data export'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(globalOptions)
			if err != nil {
				return err
			}
			defer repo.Close()

			user, err := library.ImportAllData(repo, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported library for profile %q\n", user.Username)
			return nil
		},
	}

	dataCmd.AddCommand(exportCmd)
	dataCmd.AddCommand(importCmd)
	return dataCmd
}

func openRepo(globalOptions *GlobalOptions) (*repository.Repository, error) {
	if err := globalOptions.Load(); err != nil {
		return nil, err
	}
	repo, err := repository.NewRepository(globalOptions.Conf)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := repo.EnsureSchemaBootstrapped(); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}
