package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mpvshelf/internal/config"
)

// NewConfigCommand groups the configuration subcommands.
func NewConfigCommand(globalOptions *GlobalOptions) *cobra.Command {

	var configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage the daemon configuration file",
	}

	var force bool
	var initCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file populated with defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := globalOptions.CfgFilePath
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}

			cfg := &config.Config{}
			if err := cfg.ParseAndValidate(); err != nil {
				return err
			}
			if err := config.SaveConfig(path, cfg); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file.")

	configCmd.AddCommand(initCmd)
	return configCmd
}
