package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mpvshelf/internal/config"
	"mpvshelf/internal/logging"
)

// Version of the daemon, reported by /api/info.
var Version = "0.1.0"

type GlobalOptions struct {
	CfgFilePath string
	LogLevel    string

	Conf *config.Config
}

func NewRootCMD() *cobra.Command {

	globalOptions := &GlobalOptions{}

	rootCMD := &cobra.Command{
		Use:   "mpvshelf",
		Short: "mpvshelf media library daemon",
		Long:  "A local daemon that tracks video folders, watch positions, and drives the mpv player.",
	}

	// register global flags
	globalOptions.registerFlags(rootCMD)

	// add subcommands
	rootCMD.AddCommand(NewServeCommand(globalOptions))
	rootCMD.AddCommand(NewMigrateCommand(globalOptions))
	rootCMD.AddCommand(NewRescanCommand(globalOptions))
	rootCMD.AddCommand(NewDataCommand(globalOptions))
	rootCMD.AddCommand(NewConfigCommand(globalOptions))

	return rootCMD
}

func (options *GlobalOptions) registerFlags(cmd *cobra.Command) {
	// flags that can be used for each command
	cmd.PersistentFlags().StringVar(&options.CfgFilePath, "config_path", "config.toml", "Path to the base configuration file. (Env: MPVSHELF_CONFIG_PATH)")
	cmd.PersistentFlags().StringVar(&options.LogLevel, "log-level", "", "Logging level (debug, info, warn, error). (Env: MPVSHELF_LOG_LEVEL)")
}

// Load resolves the configuration for the invoked command: environment
// fallbacks for unset flags, then the config file, then validation.
func (options *GlobalOptions) Load() error {
	if envPath := os.Getenv("MPVSHELF_CONFIG_PATH"); envPath != "" && options.CfgFilePath == "config.toml" {
		options.CfgFilePath = envPath
	}
	if options.LogLevel == "" {
		options.LogLevel = os.Getenv("MPVSHELF_LOG_LEVEL")
	}

	cfg, err := config.LoadConfig(options.CfgFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file is fine, rely on defaults and flags.
			cfg = &config.Config{}
		} else {
			return fmt.Errorf("failed to load configuration from %s: %w", options.CfgFilePath, err)
		}
	}

	if options.LogLevel != "" {
		cfg.Logging.Level = options.LogLevel
	}

	if err := cfg.ParseAndValidate(); err != nil {
		return err
	}

	logging.Init(cfg.Logging.Level)
	options.Conf = cfg
	return nil
}

func Execute() {

	rootCmd := NewRootCMD()

	// Run the command based on os.Args
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
