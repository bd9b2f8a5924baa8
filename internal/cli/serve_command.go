// Currently the code uses simple if then statements. If more options are added,
// swapping to github.com/spf13/viper could be helpful. For now, I like simplicity.
package cli

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

type ServeOptions struct {
	Host       string
	Port       int
	MpvPath    string
	DataDir    string
	Interval   string
	AddFolders []string
	Username   string
}

func NewServeCommand(globalOptions *GlobalOptions) *cobra.Command {
	serveOptions := &ServeOptions{}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the library daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := globalOptions.Load(); err != nil {
				return err
			}
			serveOptions.registerEnvVars()
			serveOptions.applyOverrides(globalOptions)
			return runServer(globalOptions, serveOptions)
		},
	}

	serveOptions.registerFlags(serveCmd)

	return serveCmd
}

func (options *ServeOptions) registerFlags(cmd *cobra.Command) {
	// flags for the serve command only
	cmd.Flags().StringVar(&options.Host, "host", "", "Interface for the HTTP server. (Env: MPVSHELF_HOST)")
	cmd.Flags().IntVar(&options.Port, "port", 0, "Port for the HTTP server. (Env: MPVSHELF_PORT)")
	cmd.Flags().StringVar(&options.MpvPath, "mpv-path", "", "Path to the mpv executable. (Env: MPVSHELF_MPV_PATH)")
	cmd.Flags().StringVar(&options.DataDir, "data-dir", "", "Directory for covers, exports and downloaded binaries. (Env: MPVSHELF_DATA_DIR)")
	cmd.Flags().StringVar(&options.Interval, "housekeeping-interval", "", "How often to rescan root folders, e.g. '30m', '12h', '1d'. 0 disables. (Env: MPVSHELF_HOUSEKEEPING_INTERVAL)")
	cmd.Flags().StringSliceVar(&options.AddFolders, "add-folder", nil, "Root folder to register and scan on startup. May be repeated.")
	cmd.Flags().StringVar(&options.Username, "username", "main", "Display name for the default profile, used when it does not exist yet.")
}

// In case a variable was not defined in the cli arguments, we check for env variables
func (options *ServeOptions) registerEnvVars() {
	getEnv := func(key string) string { return os.Getenv(key) }

	if options.Host == "" {
		options.Host = getEnv("MPVSHELF_HOST")
	}
	if options.Port == 0 {
		portstr := getEnv("MPVSHELF_PORT")
		if p, err := strconv.Atoi(portstr); err == nil {
			options.Port = p
		}
	}
	if options.MpvPath == "" {
		options.MpvPath = getEnv("MPVSHELF_MPV_PATH")
	}
	if options.DataDir == "" {
		options.DataDir = getEnv("MPVSHELF_DATA_DIR")
	}
	if options.Interval == "" {
		options.Interval = getEnv("MPVSHELF_HOUSEKEEPING_INTERVAL")
	}
}

// applyOverrides writes flag/env values over the loaded config.
func (options *ServeOptions) applyOverrides(globalOptions *GlobalOptions) {
	cfg := globalOptions.Conf
	if options.Host != "" {
		cfg.Server.Host = options.Host
	}
	if options.Port != 0 {
		cfg.Server.Port = options.Port
	}
	if options.MpvPath != "" {
		cfg.Mpv.ExePath = options.MpvPath
	}
	if options.DataDir != "" {
		cfg.Database.DataDir = options.DataDir
	}
	if options.Interval != "" {
		cfg.Housekeeping.Interval = options.Interval
	}
}
