package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/awantoch/traccarproxy/config"
	"github.com/awantoch/traccarproxy/utils"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	exit       = os.Exit
	configPath string
	debug      bool
)

// NewRootCmd creates the root 'traccarproxy' command with persistent flags and subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "traccarproxy",
		Short:         "Proxy Traccar position data with server-side credentials",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to config file (JSON or YAML)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logs")

	rootCmd.AddCommand(newServeCmd(), newFetchCmd(), newVersionCmd())
	return rootCmd
}

// loadConfig reads --config (missing file means defaults), applies the
// environment and sets the log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Log.Level = "debug"
	}
	utils.SetLevel(cfg.Log.Level)
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			utils.User("traccarproxy %s", version)
		},
	}
}
