package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/interchainlabs/relaycore/config"
	"github.com/interchainlabs/relaycore/log"
	"github.com/interchainlabs/relaycore/metrics"
)

var (
	homeDir string
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rlyd",
	Short: "This application relays packets between configured IBC enabled chains",
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.SilenceUsage = true

	defaultHome := "~/.rlyd"
	if home, err := os.UserHomeDir(); err == nil {
		defaultHome = filepath.Join(home, ".rlyd")
	}
	rootCmd.PersistentFlags().StringVar(&homeDir, flagHome, defaultHome, "set home directory")

	rootCmd.AddCommand(
		configCmd(),
		chainsCmd(),
		pathsCmd(),
		queryCmd(),
		transferCmd(),
		serviceCmd(),
	)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		// Commands that manage the config file itself run without one.
		if cmd.Name() == "init" {
			return initRuntime(config.DefaultConfig())
		}
		if _, err := os.Stat(configPath()); err != nil {
			return initRuntime(config.DefaultConfig())
		}
		loaded, err := config.Load(configPath())
		if err != nil {
			return err
		}
		cfg = loaded
		return initRuntime(*loaded)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initRuntime brings up logging and the null metrics exporter from the
// config. Commands that serve metrics re-initialize with a real exporter.
func initRuntime(c config.Config) error {
	if cfg == nil {
		cfg = &c
	}
	if err := log.InitLogger(c.Global.Logger.Level, c.Global.Logger.Format, c.Global.Logger.Output); err != nil {
		return err
	}
	return metrics.InitializeMetrics(metrics.ExporterNull{})
}

func configPath() string {
	return filepath.Join(homeDir, "config", "config.json")
}
