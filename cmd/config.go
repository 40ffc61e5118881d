package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/interchainlabs/relaycore/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"cfg"},
		Short:   "manage configuration file",
	}
	cmd.AddCommand(
		configInitCmd(),
		configShowCmd(),
	)
	return cmd
}

func configInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "create a default configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := configPath()
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config already exists: %s", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			bz, err := json.MarshalIndent(config.DefaultConfig(), "", "  ")
			if err != nil {
				return err
			}
			return os.WriteFile(path, bz, 0o600)
		},
	}
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Aliases: []string{"list"},
		Short:   "print the current configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bz, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return nil
		},
	}
}
