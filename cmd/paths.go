package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func pathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "commands to inspect configured relay paths",
	}
	cmd.AddCommand(
		pathsListCmd(),
		pathsShowCmd(),
	)
	return cmd
}

func pathsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list the relay paths in the configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if viper.GetBool(flagJSON) {
				return printJSON(cmd, cfg.Paths)
			}
			names := make([]string, 0, len(cfg.Paths))
			for name := range cfg.Paths {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				path := cfg.Paths[name]
				fmt.Fprintf(out, "%s: %s <-> %s\n", name, path.Src, path.Dst)
			}
			return nil
		},
	}
	return jsonFlag(cmd)
}

func pathsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [path-name]",
		Short: "show one relay path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cfg.Paths.Get(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, path)
		},
	}
}
