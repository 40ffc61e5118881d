package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func chainsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chains",
		Short: "commands to inspect configured chains",
	}
	cmd.AddCommand(
		chainsListCmd(),
	)
	return cmd
}

func chainsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list the chains in the configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if viper.GetBool(flagJSON) {
				bz, err := json.MarshalIndent(cfg.Chains, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(bz))
				return nil
			}
			for _, chain := range cfg.Chains {
				fmt.Fprintf(out, "%s -> client(%s) providers(%d)\n", chain.ChainID, chain.ClientID, len(chain.RPCAddrs))
			}
			return nil
		},
	}
	return jsonFlag(cmd)
}
