package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/interchainlabs/relaycore/transfer/types"
)

func transferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "helpers for the fungible token transfer application",
	}
	cmd.AddCommand(
		transferEscrowAddressCmd(),
		transferDenomHashCmd(),
	)
	return cmd
}

func transferEscrowAddressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "escrow-address [port-id] [channel-id]",
		Short: "derive the escrow address for a channel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), types.GetEscrowAddress(args[0], args[1]))
			return nil
		},
	}
}

func transferDenomHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "denom-hash [trace]",
		Short: "derive the local voucher denomination for a denomination trace",
		Long:  "Derives the ibc/{hash} voucher denomination from a full denomination path such as transfer/channel-0/uatom.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trace := types.ParseDenomTrace(args[0])
			if err := trace.Validate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), trace.IBCDenom())
			return nil
		},
	}
}
