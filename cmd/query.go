package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/interchainlabs/relaycore/config"
	"github.com/interchainlabs/relaycore/core"
)

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "query",
		Aliases: []string{"q"},
		Short:   "verified queries against a configured chain",
	}
	cmd.AddCommand(
		queryChannelCmd(),
		queryClientCmd(),
		queryPacketCommitmentCmd(),
		queryNextSequenceCmd(),
	)
	return cmd
}

func queryChannelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channel [chain-id] [port-id] [channel-id]",
		Short: "query a verified channel end",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, engine, err := chainAndEngine(cmd, args[0])
			if err != nil {
				return err
			}
			height, err := getHeight(cmd, chainRevision(args[0]))
			if err != nil {
				return err
			}
			channel, proof, err := engine.QueryChannel(cmd.Context(), chain, args[1], args[2], height)
			if err != nil {
				return err
			}
			if channel == nil {
				return fmt.Errorf("channel %s/%s does not exist (proven absent at %s)", args[1], args[2], proof.Height)
			}
			return printJSON(cmd, channel)
		},
	}
	return heightFlag(cmd)
}

func queryClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client [chain-id]",
		Short: "query the verified client state the chain hosts for its counterparty",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, engine, err := chainAndEngine(cmd, args[0])
			if err != nil {
				return err
			}
			height, err := getHeight(cmd, chainRevision(args[0]))
			if err != nil {
				return err
			}
			cs, proof, err := engine.QueryClientState(cmd.Context(), chain, chain.ClientID(), height)
			if err != nil {
				return err
			}
			if cs == nil {
				return fmt.Errorf("client %s does not exist (proven absent at %s)", chain.ClientID(), proof.Height)
			}
			return printJSON(cmd, cs)
		},
	}
	return heightFlag(cmd)
}

func queryPacketCommitmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packet-commitment [chain-id] [port-id] [channel-id] [sequence]",
		Short: "query a verified packet commitment",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := strconv.ParseUint(args[3], 10, 64)
			if err != nil {
				return err
			}
			chain, engine, err := chainAndEngine(cmd, args[0])
			if err != nil {
				return err
			}
			height, err := getHeight(cmd, chainRevision(args[0]))
			if err != nil {
				return err
			}
			commitment, proof, err := engine.QueryPacketCommitment(cmd.Context(), chain, args[1], args[2], seq, height)
			if err != nil {
				return err
			}
			if commitment == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "no commitment for sequence %d (proven absent at %s)\n", seq, proof.Height)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(commitment))
			return nil
		},
	}
	return heightFlag(cmd)
}

func queryNextSequenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next-sequence [chain-id] [port-id] [channel-id]",
		Short: "query the verified next send and receive sequences",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, engine, err := chainAndEngine(cmd, args[0])
			if err != nil {
				return err
			}
			height, err := getHeight(cmd, chainRevision(args[0]))
			if err != nil {
				return err
			}
			send, _, err := engine.QueryNextSequenceSend(cmd.Context(), chain, args[1], args[2], height)
			if err != nil {
				return err
			}
			recv, _, err := engine.QueryNextSequenceRecv(cmd.Context(), chain, args[1], args[2], height)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "next_sequence_send: %d\nnext_sequence_recv: %d\n", send, recv)
			return nil
		},
	}
	return heightFlag(cmd)
}

// chainAndEngine builds the registry from the config and resolves one chain.
func chainAndEngine(cmd *cobra.Command, chainID string) (*core.Chain, *core.Engine, error) {
	registry, err := config.BuildRegistry(cmd.Context(), cfg, homeDir)
	if err != nil {
		return nil, nil, err
	}
	chain, err := registry.Get(chainID)
	if err != nil {
		return nil, nil, err
	}
	return chain, core.NewEngine(), nil
}

// chainRevision extracts the revision number from a chain ID suffix.
func chainRevision(chainID string) uint64 {
	idx := strings.LastIndex(chainID, "-")
	if idx < 0 {
		return 0
	}
	revision, err := strconv.ParseUint(chainID[idx+1:], 10, 64)
	if err != nil {
		return 0
	}
	return revision
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return nil
}
