package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/interchainlabs/relaycore/core"
)

const (
	flagHome   = "home"
	flagHeight = "height"
	flagJSON   = "json"
)

func bindFlag(flags *pflag.FlagSet, name string) {
	if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
		panic(err)
	}
}

func heightFlag(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().Uint64(flagHeight, 0, "height to query at, 0 for latest")
	bindFlag(cmd.Flags(), flagHeight)
	return cmd
}

func jsonFlag(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().BoolP(flagJSON, "j", false, "returns the response in json format")
	bindFlag(cmd.Flags(), flagJSON)
	return cmd
}

// getHeight resolves the --height flag into a query height. The revision
// number comes from the chain being queried.
func getHeight(cmd *cobra.Command, revision uint64) (core.Height, error) {
	h, err := cmd.Flags().GetUint64(flagHeight)
	if err != nil {
		return core.Height{}, err
	}
	if h == 0 {
		return core.ZeroHeight, nil
	}
	return core.NewHeight(revision, h), nil
}
