package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/interchainlabs/relaycore/config"
	"github.com/interchainlabs/relaycore/core"
	"github.com/interchainlabs/relaycore/log"
	"github.com/interchainlabs/relaycore/metrics"
)

func serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "relay service commands",
		Long:  "Commands to manage the relay service",
	}
	cmd.AddCommand(
		startCmd(),
	)
	return cmd
}

func startCmd() *cobra.Command {
	const (
		flagRelayInterval  = "relay-interval"
		flagPrometheusAddr = "prometheus-addr"
	)

	cmd := &cobra.Command{
		Use:  "start [path-name]",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if viper.GetString(flagPrometheusAddr) != "" {
				if err := metrics.ShutdownMetrics(cmd.Context()); err != nil {
					return fmt.Errorf("failed to shutdown the metrics subsystem with null exporter: %v", err)
				}
				if err := metrics.InitializeMetrics(metrics.ExporterProm{Addr: viper.GetString(flagPrometheusAddr)}); err != nil {
					return fmt.Errorf("failed to re-initialize the metrics subsystem with prometheus exporter: %v", err)
				}
			}

			path, err := cfg.Paths.Get(args[0])
			if err != nil {
				return err
			}
			registry, err := config.BuildRegistry(cmd.Context(), cfg, homeDir)
			if err != nil {
				return err
			}
			src, err := registry.Get(path.Src.ChainID)
			if err != nil {
				return err
			}
			dst, err := registry.Get(path.Dst.ChainID)
			if err != nil {
				return err
			}

			interval := viper.GetDuration(flagRelayInterval)
			if interval == 0 {
				if interval, err = cfg.Global.Interval(); err != nil {
					return err
				}
			}

			service := core.NewRelayService(
				src, dst,
				path.Src, path.Dst,
				newLogSubmitter(src.ChainID()), newLogSubmitter(dst.ChainID()),
				core.NewEngine(),
				interval,
				cfg.Global.MaxDatagramsPerTx,
			)
			return service.Start(cmd.Context())
		},
	}
	cmd.Flags().Duration(flagRelayInterval, 0, "time interval to perform relays")
	cmd.Flags().String(flagPrometheusAddr, "localhost:2223", "host address to which the prometheus exporter listens")
	if err := viper.BindPFlag(flagRelayInterval, cmd.Flags().Lookup(flagRelayInterval)); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag(flagPrometheusAddr, cmd.Flags().Lookup(flagPrometheusAddr)); err != nil {
		panic(err)
	}
	return cmd
}

// logSubmitter emits each datagram instead of broadcasting it. Transaction
// signing and broadcast live behind the Submitter interface so chain-specific
// senders can slot in without touching the relay loop.
type logSubmitter struct {
	chainID string
}

func newLogSubmitter(chainID string) core.Submitter {
	return logSubmitter{chainID: chainID}
}

func (s logSubmitter) SubmitDatagrams(ctx context.Context, msgs []core.Datagram) error {
	logger := log.GetLogger().WithChain(s.chainID).WithModule("cmd.submitter")
	for _, msg := range msgs {
		logger.InfoContext(ctx, "datagram ready for submission", "type", msg.Type())
	}
	return nil
}
