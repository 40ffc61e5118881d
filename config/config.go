package config

import (
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/spf13/viper"

	"github.com/interchainlabs/relaycore/core"
)

// Config is the on-disk configuration of the relayer daemon.
type Config struct {
	Global GlobalConfig  `json:"global" yaml:"global"`
	Chains []ChainConfig `json:"chains" yaml:"chains"`
	Paths  core.Paths    `json:"paths" yaml:"paths"`
}

// GlobalConfig holds settings shared by all chains and paths.
type GlobalConfig struct {
	// Timeout bounds every RPC call, as a duration string.
	Timeout string `json:"timeout" yaml:"timeout"`
	// RelayInterval is the pause between relay rounds.
	RelayInterval string `json:"relay-interval" yaml:"relay-interval"`
	// MaxDatagramsPerTx caps how many datagrams a single submission carries.
	MaxDatagramsPerTx uint64        `json:"max-datagrams-per-tx" yaml:"max-datagrams-per-tx"`
	Logger            LoggerConfig  `json:"logger" yaml:"logger"`
	Metrics           MetricsConfig `json:"metrics" yaml:"metrics"`
}

type LoggerConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	Output string `json:"output" yaml:"output"`
}

type MetricsConfig struct {
	// Exporter selects the metrics backend: "null" or "prometheus".
	Exporter string `json:"exporter" yaml:"exporter"`
	// Addr is the listen address of the prometheus endpoint.
	Addr string `json:"addr" yaml:"addr"`
}

// ChainConfig describes one chain: its identity, the providers to query it
// through and the trusted node backing its light client.
type ChainConfig struct {
	ChainID  string `json:"chain-id" yaml:"chain-id"`
	ClientID string `json:"client-id" yaml:"client-id"`
	// RPCAddrs are the provider endpoints in failover order. The first entry
	// is used until it faults.
	RPCAddrs []string `json:"rpc-addrs" yaml:"rpc-addrs"`
	// TrustedRPCAddr is the node the light client follows. It is deliberately
	// separate from the provider pool.
	TrustedRPCAddr string `json:"trusted-rpc-addr" yaml:"trusted-rpc-addr"`
	TrustingPeriod string `json:"trusting-period" yaml:"trusting-period"`
}

func DefaultConfig() Config {
	return Config{
		Global: GlobalConfig{
			Timeout:           "10s",
			RelayInterval:     "3s",
			MaxDatagramsPerTx: 30,
			Logger: LoggerConfig{
				Level:  "INFO",
				Format: "json",
				Output: "stderr",
			},
			Metrics: MetricsConfig{
				Exporter: "null",
				Addr:     ":2223",
			},
		},
		Chains: []ChainConfig{},
		Paths:  core.Paths{},
	}
}

func (c Config) Validate() error {
	if _, err := c.Global.RPCTimeout(); err != nil {
		return err
	}
	if _, err := c.Global.Interval(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Chains))
	for _, chain := range c.Chains {
		if err := chain.Validate(); err != nil {
			return err
		}
		if seen[chain.ChainID] {
			return errorsmod.Wrapf(core.ErrChainAlreadyExists, "duplicate chain %s in config", chain.ChainID)
		}
		seen[chain.ChainID] = true
	}
	for name, path := range c.Paths {
		if err := path.Validate(); err != nil {
			return errorsmod.Wrapf(err, "invalid path %s", name)
		}
		if !seen[path.Src.ChainID] {
			return errorsmod.Wrapf(core.ErrChainNotFound, "path %s references unknown chain %s", name, path.Src.ChainID)
		}
		if !seen[path.Dst.ChainID] {
			return errorsmod.Wrapf(core.ErrChainNotFound, "path %s references unknown chain %s", name, path.Dst.ChainID)
		}
	}
	return nil
}

func (c ChainConfig) Validate() error {
	if c.ChainID == "" {
		return errorsmod.Wrap(core.ErrInvalidChain, "chain-id cannot be empty")
	}
	if err := core.ClientIdentifierValidator(c.ClientID); err != nil {
		return errorsmod.Wrapf(err, "chain %s", c.ChainID)
	}
	if len(c.RPCAddrs) == 0 {
		return errorsmod.Wrapf(core.ErrInvalidChain, "chain %s has no rpc-addrs", c.ChainID)
	}
	if c.TrustedRPCAddr == "" {
		return errorsmod.Wrapf(core.ErrInvalidChain, "chain %s has no trusted-rpc-addr", c.ChainID)
	}
	if _, err := c.TrustPeriod(); err != nil {
		return errorsmod.Wrapf(err, "chain %s", c.ChainID)
	}
	return nil
}

// RPCTimeout parses the global RPC timeout.
func (gc GlobalConfig) RPCTimeout() (time.Duration, error) {
	return time.ParseDuration(gc.Timeout)
}

// Interval parses the relay interval.
func (gc GlobalConfig) Interval() (time.Duration, error) {
	return time.ParseDuration(gc.RelayInterval)
}

// TrustPeriod parses the trusting period, defaulting to two weeks.
func (c ChainConfig) TrustPeriod() (time.Duration, error) {
	if c.TrustingPeriod == "" {
		return 14 * 24 * time.Hour, nil
	}
	return time.ParseDuration(c.TrustingPeriod)
}

// Load reads the config file at path and validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errorsmod.Wrapf(err, "cannot read config %s", path)
	}

	config := DefaultConfig()
	if err := v.Unmarshal(&config, decodeWithJSONTags); err != nil {
		return nil, errorsmod.Wrapf(err, "cannot parse config %s", path)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}
