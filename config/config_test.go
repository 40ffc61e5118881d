package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interchainlabs/relaycore/config"
	"github.com/interchainlabs/relaycore/core"
)

func validChain(chainID, clientID string) config.ChainConfig {
	return config.ChainConfig{
		ChainID:        chainID,
		ClientID:       clientID,
		RPCAddrs:       []string{"http://localhost:26657"},
		TrustedRPCAddr: "http://localhost:26657",
	}
}

func pathEnd(chainID string, channel string) *core.PathEnd {
	return &core.PathEnd{
		ChainID:      chainID,
		ClientID:     "client-x",
		ConnectionID: "connection-0",
		ChannelID:    channel,
		PortID:       "transfer",
		Order:        "UNORDERED",
		Version:      "ics20-1",
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Validate())

	timeout, err := cfg.Global.RPCTimeout()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, timeout)

	interval, err := cfg.Global.Interval()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, interval)

	assert.Equal(t, uint64(30), cfg.Global.MaxDatagramsPerTx)
	assert.Equal(t, "null", cfg.Global.Metrics.Exporter)
}

func TestConfigValidate(t *testing.T) {
	t.Run("duplicate chain", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Chains = []config.ChainConfig{
			validChain("chain-a", "client-b"),
			validChain("chain-a", "client-c"),
		}
		require.ErrorIs(t, cfg.Validate(), core.ErrChainAlreadyExists)
	})

	t.Run("path references unknown chain", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Chains = []config.ChainConfig{validChain("chain-a", "client-b")}
		cfg.Paths = core.Paths{
			"a-to-b": {Src: pathEnd("chain-a", "channel-0"), Dst: pathEnd("chain-b", "channel-1")},
		}
		require.ErrorIs(t, cfg.Validate(), core.ErrChainNotFound)
	})

	t.Run("valid path", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Chains = []config.ChainConfig{
			validChain("chain-a", "client-b"),
			validChain("chain-b", "client-a"),
		}
		cfg.Paths = core.Paths{
			"a-to-b": {Src: pathEnd("chain-a", "channel-0"), Dst: pathEnd("chain-b", "channel-1")},
		}
		require.NoError(t, cfg.Validate())
	})

	t.Run("bad timeout", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Global.Timeout = "soon"
		require.Error(t, cfg.Validate())
	})
}

func TestChainConfigValidate(t *testing.T) {
	require.NoError(t, validChain("chain-a", "client-b").Validate())

	c := validChain("", "client-b")
	assert.Error(t, c.Validate())

	c = validChain("chain-a", "client-b")
	c.RPCAddrs = nil
	assert.Error(t, c.Validate())

	c = validChain("chain-a", "client-b")
	c.TrustedRPCAddr = ""
	assert.Error(t, c.Validate())

	c = validChain("chain-a", "client-b")
	c.TrustingPeriod = "fortnight"
	assert.Error(t, c.Validate())
}

func TestTrustPeriodDefault(t *testing.T) {
	c := validChain("chain-a", "client-b")

	period, err := c.TrustPeriod()
	require.NoError(t, err)
	assert.Equal(t, 14*24*time.Hour, period)

	c.TrustingPeriod = "72h"
	period, err = c.TrustPeriod()
	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, period)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	contents := `{
		"global": {
			"timeout": "5s",
			"relay-interval": "2s",
			"max-datagrams-per-tx": 10
		},
		"chains": [
			{
				"chain-id": "chain-a",
				"client-id": "client-b",
				"rpc-addrs": ["http://localhost:26657"],
				"trusted-rpc-addr": "http://localhost:26657",
				"trusting-period": "336h"
			}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	timeout, err := cfg.Global.RPCTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, timeout)
	assert.Equal(t, uint64(10), cfg.Global.MaxDatagramsPerTx)

	require.Len(t, cfg.Chains, 1)
	assert.Equal(t, "chain-a", cfg.Chains[0].ChainID)
	period, err := cfg.Chains[0].TrustPeriod()
	require.NoError(t, err)
	assert.Equal(t, 336*time.Hour, period)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, "INFO", cfg.Global.Logger.Level)

	_, err = config.Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"chains":[{"chain-id":""}]}`), 0o600))
	_, err = config.Load(bad)
	assert.Error(t, err)
}
