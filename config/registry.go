package config

import (
	"context"
	"path/filepath"

	errorsmod "cosmossdk.io/errors"
	dbm "github.com/cometbft/cometbft-db"
	"github.com/mitchellh/mapstructure"

	"github.com/interchainlabs/relaycore/chains/tendermint"
	"github.com/interchainlabs/relaycore/core"
)

// decodeWithJSONTags makes viper honor the json struct tags the config types
// already carry.
func decodeWithJSONTags(dc *mapstructure.DecoderConfig) {
	dc.TagName = "json"
}

// BuildRegistry constructs a chain registry from the config. Each chain gets
// its own light client database under homeDir so verified header trails
// survive restarts.
func BuildRegistry(ctx context.Context, cfg *Config, homeDir string) (*core.Registry, error) {
	timeout, err := cfg.Global.RPCTimeout()
	if err != nil {
		return nil, err
	}

	registry := core.NewRegistry()
	for _, cc := range cfg.Chains {
		trustingPeriod, err := cc.TrustPeriod()
		if err != nil {
			return nil, err
		}
		db, err := dbm.NewGoLevelDB(cc.ChainID, lightDir(homeDir))
		if err != nil {
			return nil, errorsmod.Wrapf(err, "cannot open light client database for chain %s", cc.ChainID)
		}
		chain, err := tendermint.BuildChain(
			ctx, cc.ChainID, cc.ClientID,
			cc.RPCAddrs, cc.TrustedRPCAddr,
			trustingPeriod, timeout, db,
		)
		if err != nil {
			return nil, err
		}
		if err := registry.Add(chain); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func lightDir(homeDir string) string {
	return filepath.Join(homeDir, "light")
}
