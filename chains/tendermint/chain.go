package tendermint

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"
	dbm "github.com/cometbft/cometbft-db"

	"github.com/interchainlabs/relaycore/core"
)

// BuildChain assembles a chain record from its endpoints: one provider per
// RPC address, in failover order, plus a light client against the trusted
// node. The light client's verified header trail is persisted in db.
func BuildChain(
	ctx context.Context,
	chainID string,
	clientID string,
	rpcAddrs []string,
	trustedRPCAddr string,
	trustingPeriod time.Duration,
	rpcTimeout time.Duration,
	db dbm.DB,
) (*core.Chain, error) {
	if len(rpcAddrs) == 0 {
		return nil, errorsmod.Wrapf(core.ErrInvalidChain, "chain %s has no rpc addresses", chainID)
	}

	providers := make([]core.Provider, 0, len(rpcAddrs))
	for _, addr := range rpcAddrs {
		prov, err := NewProvider(addr, chainID, rpcTimeout)
		if err != nil {
			return nil, errorsmod.Wrapf(err, "cannot dial provider %s for chain %s", addr, chainID)
		}
		providers = append(providers, prov)
	}

	lightClient, err := NewLightClient(ctx, chainID, trustedRPCAddr, trustingPeriod, db)
	if err != nil {
		return nil, errorsmod.Wrapf(err, "cannot initialize light client for chain %s", chainID)
	}

	return core.NewChain(chainID, clientID, providers, lightClient)
}
