package tendermint

import (
	"context"
	"io"
	"time"

	errorsmod "cosmossdk.io/errors"
	dbm "github.com/cometbft/cometbft-db"
	cmtjson "github.com/cometbft/cometbft/libs/json"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cometbft/cometbft/light"
	lightprovider "github.com/cometbft/cometbft/light/provider"
	lighthttp "github.com/cometbft/cometbft/light/provider/http"
	lightdb "github.com/cometbft/cometbft/light/store/db"

	"github.com/interchainlabs/relaycore/core"
)

// The light client's own logging is very noisy and carries no relaying
// signal, so it is discarded.
var lightLogger = light.Logger(cmtlog.NewTMLogger(cmtlog.NewSyncWriter(io.Discard)))

// LightClient wraps a CometBFT light client tracking one chain through a
// trusted RPC node. It derives state roots independently of the providers the
// query engine fails over between.
type LightClient struct {
	client   *light.Client
	revision uint64
}

var _ core.LightClient = (*LightClient)(nil)

// NewLightClient initializes a light client against the trusted node,
// trusting the chain's latest header on first use. The verified header trail
// persists in db across restarts.
func NewLightClient(ctx context.Context, chainID, trustedRPCAddr string, trustingPeriod time.Duration, db dbm.DB) (*LightClient, error) {
	prov, err := lighthttp.New(chainID, trustedRPCAddr)
	if err != nil {
		return nil, err
	}

	latest, err := prov.LightBlock(ctx, 0)
	if err != nil {
		return nil, err
	}

	client, err := light.NewClient(
		ctx,
		chainID,
		light.TrustOptions{
			Period: trustingPeriod,
			Height: latest.Height,
			Hash:   latest.Hash(),
		},
		prov,
		// TODO: accept witness endpoints from the chain config
		[]lightprovider.Provider{prov},
		lightdb.New(db, ""),
		lightLogger,
	)
	if err != nil {
		return nil, err
	}
	return &LightClient{
		client:   client,
		revision: parseChainRevision(chainID),
	}, nil
}

// TrustedRoot returns the app hash the light client trusts for state proven
// at the given height. State written at height h is committed to by the app
// hash carried in the next header, so the block at h+1 is what gets verified.
func (lc *LightClient) TrustedRoot(ctx context.Context, height core.Height) ([]byte, error) {
	lb, err := lc.client.VerifyLightBlockAtHeight(ctx, int64(height.RevisionHeight)+1, time.Now())
	if err != nil {
		return nil, errorsmod.Wrapf(core.ErrLightClientUnavailable, "cannot verify header at height %s: %v", height, err)
	}
	return lb.AppHash, nil
}

// LatestTrustedHeight advances the light client to the chain's tip and
// returns the verified height.
func (lc *LightClient) LatestTrustedHeight(ctx context.Context) (core.Height, error) {
	if _, err := lc.client.Update(ctx, time.Now()); err != nil {
		return core.Height{}, errorsmod.Wrapf(core.ErrLightClientUnavailable, "cannot update light client: %v", err)
	}
	h, err := lc.client.LastTrustedHeight()
	if err != nil {
		return core.Height{}, errorsmod.Wrapf(core.ErrLightClientUnavailable, "no trusted height: %v", err)
	}
	return core.NewHeight(lc.revision, uint64(h)), nil
}

// SetupHeadersForUpdate returns the header trail a counterparty client at
// trustedHeight needs to verify targetHeight. With sequential verification a
// single verified header at the target suffices; the on-chain client checks
// it against the validator set it already trusts.
func (lc *LightClient) SetupHeadersForUpdate(ctx context.Context, trustedHeight, targetHeight core.Height) ([]core.Header, error) {
	if !trustedHeight.LT(targetHeight) {
		return nil, nil
	}
	lb, err := lc.client.VerifyLightBlockAtHeight(ctx, int64(targetHeight.RevisionHeight), time.Now())
	if err != nil {
		return nil, errorsmod.Wrapf(core.ErrLightClientUnavailable, "cannot verify header at height %s: %v", targetHeight, err)
	}

	signedHeader, err := cmtjson.Marshal(lb.SignedHeader)
	if err != nil {
		return nil, err
	}
	return []core.Header{{
		Height:             core.NewHeight(lc.revision, uint64(lb.Height)),
		Timestamp:          lb.Time,
		AppHash:            lb.AppHash,
		NextValidatorsHash: lb.NextValidatorsHash,
		SignedHeader:       signedHeader,
	}}, nil
}
