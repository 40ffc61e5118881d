package core

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	ics23 "github.com/cosmos/ics23/go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/interchainlabs/relaycore/log"
	"github.com/interchainlabs/relaycore/metrics"
)

// ProvableQuery reads one piece of provable state from a provider at a fixed
// height. Implementations must be read-only and safe to retry against a
// different provider.
type ProvableQuery func(ctx context.Context, prov Provider, height Height) (value []byte, proof *ics23.CommitmentProof, err error)

// Engine is the verified query engine: it runs a ProvableQuery against a
// chain's current provider, verifies the result against the light-client
// root, and fails over to the next provider in the pool on any provider
// fault.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Query queries the value stored under path at the given height and verifies
// it before returning. A zero height means "latest": the read is performed
// and proven at the chain's current height.
//
// Provider faults (transport errors, malformed responses, proofs that do not
// verify) trigger failover and a retry; they never surface to the caller. The
// loop is bounded by the pool size snapshotted at entry: each failover
// strictly shrinks the pool, so at most poolSize+1 providers are tried before
// ErrNoAvailableProvider is returned. A light client that cannot produce a
// root fails the query with ErrLightClientUnavailable; that is terminal, not
// a provider fault.
//
// A nil returned value with a nil error means the key is proven absent: the
// provider supplied a non-membership proof that verified against the root.
func (e *Engine) Query(ctx context.Context, chain *Chain, fn ProvableQuery, path string, height Height) ([]byte, *Proof, error) {
	ctx, span := tracer.Start(ctx, "Engine.Query")
	defer span.End()
	span.SetAttributes(
		attribute.String("chain_id", chain.ChainID()),
		attribute.String("path", path),
	)
	logger := log.GetLogger().WithChain(chain.ChainID()).WithModule("core.engine")

	// Each failover strictly shrinks the pool, so trying the current provider
	// plus every pool member bounds the loop.
	attempts := chain.PoolSize() + 1

	for i := 0; i < attempts; i++ {
		prov := chain.Provider()
		if prov == nil {
			break
		}

		value, proof, err := e.tryProvider(ctx, chain, prov, fn, path, height)
		if err == nil {
			return value, proof, nil
		}
		if isTerminal(ctx, err) {
			span.SetStatus(codes.Error, err.Error())
			return nil, nil, err
		}

		// Provider fault: replace the provider and retry.
		logger.InfoContext(ctx,
			"provider fault, failing over",
			"endpoint", prov.Endpoint(),
			"path", path,
			"attempt", i+1,
			"attempt_limit", attempts,
			"error", err.Error(),
		)
		metrics.IncrProviderFailovers(ctx, chain.ChainID())
		if _, err := chain.Failover(); err != nil {
			break
		}
	}

	err := errorsmod.Wrapf(ErrNoAvailableProvider, "chain %s: %d providers tried for path %s", chain.ChainID(), attempts, path)
	span.SetStatus(codes.Error, err.Error())
	return nil, nil, err
}

// tryProvider performs a single query attempt against one provider. Any
// returned error other than a terminal one is a provider fault.
func (e *Engine) tryProvider(ctx context.Context, chain *Chain, prov Provider, fn ProvableQuery, path string, height Height) ([]byte, *Proof, error) {
	h := height
	if h.IsZero() {
		var err error
		if h, err = prov.LatestHeight(ctx); err != nil {
			return nil, nil, err
		}
	}

	value, rawProof, err := fn(ctx, prov, h)
	if err != nil {
		return nil, nil, err
	}

	root, err := chain.LightClient().TrustedRoot(ctx, h)
	if err != nil {
		return nil, nil, errorsmod.Wrapf(ErrLightClientUnavailable, "chain %s height %s: %v", chain.ChainID(), h, err)
	}

	proof := &Proof{Data: rawProof, Height: h}
	if value == nil {
		// The provider claims the key is absent; it must prove that too.
		if err := chain.Verifier().VerifyNonMembership(root, proof, path); err != nil {
			return nil, nil, err
		}
		return nil, proof, nil
	}
	if err := chain.Verifier().VerifyMembership(root, proof, path, value); err != nil {
		return nil, nil, err
	}
	return value, proof, nil
}

// isTerminal reports whether the error must surface to the caller instead of
// being absorbed by failover.
func isTerminal(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errorsmod.IsOf(err, ErrLightClientUnavailable, ErrNoAvailableProvider)
}
