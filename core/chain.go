package core

import (
	"context"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	ics23 "github.com/cosmos/ics23/go"
)

// Chain is the registry record for one relayed chain: its identity, the
// provider currently in use, the ordered pool of fallback providers and the
// light client handle used to verify every read.
//
// The provider fields are shared mutable state. They are owned by the Chain
// and guarded by its mutex; Failover is the only mutator. Concurrent queries
// against the same Chain serialize their failover decisions through it.
type Chain struct {
	chainID  string
	clientID string

	mu       sync.Mutex
	provider Provider
	pool     []Provider

	lightClient LightClient
	verifier    Verifier
}

// ChainOption configures a Chain at construction time.
type ChainOption func(*Chain)

// WithVerifier overrides the proof verifier. The default verifies ics23
// proofs against the Tendermint proof spec.
func WithVerifier(v Verifier) ChainOption {
	return func(c *Chain) { c.verifier = v }
}

// WithProofSpec keeps the ics23 verifier but swaps the proof spec.
func WithProofSpec(spec *ics23.ProofSpec) ChainOption {
	return func(c *Chain) { c.verifier = NewProofVerifier(spec) }
}

// NewChain returns a chain record. The first provider becomes current; the
// remainder form the failover pool in order.
func NewChain(chainID, clientID string, providers []Provider, lightClient LightClient, opts ...ChainOption) (*Chain, error) {
	if chainID == "" {
		return nil, errorsmod.Wrap(ErrInvalidChain, "chain id cannot be empty")
	}
	if err := ClientIdentifierValidator(clientID); err != nil {
		return nil, err
	}
	if len(providers) == 0 {
		return nil, errorsmod.Wrapf(ErrInvalidChain, "chain %s requires at least one provider", chainID)
	}
	if lightClient == nil {
		return nil, errorsmod.Wrapf(ErrInvalidChain, "chain %s requires a light client", chainID)
	}
	c := &Chain{
		chainID:     chainID,
		clientID:    clientID,
		provider:    providers[0],
		pool:        append([]Provider{}, providers[1:]...),
		lightClient: lightClient,
		verifier:    NewProofVerifier(ics23.TendermintSpec),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Chain) ChainID() string { return c.chainID }

// ClientID returns the identifier of the client hosted on this chain that
// tracks the counterparty.
func (c *Chain) ClientID() string { return c.clientID }

func (c *Chain) LightClient() LightClient { return c.lightClient }

func (c *Chain) Verifier() Verifier { return c.verifier }

// Provider returns the provider currently in use, or nil once the pool has
// been exhausted.
func (c *Chain) Provider() Provider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.provider
}

// PoolSize returns the number of fallback providers remaining.
func (c *Chain) PoolSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pool)
}

// Failover drops the current provider and promotes the head of the pool. It
// returns the new provider, or ErrNoAvailableProvider once the pool is empty.
// Each call strictly shrinks the remaining provider set, so any retry loop
// driven by Failover terminates.
func (c *Chain) Failover() (Provider, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pool) == 0 {
		c.provider = nil
		return nil, errorsmod.Wrapf(ErrNoAvailableProvider, "chain %s", c.chainID)
	}
	c.provider = c.pool[0]
	c.pool = c.pool[1:]
	return c.provider, nil
}

// LatestHeight returns the current consensus height via the current provider.
func (c *Chain) LatestHeight(ctx context.Context) (Height, error) {
	prov := c.Provider()
	if prov == nil {
		return Height{}, errorsmod.Wrapf(ErrNoAvailableProvider, "chain %s", c.chainID)
	}
	return prov.LatestHeight(ctx)
}

// Timestamp returns the consensus timestamp at the given height via the
// current provider.
func (c *Chain) Timestamp(ctx context.Context, height Height) (time.Time, error) {
	prov := c.Provider()
	if prov == nil {
		return time.Time{}, errorsmod.Wrapf(ErrNoAvailableProvider, "chain %s", c.chainID)
	}
	return prov.Timestamp(ctx, height)
}
