package core

import (
	"sort"
	"sync"

	errorsmod "cosmossdk.io/errors"
)

// Registry maps chain identifiers to their mutable Chain records. Each record
// is owned by the registry entry; the record's own mutex serializes provider
// failover.
type Registry struct {
	mu     sync.RWMutex
	chains map[string]*Chain
}

func NewRegistry() *Registry {
	return &Registry{chains: make(map[string]*Chain)}
}

func (r *Registry) Add(chain *Chain) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chains[chain.ChainID()]; ok {
		return errorsmod.Wrap(ErrChainAlreadyExists, chain.ChainID())
	}
	r.chains[chain.ChainID()] = chain
	return nil
}

func (r *Registry) Get(chainID string) (*Chain, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	chain, ok := r.chains[chainID]
	if !ok {
		return nil, errorsmod.Wrap(ErrChainNotFound, chainID)
	}
	return chain, nil
}

func (r *Registry) Delete(chainID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.chains, chainID)
}

func (r *Registry) ChainIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.chains))
	for id := range r.chains {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
