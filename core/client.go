package core

import (
	"time"

	errorsmod "cosmossdk.io/errors"
)

// Fraction is the trust level of a light client, e.g. 1/3.
type Fraction struct {
	Numerator   uint64 `json:"numerator"`
	Denominator uint64 `json:"denominator"`
}

// ClientState is a client's view of a counterparty chain. FrozenHeight is set
// once misbehaviour is proven and is terminal.
type ClientState struct {
	ChainID        string        `json:"chain_id"`
	TrustLevel     Fraction      `json:"trust_level"`
	TrustingPeriod time.Duration `json:"trusting_period"`
	LatestHeight   Height        `json:"latest_height"`
	FrozenHeight   *Height       `json:"frozen_height,omitempty"`
}

func NewClientState(chainID string, trustLevel Fraction, trustingPeriod time.Duration, latestHeight Height) *ClientState {
	return &ClientState{
		ChainID:        chainID,
		TrustLevel:     trustLevel,
		TrustingPeriod: trustingPeriod,
		LatestHeight:   latestHeight,
	}
}

func (cs ClientState) IsFrozen() bool {
	return cs.FrozenHeight != nil
}

// Freeze marks the client frozen at the given height. Freezing an already
// frozen client is rejected; the frozen height never changes once set.
func (cs *ClientState) Freeze(height Height) error {
	if cs.IsFrozen() {
		return errorsmod.Wrapf(ErrClientFrozen, "client already frozen at height %s", cs.FrozenHeight)
	}
	h := height
	cs.FrozenHeight = &h
	return nil
}

func (cs ClientState) Validate() error {
	if cs.ChainID == "" {
		return errorsmod.Wrap(ErrInvalidChain, "client chain id cannot be empty")
	}
	if cs.TrustLevel.Denominator == 0 || cs.TrustLevel.Numerator == 0 {
		return errorsmod.Wrap(ErrInvalidChain, "trust level cannot be zero")
	}
	if cs.TrustLevel.Numerator > cs.TrustLevel.Denominator {
		return errorsmod.Wrap(ErrInvalidChain, "trust level cannot exceed 1")
	}
	if cs.TrustingPeriod <= 0 {
		return errorsmod.Wrap(ErrInvalidChain, "trusting period must be positive")
	}
	if cs.LatestHeight.IsZero() {
		return errorsmod.Wrap(ErrInvalidHeight, "latest height cannot be zero")
	}
	return nil
}

// ConsensusState is the verified state of a counterparty chain at a single
// height. Once recorded for a height it is immutable.
type ConsensusState struct {
	Timestamp          time.Time `json:"timestamp"`
	Root               []byte    `json:"root"`
	NextValidatorsHash []byte    `json:"next_validators_hash"`
}

func (cs ConsensusState) Validate() error {
	if len(cs.Root) == 0 {
		return errorsmod.Wrap(ErrInvalidChain, "consensus state root cannot be empty")
	}
	if cs.Timestamp.IsZero() {
		return errorsmod.Wrap(ErrInvalidChain, "consensus state timestamp cannot be zero")
	}
	return nil
}
