package core

import (
	errorsmod "cosmossdk.io/errors"
)

const ModuleName = "core"

// Relaying engine sentinel errors. ErrNoAvailableProvider and
// ErrLightClientUnavailable are terminal for a query; everything a provider
// does wrong (transport failure, malformed response, bad proof) is handled by
// failover and never surfaces past the engine.
var (
	ErrNoAvailableProvider    = errorsmod.Register(ModuleName, 2, "provider pool exhausted")
	ErrLightClientUnavailable = errorsmod.Register(ModuleName, 3, "light client cannot produce a trusted root for the requested height")
	ErrInvalidProof           = errorsmod.Register(ModuleName, 4, "commitment proof verification failed")
	ErrInvalidHeight          = errorsmod.Register(ModuleName, 5, "invalid height")
	ErrClientFrozen           = errorsmod.Register(ModuleName, 6, "client is frozen due to misbehaviour")
	ErrInvalidPacket          = errorsmod.Register(ModuleName, 7, "invalid packet")
	ErrChainNotFound          = errorsmod.Register(ModuleName, 8, "chain not registered")
	ErrChainAlreadyExists     = errorsmod.Register(ModuleName, 9, "chain already registered")
	ErrInvalidIdentifier      = errorsmod.Register(ModuleName, 10, "invalid identifier")
	ErrUnknownEvent           = errorsmod.Register(ModuleName, 11, "unknown event kind")
	ErrCommitmentMismatch     = errorsmod.Register(ModuleName, 12, "stored commitment does not match the event payload")
	ErrInvalidChain           = errorsmod.Register(ModuleName, 13, "invalid chain configuration")
)
