package core

import (
	"context"
	"time"
)

// Header is a signed chain header, opaque to the engine except for the fields
// needed to build client-update datagrams.
type Header struct {
	Height             Height    `json:"height"`
	Timestamp          time.Time `json:"timestamp"`
	AppHash            []byte    `json:"app_hash"`
	NextValidatorsHash []byte    `json:"next_validators_hash"`
	// SignedHeader carries the raw signed header and commit in the chain's
	// native encoding; it is interpreted only by the counterparty's on-chain
	// client.
	SignedHeader []byte `json:"signed_header"`
}

// LightClient independently derives a trusted state root for a given height
// without trusting any single provider. Header verification itself happens
// behind this interface; the engine only consumes its outputs.
type LightClient interface {
	// TrustedRoot returns the state root the light client trusts for the
	// given height, or an error if it cannot produce one. The error is
	// terminal for the querying side: it is never treated as a provider
	// fault.
	TrustedRoot(ctx context.Context, height Height) ([]byte, error)

	// LatestTrustedHeight returns the highest height the light client has
	// verified so far.
	LatestTrustedHeight(ctx context.Context) (Height, error)

	// SetupHeadersForUpdate returns the headers needed to advance the
	// counterparty's client from the given trusted height to the target
	// height.
	SetupHeadersForUpdate(ctx context.Context, trustedHeight, targetHeight Height) ([]Header, error)
}
