package types

import (
	"context"

	"github.com/interchainlabs/relaycore/core"
)

// Capability is an opaque object handle proving ownership of a channel or
// port. Possession of the pointer is the proof; capabilities are compared by
// identity, never copied.
type Capability struct {
	Index uint64
}

// NewCapability returns a capability with the given global index.
func NewCapability(index uint64) *Capability {
	return &Capability{Index: index}
}

// BankKeeper is the subset of bank behaviour the transfer module needs.
type BankKeeper interface {
	SendCoins(ctx context.Context, fromAddr, toAddr string, coin Coin) error
	MintCoins(ctx context.Context, moduleName string, coin Coin) error
	BurnCoins(ctx context.Context, moduleName string, coin Coin) error
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr, moduleName string, coin Coin) error
	SendCoinsFromModuleToAccount(ctx context.Context, moduleName, recipientAddr string, coin Coin) error
}

// AccountKeeper resolves module accounts to bech32-independent addresses.
type AccountKeeper interface {
	GetModuleAddress(moduleName string) string
}

// ChannelKeeper is the subset of channel behaviour the transfer module needs.
type ChannelKeeper interface {
	GetChannel(ctx context.Context, portID, channelID string) (core.ChannelEnd, bool)
	GetNextSequenceSend(ctx context.Context, portID, channelID string) (uint64, bool)
	SendPacket(
		ctx context.Context,
		channelCap *Capability,
		sourcePort string,
		sourceChannel string,
		timeoutHeight core.Height,
		timeoutTimestamp uint64,
		data []byte,
	) (uint64, error)
}

// PortKeeper binds ports on behalf of modules.
type PortKeeper interface {
	BindPort(ctx context.Context, portID string) *Capability
}

// ScopedKeeper scopes capability claims to the transfer module.
type ScopedKeeper interface {
	GetCapability(ctx context.Context, name string) (*Capability, bool)
	AuthenticateCapability(ctx context.Context, cap *Capability, name string) bool
	ClaimCapability(ctx context.Context, cap *Capability, name string) error
}
