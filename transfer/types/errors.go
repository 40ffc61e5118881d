package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Token transfer sentinel errors. Policy errors (send/receive disabled,
// malformed trace) surface directly to the caller with zero state mutation.
var (
	ErrInvalidPacketTimeout = errorsmod.Register(ModuleName, 2, "invalid packet timeout")
	ErrInvalidDenomTrace    = errorsmod.Register(ModuleName, 3, "invalid denomination trace")
	ErrInvalidAmount        = errorsmod.Register(ModuleName, 4, "invalid token amount")
	ErrTraceNotFound        = errorsmod.Register(ModuleName, 5, "denomination trace not found")
	ErrSendDisabled         = errorsmod.Register(ModuleName, 6, "fungible token transfers from this chain are disabled")
	ErrReceiveDisabled      = errorsmod.Register(ModuleName, 7, "fungible token transfers to this chain are disabled")
	ErrInvalidPacketData    = errorsmod.Register(ModuleName, 8, "invalid fungible token packet data")
	ErrChannelNotFound      = errorsmod.Register(ModuleName, 9, "channel not found")
	ErrChannelCapability    = errorsmod.Register(ModuleName, 10, "module does not own channel capability")
	ErrAlreadySettled       = errorsmod.Register(ModuleName, 11, "packet already settled")
	ErrInvalidVersion       = errorsmod.Register(ModuleName, 12, "invalid transfer version")
	ErrChannelCloseDisabled = errorsmod.Register(ModuleName, 13, "transfer channels cannot be closed by users")
)
