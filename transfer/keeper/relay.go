package keeper

import (
	"context"
	"encoding/hex"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/interchainlabs/relaycore/core"
	"github.com/interchainlabs/relaycore/transfer/types"
)

// SendTransfer moves tokens out over the given channel and returns the
// sequence assigned to the resulting packet.
//
// If the sending chain is the token source the tokens are escrowed in the
// channel's escrow account; if the tokens are returning to their origin the
// vouchers are burned. Nothing is mutated when any policy check fails.
func (k Keeper) SendTransfer(
	ctx context.Context,
	sourcePort string,
	sourceChannel string,
	token types.Coin,
	sender string,
	receiver string,
	timeoutHeight core.Height,
	timeoutTimestamp uint64,
	memo string,
) (uint64, error) {
	if !k.GetSendEnabled() {
		return 0, types.ErrSendDisabled
	}
	if err := token.Validate(); err != nil {
		return 0, err
	}
	if timeoutHeight.IsZero() && timeoutTimestamp == 0 {
		return 0, errorsmod.Wrap(types.ErrInvalidPacketTimeout, "timeout height and timeout timestamp cannot both be zero")
	}

	if _, found := k.channelKeeper.GetChannel(ctx, sourcePort, sourceChannel); !found {
		return 0, errorsmod.Wrapf(types.ErrChannelNotFound, "port %s channel %s", sourcePort, sourceChannel)
	}
	channelCap, ok := k.scopedKeeper.GetCapability(ctx, core.ChannelCapabilityPath(sourcePort, sourceChannel))
	if !ok {
		return 0, errorsmod.Wrapf(types.ErrChannelCapability, "port %s channel %s", sourcePort, sourceChannel)
	}

	// The denomination carried in the packet is always the full trace path,
	// never the local ibc/{hash} voucher form.
	fullDenomPath := token.Denom
	if strings.HasPrefix(token.Denom, types.DenomPrefix+"/") {
		trace, found := k.GetDenomTrace(denomHashFromVoucher(token.Denom))
		if !found {
			return 0, errorsmod.Wrapf(types.ErrTraceNotFound, "voucher denomination %s", token.Denom)
		}
		fullDenomPath = trace.GetFullDenomPath()
	}

	if types.SenderChainIsSource(sourcePort, sourceChannel, fullDenomPath) {
		escrowAddress := types.GetEscrowAddress(sourcePort, sourceChannel)
		if err := k.bankKeeper.SendCoins(ctx, sender, escrowAddress, token); err != nil {
			return 0, err
		}
		total := k.GetTotalEscrowForDenom(token.Denom)
		if err := k.SetTotalEscrowForDenom(token.Denom, total.Add(token.Amount)); err != nil {
			return 0, err
		}
	} else {
		if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, sender, types.ModuleName, token); err != nil {
			return 0, err
		}
		if err := k.bankKeeper.BurnCoins(ctx, types.ModuleName, token); err != nil {
			// The bank module never returns an error on a burn of coins the
			// module account holds, so reaching here is a fatal invariant break.
			panic(errorsmod.Wrap(err, "cannot burn coins after a successful send to a module account"))
		}
	}

	packetData := types.NewFungibleTokenPacketData(
		fullDenomPath, token.Amount.String(), sender, receiver, memo,
	)
	sequence, err := k.channelKeeper.SendPacket(
		ctx, channelCap, sourcePort, sourceChannel, timeoutHeight, timeoutTimestamp, packetData.GetBytes(),
	)
	if err != nil {
		return 0, err
	}

	k.logger().InfoContext(ctx,
		"token transfer sent",
		"denom", fullDenomPath,
		"amount", token.Amount.String(),
		"sender", sender,
		"receiver", receiver,
		"sequence", sequence,
	)
	return sequence, nil
}

// OnRecvPacket processes an incoming transfer packet. The returned error
// becomes an error acknowledgement; a nil return becomes the success
// acknowledgement. State is only mutated on the success path.
func (k Keeper) OnRecvPacket(ctx context.Context, packet core.Packet, data types.FungibleTokenPacketData) error {
	if err := data.ValidateBasic(); err != nil {
		return err
	}
	if !k.GetReceiveEnabled() {
		return types.ErrReceiveDisabled
	}

	amount, ok := sdkmath.NewIntFromString(data.Amount)
	if !ok {
		return errorsmod.Wrapf(types.ErrInvalidAmount, "unable to parse transfer amount %q", data.Amount)
	}

	if types.ReceiverChainIsSource(packet.SourcePort, packet.SourceChannel, data.Denom) {
		// The tokens are coming home: strip the prefix this chain's
		// counterparty added and release from escrow.
		voucherPrefix := types.GetDenomPrefix(packet.SourcePort, packet.SourceChannel)
		unprefixedDenom := data.Denom[len(voucherPrefix):]

		denom := unprefixedDenom
		denomTrace := types.ParseDenomTrace(unprefixedDenom)
		if !denomTrace.IsNativeDenom() {
			denom = denomTrace.IBCDenom()
		}
		token := types.NewCoin(denom, amount)

		escrowAddress := types.GetEscrowAddress(packet.DestinationPort, packet.DestinationChannel)
		if err := k.bankKeeper.SendCoins(ctx, escrowAddress, data.Receiver, token); err != nil {
			return err
		}
		total := k.GetTotalEscrowForDenom(denom)
		if err := k.SetTotalEscrowForDenom(denom, total.Sub(amount)); err != nil {
			return err
		}

		k.logger().InfoContext(ctx,
			"token transfer received",
			"denom", denom,
			"amount", amount.String(),
			"receiver", data.Receiver,
			"source", false,
		)
		return nil
	}

	// The sender chain is the source: wind a new hop onto the trace and mint
	// vouchers for the receiver.
	prefixedDenom := types.GetPrefixedDenom(packet.DestinationPort, packet.DestinationChannel, data.Denom)
	denomTrace := types.ParseDenomTrace(prefixedDenom)
	if !k.HasDenomTrace(denomTrace.Hash()) {
		if err := k.SetDenomTrace(denomTrace); err != nil {
			return err
		}
	}

	voucher := types.NewCoin(denomTrace.IBCDenom(), amount)
	if err := k.bankKeeper.MintCoins(ctx, types.ModuleName, voucher); err != nil {
		return err
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, data.Receiver, voucher); err != nil {
		// Minted coins sit in the module account; failing to forward them is a
		// fatal invariant break.
		panic(errorsmod.Wrap(err, "unable to send newly minted coins from module to recipient"))
	}

	k.logger().InfoContext(ctx,
		"token transfer received",
		"denom", voucher.Denom,
		"amount", amount.String(),
		"receiver", data.Receiver,
		"source", true,
	)
	return nil
}

// OnAcknowledgementPacket settles a sent packet once its acknowledgement
// arrives. A success acknowledgement finalizes the transfer; an error
// acknowledgement refunds the sender.
func (k Keeper) OnAcknowledgementPacket(ctx context.Context, packet core.Packet, data types.FungibleTokenPacketData, ack types.Acknowledgement) error {
	if ack.Success() {
		// Escrowed and burned tokens stay where they are. The settlement
		// record closes the packet's lifecycle on this side.
		return k.setPacketSettled(packet.SourcePort, packet.SourceChannel, packet.Sequence)
	}
	k.logger().InfoContext(ctx,
		"transfer failed on counterparty, refunding",
		"sequence", packet.Sequence,
		"error", ack.Error,
	)
	return k.refundPacketToken(ctx, packet, data)
}

// OnTimeoutPacket refunds the sender of a packet that provably never reached
// the counterparty.
func (k Keeper) OnTimeoutPacket(ctx context.Context, packet core.Packet, data types.FungibleTokenPacketData) error {
	return k.refundPacketToken(ctx, packet, data)
}

// refundPacketToken is the exact inverse of the deduction SendTransfer made:
// escrowed tokens move back from the escrow account, burned vouchers are
// re-minted. The settlement record makes the refund idempotent; a second
// refund attempt for the same packet is a no-op.
func (k Keeper) refundPacketToken(ctx context.Context, packet core.Packet, data types.FungibleTokenPacketData) error {
	if k.HasPacketSettled(packet.SourcePort, packet.SourceChannel, packet.Sequence) {
		k.logger().DebugContext(ctx,
			"skipping refund for settled packet",
			"sequence", packet.Sequence,
		)
		return nil
	}

	amount, ok := sdkmath.NewIntFromString(data.Amount)
	if !ok {
		return errorsmod.Wrapf(types.ErrInvalidAmount, "unable to parse transfer amount %q", data.Amount)
	}

	// data.Denom is the full trace path; recover the local denomination the
	// sender was debited in.
	denomTrace := types.ParseDenomTrace(data.Denom)
	token := types.NewCoin(denomTrace.IBCDenom(), amount)

	if types.SenderChainIsSource(packet.SourcePort, packet.SourceChannel, data.Denom) {
		escrowAddress := types.GetEscrowAddress(packet.SourcePort, packet.SourceChannel)
		if err := k.bankKeeper.SendCoins(ctx, escrowAddress, data.Sender, token); err != nil {
			return err
		}
		total := k.GetTotalEscrowForDenom(token.Denom)
		if err := k.SetTotalEscrowForDenom(token.Denom, total.Sub(amount)); err != nil {
			return err
		}
	} else {
		if err := k.bankKeeper.MintCoins(ctx, types.ModuleName, token); err != nil {
			return err
		}
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, data.Sender, token); err != nil {
			panic(errorsmod.Wrap(err, "unable to send newly minted coins from module to sender"))
		}
	}

	if err := k.setPacketSettled(packet.SourcePort, packet.SourceChannel, packet.Sequence); err != nil {
		return err
	}
	k.logger().InfoContext(ctx,
		"refunded transfer",
		"denom", token.Denom,
		"amount", amount.String(),
		"sender", data.Sender,
		"sequence", packet.Sequence,
	)
	return nil
}

// denomHashFromVoucher extracts the trace hash bytes from an ibc/{hash}
// voucher denomination. A malformed hash yields nil, which never matches a
// registered trace.
func denomHashFromVoucher(voucherDenom string) []byte {
	hexHash := strings.TrimPrefix(voucherDenom, types.DenomPrefix+"/")
	hash, err := hex.DecodeString(hexHash)
	if err != nil {
		return nil
	}
	return hash
}
