package transfer

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	"github.com/interchainlabs/relaycore/core"
	"github.com/interchainlabs/relaycore/transfer/keeper"
	"github.com/interchainlabs/relaycore/transfer/types"
)

// IBCModule wires the transfer keeper into the channel lifecycle and the
// packet callbacks. Every callback is invoked by the channel layer after
// proof verification; the module only enforces application-level rules.
type IBCModule struct {
	keeper keeper.Keeper
}

func NewIBCModule(k keeper.Keeper) IBCModule {
	return IBCModule{keeper: k}
}

// validateTransferChannelParams rejects channel parameters the transfer
// application cannot operate on.
func validateTransferChannelParams(order core.Order, portID string) error {
	if order != core.OrderUnordered {
		return errorsmod.Wrapf(types.ErrInvalidVersion, "expected %s channel, got %s", core.OrderUnordered, order)
	}
	if portID != types.PortID {
		return errorsmod.Wrapf(core.ErrInvalidIdentifier, "invalid port: %s, expected %s", portID, types.PortID)
	}
	return nil
}

// OnChanOpenInit validates the proposed channel and claims its capability.
// An empty version proposal defaults to the module version.
func (im IBCModule) OnChanOpenInit(
	ctx context.Context,
	order core.Order,
	portID string,
	channelID string,
	channelCap *types.Capability,
	version string,
) (string, error) {
	if err := validateTransferChannelParams(order, portID); err != nil {
		return "", err
	}
	if version == "" {
		version = types.Version
	}
	if version != types.Version {
		return "", errorsmod.Wrapf(types.ErrInvalidVersion, "got %s, expected %s", version, types.Version)
	}
	if err := im.keeper.ClaimCapability(ctx, channelCap, core.ChannelCapabilityPath(portID, channelID)); err != nil {
		return "", err
	}
	return version, nil
}

// OnChanOpenTry validates the counterparty's proposed version and claims the
// channel capability.
func (im IBCModule) OnChanOpenTry(
	ctx context.Context,
	order core.Order,
	portID string,
	channelID string,
	channelCap *types.Capability,
	counterpartyVersion string,
) (string, error) {
	if err := validateTransferChannelParams(order, portID); err != nil {
		return "", err
	}
	if counterpartyVersion != types.Version {
		return "", errorsmod.Wrapf(types.ErrInvalidVersion, "counterparty proposed %s, expected %s", counterpartyVersion, types.Version)
	}
	if err := im.keeper.ClaimCapability(ctx, channelCap, core.ChannelCapabilityPath(portID, channelID)); err != nil {
		return "", err
	}
	return types.Version, nil
}

// OnChanOpenAck confirms the counterparty settled on the module version.
func (im IBCModule) OnChanOpenAck(ctx context.Context, portID, channelID, counterpartyVersion string) error {
	if counterpartyVersion != types.Version {
		return errorsmod.Wrapf(types.ErrInvalidVersion, "counterparty selected %s, expected %s", counterpartyVersion, types.Version)
	}
	return nil
}

// OnChanOpenConfirm completes the handshake. No application state changes.
func (im IBCModule) OnChanOpenConfirm(ctx context.Context, portID, channelID string) error {
	return nil
}

// OnChanCloseInit rejects user-initiated channel closure; transfer channels
// stay open for the lifetime of the connection.
func (im IBCModule) OnChanCloseInit(ctx context.Context, portID, channelID string) error {
	return types.ErrChannelCloseDisabled
}

// OnChanCloseConfirm handles a closure initiated by the counterparty.
func (im IBCModule) OnChanCloseConfirm(ctx context.Context, portID, channelID string) error {
	return nil
}

// OnRecvPacket applies an incoming transfer and returns the acknowledgement
// to write. Any failure produces an error acknowledgement, never a panic: the
// ack must always be committed so the sender can settle.
func (im IBCModule) OnRecvPacket(ctx context.Context, packet core.Packet) types.Acknowledgement {
	data, err := types.UnmarshalPacketData(packet.Data)
	if err != nil {
		return types.NewErrorAcknowledgement(err)
	}
	if err := im.keeper.OnRecvPacket(ctx, packet, data); err != nil {
		return types.NewErrorAcknowledgement(err)
	}
	return types.NewResultAcknowledgement([]byte{0x01})
}

// OnAcknowledgementPacket settles a sent packet with its acknowledgement.
func (im IBCModule) OnAcknowledgementPacket(ctx context.Context, packet core.Packet, acknowledgement []byte) error {
	ack, err := types.UnmarshalAcknowledgement(acknowledgement)
	if err != nil {
		return err
	}
	data, err := types.UnmarshalPacketData(packet.Data)
	if err != nil {
		return err
	}
	return im.keeper.OnAcknowledgementPacket(ctx, packet, data, ack)
}

// OnTimeoutPacket refunds the sender of a timed out packet.
func (im IBCModule) OnTimeoutPacket(ctx context.Context, packet core.Packet) error {
	data, err := types.UnmarshalPacketData(packet.Data)
	if err != nil {
		return err
	}
	return im.keeper.OnTimeoutPacket(ctx, packet, data)
}
