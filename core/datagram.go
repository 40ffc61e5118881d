package core

import (
	"bytes"
	"context"

	errorsmod "cosmossdk.io/errors"
)

// Builder assembles cross-chain datagrams from chain events and verified
// proofs.
type Builder struct {
	engine *Engine
}

func NewBuilder(engine *Engine) *Builder {
	return &Builder{engine: engine}
}

// CreateUpdateClientDatagrams returns a client-update datagram advancing the
// client hosted on dst (tracking src) to at least targetHeight, or nil if the
// client has already caught up.
func (b *Builder) CreateUpdateClientDatagrams(ctx context.Context, src, dst *Chain, targetHeight Height) (Datagram, error) {
	cs, _, err := b.engine.QueryClientState(ctx, dst, dst.ClientID(), ZeroHeight)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		return nil, errorsmod.Wrapf(ErrInvalidChain, "client %s not found on chain %s", dst.ClientID(), dst.ChainID())
	}
	if cs.IsFrozen() {
		return nil, errorsmod.Wrapf(ErrClientFrozen, "client %s on chain %s", dst.ClientID(), dst.ChainID())
	}
	if cs.LatestHeight.GTE(targetHeight) {
		return nil, nil
	}
	headers, err := src.LightClient().SetupHeadersForUpdate(ctx, cs.LatestHeight, targetHeight)
	if err != nil {
		return nil, err
	}
	return &MsgUpdateClient{ClientID: dst.ClientID(), Headers: headers}, nil
}

// CreateDatagram turns an event observed on src into the datagram to submit
// to dst, reading all proofs at installedHeight through the verified query
// engine. If dst's client for src has not reached installedHeight yet, the
// prerequisite client-update datagram is returned instead; the caller submits
// it and retries, so packet datagrams are only produced once the client state
// they will be checked against exists.
//
// For TimeoutPacketEvent the roles are mirrored: the packet was sent by dst,
// src is the chain that failed to receive it, and the datagram proves the
// absence of the receipt on src.
func (b *Builder) CreateDatagram(ctx context.Context, ev Event, src, dst *Chain, installedHeight Height) (Datagram, error) {
	if upd, err := b.CreateUpdateClientDatagrams(ctx, src, dst, installedHeight); err != nil {
		return nil, err
	} else if upd != nil {
		return upd, nil
	}

	switch ev := ev.(type) {
	case *SendPacketEvent:
		return b.buildRecvPacket(ctx, src, ev, installedHeight)
	case *WriteAcknowledgementEvent:
		return b.buildAcknowledgement(ctx, src, ev, installedHeight)
	case *TimeoutPacketEvent:
		return b.buildTimeout(ctx, src, ev, installedHeight)
	case *ConnectionHandshakeEvent:
		return b.buildConnectionHandshake(ctx, src, ev, installedHeight)
	case *ChannelHandshakeEvent:
		return b.buildChannelHandshake(ctx, src, ev, installedHeight)
	default:
		return nil, errorsmod.Wrap(ErrUnknownEvent, ev.Kind())
	}
}

func (b *Builder) buildRecvPacket(ctx context.Context, src *Chain, ev *SendPacketEvent, height Height) (Datagram, error) {
	commitment, proof, err := b.engine.QueryPacketCommitment(ctx, src, ev.Packet.SourcePort, ev.Packet.SourceChannel, ev.Packet.Sequence, height)
	if err != nil {
		return nil, err
	}
	if commitment == nil {
		// Commitment already deleted; the packet has been settled meanwhile.
		return nil, nil
	}
	if !bytes.Equal(commitment, CommitPacket(ev.Packet)) {
		return nil, errorsmod.Wrapf(ErrCommitmentMismatch, "packet %s/%s#%d", ev.Packet.SourcePort, ev.Packet.SourceChannel, ev.Packet.Sequence)
	}
	return &MsgRecvPacket{Packet: ev.Packet, Proof: *proof}, nil
}

func (b *Builder) buildAcknowledgement(ctx context.Context, src *Chain, ev *WriteAcknowledgementEvent, height Height) (Datagram, error) {
	commitment, proof, err := b.engine.QueryPacketAcknowledgement(ctx, src, ev.Packet.DestinationPort, ev.Packet.DestinationChannel, ev.Packet.Sequence, height)
	if err != nil {
		return nil, err
	}
	if commitment == nil {
		return nil, errorsmod.Wrapf(ErrCommitmentMismatch, "no acknowledgement stored for %s/%s#%d", ev.Packet.DestinationPort, ev.Packet.DestinationChannel, ev.Packet.Sequence)
	}
	if !bytes.Equal(commitment, CommitAcknowledgement(ev.Acknowledgement)) {
		return nil, errorsmod.Wrapf(ErrCommitmentMismatch, "acknowledgement %s/%s#%d", ev.Packet.DestinationPort, ev.Packet.DestinationChannel, ev.Packet.Sequence)
	}
	return &MsgAcknowledgement{Packet: ev.Packet, Acknowledgement: ev.Acknowledgement, Proof: *proof}, nil
}

func (b *Builder) buildTimeout(ctx context.Context, src *Chain, ev *TimeoutPacketEvent, height Height) (Datagram, error) {
	received, proof, err := b.engine.QueryPacketReceipt(ctx, src, ev.Packet.DestinationPort, ev.Packet.DestinationChannel, ev.Packet.Sequence, height)
	if err != nil {
		return nil, err
	}
	if received {
		// Raced with a receive; the timeout no longer applies.
		return nil, nil
	}
	nextSeqRecv, _, err := b.engine.QueryNextSequenceRecv(ctx, src, ev.Packet.DestinationPort, ev.Packet.DestinationChannel, height)
	if err != nil {
		return nil, err
	}
	return &MsgTimeout{Packet: ev.Packet, Proof: *proof, NextSequenceRecv: nextSeqRecv}, nil
}

func (b *Builder) buildConnectionHandshake(ctx context.Context, src *Chain, ev *ConnectionHandshakeEvent, height Height) (Datagram, error) {
	conn, proof, err := b.engine.QueryConnection(ctx, src, ev.ConnectionID, height)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, errorsmod.Wrapf(ErrCommitmentMismatch, "connection %s not found on %s", ev.ConnectionID, src.ChainID())
	}
	if conn.State != ev.State {
		return nil, errorsmod.Wrapf(ErrCommitmentMismatch, "connection %s is %s, event says %s", ev.ConnectionID, conn.State, ev.State)
	}
	switch ev.State {
	case ConnectionInit:
		return &MsgConnectionOpenTry{
			ClientID: conn.Counterparty.ClientID,
			Counterparty: ConnectionCounterparty{
				ClientID:     conn.ClientID,
				ConnectionID: ev.ConnectionID,
			},
			ProofInit: *proof,
		}, nil
	case ConnectionTryOpen:
		return &MsgConnectionOpenAck{
			ConnectionID:             conn.Counterparty.ConnectionID,
			CounterpartyConnectionID: ev.ConnectionID,
			ProofTry:                 *proof,
		}, nil
	case ConnectionOpen:
		return &MsgConnectionOpenConfirm{
			ConnectionID: conn.Counterparty.ConnectionID,
			ProofAck:     *proof,
		}, nil
	default:
		return nil, errorsmod.Wrapf(ErrUnknownEvent, "connection handshake state %s", ev.State)
	}
}

func (b *Builder) buildChannelHandshake(ctx context.Context, src *Chain, ev *ChannelHandshakeEvent, height Height) (Datagram, error) {
	channel, proof, err := b.engine.QueryChannel(ctx, src, ev.PortID, ev.ChannelID, height)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, errorsmod.Wrapf(ErrCommitmentMismatch, "channel %s/%s not found on %s", ev.PortID, ev.ChannelID, src.ChainID())
	}
	if channel.State != ev.State {
		return nil, errorsmod.Wrapf(ErrCommitmentMismatch, "channel %s/%s is %s, event says %s", ev.PortID, ev.ChannelID, channel.State, ev.State)
	}
	switch ev.State {
	case ChannelInit:
		return &MsgChannelOpenTry{
			PortID: channel.Counterparty.PortID,
			Counterparty: ChannelCounterparty{
				PortID:    ev.PortID,
				ChannelID: ev.ChannelID,
			},
			Version:   channel.Version,
			ProofInit: *proof,
		}, nil
	case ChannelTryOpen:
		return &MsgChannelOpenAck{
			PortID:                channel.Counterparty.PortID,
			ChannelID:             channel.Counterparty.ChannelID,
			CounterpartyChannelID: ev.ChannelID,
			CounterpartyVersion:   channel.Version,
			ProofTry:              *proof,
		}, nil
	case ChannelOpen:
		return &MsgChannelOpenConfirm{
			PortID:    channel.Counterparty.PortID,
			ChannelID: channel.Counterparty.ChannelID,
			ProofAck:  *proof,
		}, nil
	default:
		return nil, errorsmod.Wrapf(ErrUnknownEvent, "channel handshake state %s", ev.State)
	}
}
