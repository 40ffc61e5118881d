package core

import (
	"context"
	"encoding/binary"
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	ics23 "github.com/cosmos/ics23/go"
	"golang.org/x/sync/errgroup"
)

// Typed wrappers around Engine.Query covering the verified query surface.
// Structured state (channel ends, connection ends, client and consensus
// states) is stored JSON-encoded; counters are stored big-endian.

func stateQuery(path string) ProvableQuery {
	return func(ctx context.Context, prov Provider, height Height) ([]byte, *ics23.CommitmentProof, error) {
		return prov.State(ctx, path, height)
	}
}

// QueryChannel returns the verified channel end.
func (e *Engine) QueryChannel(ctx context.Context, chain *Chain, portID, channelID string, height Height) (*ChannelEnd, *Proof, error) {
	path := ChannelPath(portID, channelID)
	value, proof, err := e.Query(ctx, chain, stateQuery(path), path, height)
	if err != nil {
		return nil, nil, err
	}
	if value == nil {
		return nil, proof, nil
	}
	var channel ChannelEnd
	if err := json.Unmarshal(value, &channel); err != nil {
		return nil, nil, errorsmod.Wrapf(ErrInvalidProof, "malformed channel end at %s: %v", path, err)
	}
	return &channel, proof, nil
}

// QueryConnection returns the verified connection end.
func (e *Engine) QueryConnection(ctx context.Context, chain *Chain, connectionID string, height Height) (*ConnectionEnd, *Proof, error) {
	path := ConnectionPath(connectionID)
	value, proof, err := e.Query(ctx, chain, stateQuery(path), path, height)
	if err != nil {
		return nil, nil, err
	}
	if value == nil {
		return nil, proof, nil
	}
	var conn ConnectionEnd
	if err := json.Unmarshal(value, &conn); err != nil {
		return nil, nil, errorsmod.Wrapf(ErrInvalidProof, "malformed connection end at %s: %v", path, err)
	}
	return &conn, proof, nil
}

// QueryClientState returns the verified client state stored under clientID.
func (e *Engine) QueryClientState(ctx context.Context, chain *Chain, clientID string, height Height) (*ClientState, *Proof, error) {
	path := ClientStatePath(clientID)
	value, proof, err := e.Query(ctx, chain, stateQuery(path), path, height)
	if err != nil {
		return nil, nil, err
	}
	if value == nil {
		return nil, proof, nil
	}
	var cs ClientState
	if err := json.Unmarshal(value, &cs); err != nil {
		return nil, nil, errorsmod.Wrapf(ErrInvalidProof, "malformed client state at %s: %v", path, err)
	}
	return &cs, proof, nil
}

// QueryConsensusState returns the verified consensus state the client stores
// for consensusHeight.
func (e *Engine) QueryConsensusState(ctx context.Context, chain *Chain, clientID string, consensusHeight, height Height) (*ConsensusState, *Proof, error) {
	path := ConsensusStatePath(clientID, consensusHeight)
	value, proof, err := e.Query(ctx, chain, stateQuery(path), path, height)
	if err != nil {
		return nil, nil, err
	}
	if value == nil {
		return nil, proof, nil
	}
	var cs ConsensusState
	if err := json.Unmarshal(value, &cs); err != nil {
		return nil, nil, errorsmod.Wrapf(ErrInvalidProof, "malformed consensus state at %s: %v", path, err)
	}
	return &cs, proof, nil
}

// QueryPacketCommitment returns the verified packet commitment, or nil with a
// valid absence proof if the commitment has been deleted.
func (e *Engine) QueryPacketCommitment(ctx context.Context, chain *Chain, portID, channelID string, sequence uint64, height Height) ([]byte, *Proof, error) {
	path := PacketCommitmentPath(portID, channelID, sequence)
	return e.Query(ctx, chain, stateQuery(path), path, height)
}

// QueryPacketAcknowledgement returns the verified acknowledgement commitment,
// or nil with a valid absence proof if no acknowledgement has been written.
func (e *Engine) QueryPacketAcknowledgement(ctx context.Context, chain *Chain, portID, channelID string, sequence uint64, height Height) ([]byte, *Proof, error) {
	path := PacketAcknowledgementPath(portID, channelID, sequence)
	return e.Query(ctx, chain, stateQuery(path), path, height)
}

// QueryPacketReceipt reports whether the packet receipt exists, with a proof
// of presence or absence.
func (e *Engine) QueryPacketReceipt(ctx context.Context, chain *Chain, portID, channelID string, sequence uint64, height Height) (bool, *Proof, error) {
	path := PacketReceiptPath(portID, channelID, sequence)
	value, proof, err := e.Query(ctx, chain, stateQuery(path), path, height)
	if err != nil {
		return false, nil, err
	}
	return value != nil, proof, nil
}

// QueryNextSequenceRecv returns the verified next receive sequence for the
// channel.
func (e *Engine) QueryNextSequenceRecv(ctx context.Context, chain *Chain, portID, channelID string, height Height) (uint64, *Proof, error) {
	return e.querySequence(ctx, chain, NextSequenceRecvPath(portID, channelID), height)
}

// QueryNextSequenceAck returns the verified next acknowledgement sequence for
// the channel.
func (e *Engine) QueryNextSequenceAck(ctx context.Context, chain *Chain, portID, channelID string, height Height) (uint64, *Proof, error) {
	return e.querySequence(ctx, chain, NextSequenceAckPath(portID, channelID), height)
}

// QueryNextSequenceSend returns the verified next send sequence for the
// channel.
func (e *Engine) QueryNextSequenceSend(ctx context.Context, chain *Chain, portID, channelID string, height Height) (uint64, *Proof, error) {
	return e.querySequence(ctx, chain, NextSequenceSendPath(portID, channelID), height)
}

func (e *Engine) querySequence(ctx context.Context, chain *Chain, path string, height Height) (uint64, *Proof, error) {
	value, proof, err := e.Query(ctx, chain, stateQuery(path), path, height)
	if err != nil {
		return 0, nil, err
	}
	if value == nil {
		return 0, proof, nil
	}
	if len(value) != 8 {
		return 0, nil, errorsmod.Wrapf(ErrInvalidProof, "malformed sequence at %s: %d bytes", path, len(value))
	}
	return binary.BigEndian.Uint64(value), proof, nil
}

// QueryChannelPair returns both verified channel ends concurrently.
func (e *Engine) QueryChannelPair(ctx context.Context, src, dst *Chain, srcPath, dstPath *PathEnd, height Height) (srcChan, dstChan *ChannelEnd, err error) {
	var eg = new(errgroup.Group)
	eg.Go(func() error {
		var err error
		srcChan, _, err = e.QueryChannel(ctx, src, srcPath.PortID, srcPath.ChannelID, height)
		return err
	})
	eg.Go(func() error {
		var err error
		dstChan, _, err = e.QueryChannel(ctx, dst, dstPath.PortID, dstPath.ChannelID, height)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return srcChan, dstChan, nil
}
