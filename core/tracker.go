package core

import (
	"context"

	"github.com/interchainlabs/relaycore/log"
)

// PacketAction is the relay action a packet currently needs.
type PacketAction int

const (
	NoActionNeeded PacketAction = iota
	NeedsRecv
	NeedsAck
	NeedsTimeout
)

func (a PacketAction) String() string {
	switch a {
	case NeedsRecv:
		return "NeedsRecv"
	case NeedsAck:
		return "NeedsAck"
	case NeedsTimeout:
		return "NeedsTimeout"
	default:
		return "NoActionNeeded"
	}
}

// NextSequences are the verified per-channel sequence counters.
type NextSequences struct {
	Send uint64
	Recv uint64
	Ack  uint64
}

// Tracker classifies the lifecycle of in-flight packets from verified reads
// on both chains.
type Tracker struct {
	engine *Engine
}

func NewTracker(engine *Engine) *Tracker {
	return &Tracker{engine: engine}
}

// NextSequences reads the channel's next-sequence-send/recv/ack counters
// through the verified query engine.
func (t *Tracker) NextSequences(ctx context.Context, chain *Chain, portID, channelID string) (NextSequences, error) {
	var seqs NextSequences
	var err error
	if seqs.Send, _, err = t.engine.QueryNextSequenceSend(ctx, chain, portID, channelID, ZeroHeight); err != nil {
		return NextSequences{}, err
	}
	if seqs.Recv, _, err = t.engine.QueryNextSequenceRecv(ctx, chain, portID, channelID, ZeroHeight); err != nil {
		return NextSequences{}, err
	}
	if seqs.Ack, _, err = t.engine.QueryNextSequenceAck(ctx, chain, portID, channelID, ZeroHeight); err != nil {
		return NextSequences{}, err
	}
	return seqs, nil
}

// Classify determines the relay action a packet sent from src to dst
// currently needs. All state reads are verified; the destination chain's own
// consensus clock decides timeouts.
func (t *Tracker) Classify(ctx context.Context, src, dst *Chain, packet Packet) (PacketAction, error) {
	logger := log.GetLogger().WithChainPair(src.ChainID(), dst.ChainID()).WithModule("core.tracker")

	// A deleted commitment means the packet lifecycle already completed on
	// the source chain.
	commitment, _, err := t.engine.QueryPacketCommitment(ctx, src, packet.SourcePort, packet.SourceChannel, packet.Sequence, ZeroHeight)
	if err != nil {
		return NoActionNeeded, err
	}
	if commitment == nil {
		return NoActionNeeded, nil
	}

	// A stored acknowledgement not yet relayed back keeps the commitment
	// alive on the source side.
	ack, _, err := t.engine.QueryPacketAcknowledgement(ctx, dst, packet.DestinationPort, packet.DestinationChannel, packet.Sequence, ZeroHeight)
	if err != nil {
		return NoActionNeeded, err
	}
	if ack != nil {
		return NeedsAck, nil
	}

	received, _, err := t.engine.QueryPacketReceipt(ctx, dst, packet.DestinationPort, packet.DestinationChannel, packet.Sequence, ZeroHeight)
	if err != nil {
		return NoActionNeeded, err
	}

	dstHeight, err := dst.LatestHeight(ctx)
	if err != nil {
		return NoActionNeeded, err
	}
	dstTime, err := dst.Timestamp(ctx, dstHeight)
	if err != nil {
		return NoActionNeeded, err
	}
	if !received && packet.TimedOut(dstHeight, uint64(dstTime.UnixNano())) {
		return NeedsTimeout, nil
	}
	if received {
		// Receipt exists but the acknowledgement has not been written yet;
		// nothing for the relayer to do until it is.
		return NoActionNeeded, nil
	}

	// The receive datagram needs the client on dst to have caught up to the
	// commitment's proof height; the datagram builder prepends a client
	// update when it has not.
	if cs, _, err := t.engine.QueryClientState(ctx, dst, dst.ClientID(), ZeroHeight); err == nil && cs != nil {
		logger.DebugContext(ctx,
			"packet needs receive",
			"sequence", packet.Sequence,
			"dst_client_height", cs.LatestHeight.String(),
		)
	}
	return NeedsRecv, nil
}
