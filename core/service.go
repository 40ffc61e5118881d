package core

import (
	"context"
	"time"

	retry "github.com/avast/retry-go"
	"go.opentelemetry.io/otel/codes"

	"github.com/interchainlabs/relaycore/log"
	"github.com/interchainlabs/relaycore/metrics"
)

// RelayService drives one chain pair: it discovers packets awaiting a relay
// action, classifies them, builds the datagrams and hands them to the
// submitters. Each chain pair runs its own service; there is no coordination
// between pairs.
type RelayService struct {
	src, dst          *Chain
	srcPath, dstPath  *PathEnd
	srcSub, dstSub    Submitter
	tracker           *Tracker
	builder           *Builder
	interval          time.Duration
	maxDatagramsPerTx uint64
}

func NewRelayService(
	src, dst *Chain,
	srcPath, dstPath *PathEnd,
	srcSub, dstSub Submitter,
	engine *Engine,
	interval time.Duration,
	maxDatagramsPerTx uint64,
) *RelayService {
	return &RelayService{
		src:               src,
		dst:               dst,
		srcPath:           srcPath,
		dstPath:           dstPath,
		srcSub:            srcSub,
		dstSub:            dstSub,
		tracker:           NewTracker(engine),
		builder:           NewBuilder(engine),
		interval:          interval,
		maxDatagramsPerTx: maxDatagramsPerTx,
	}
}

// Start runs the relay loop until the context is cancelled.
func (srv *RelayService) Start(ctx context.Context) error {
	logger := srv.logger()
	for {
		if err := retry.Do(func() error {
			return srv.Serve(ctx)
		}, rtyAtt, rtyDel, rtyErr, retry.Context(ctx), retry.OnRetry(func(n uint, err error) {
			logger.InfoContext(ctx,
				"retrying to serve relays",
				"try", n+1,
				"try_limit", rtyAttNum,
				"error", err.Error(),
			)
		})); err != nil {
			return err
		}
		if err := wait(ctx, srv.interval); err != nil {
			return err
		}
	}
}

// Serve performs one relay round in both directions.
func (srv *RelayService) Serve(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "RelayService.Serve")
	defer span.End()
	logger := srv.logger()

	msgs := NewRelayMsgs()
	msgs.MaxMsgLength = srv.maxDatagramsPerTx

	backlog, err := srv.relayDirection(ctx, srv.src, srv.dst, srv.srcPath, msgs, false)
	if err != nil {
		logger.ErrorContext(ctx, "failed to relay src->dst", err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	metrics.SetBacklogSize(ctx, srv.src.ChainID(), srv.dst.ChainID(), int64(backlog))

	backlog, err = srv.relayDirection(ctx, srv.dst, srv.src, srv.dstPath, msgs, true)
	if err != nil {
		logger.ErrorContext(ctx, "failed to relay dst->src", err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	metrics.SetBacklogSize(ctx, srv.dst.ChainID(), srv.src.ChainID(), int64(backlog))

	if !msgs.Ready() {
		logger.DebugContext(ctx, "no packets to relay")
		return nil
	}

	msgs.Send(ctx, srv.srcSub, srv.dstSub)
	if msgs.Succeeded {
		if n := len(msgs.Dst); n > 0 {
			metrics.IncrRelayedPackets(ctx, srv.dst.ChainID(), int64(n))
		}
		if n := len(msgs.Src); n > 0 {
			metrics.IncrRelayedPackets(ctx, srv.src.ChainID(), int64(n))
		}
		logger.InfoContext(ctx,
			"relayed datagrams",
			"src_msgs", len(msgs.Src),
			"dst_msgs", len(msgs.Dst),
		)
	}
	return nil
}

// relayDirection scans packets sent from "from" and appends the datagrams
// each of them needs. The candidate list is unproven; every per-packet
// decision below goes through verified queries.
func (srv *RelayService) relayDirection(ctx context.Context, from, to *Chain, fromPath *PathEnd, msgs *RelayMsgs, reverse bool) (int, error) {
	prov := from.Provider()
	if prov == nil {
		return 0, ErrNoAvailableProvider
	}
	seqs, err := prov.PacketCommitmentSequences(ctx, fromPath.PortID, fromPath.ChannelID)
	if err != nil {
		return 0, err
	}
	if len(seqs) == 0 {
		return 0, nil
	}

	fromHeight, err := from.LatestHeight(ctx)
	if err != nil {
		return 0, err
	}
	toHeight, err := to.LatestHeight(ctx)
	if err != nil {
		return 0, err
	}
	metrics.SetProcessedBlockHeight(ctx, from.ChainID(), int64(fromHeight.RevisionHeight))
	metrics.SetProcessedBlockHeight(ctx, to.ChainID(), int64(toHeight.RevisionHeight))

	backlog := 0
	for _, seq := range seqs {
		packet, err := prov.Packet(ctx, fromPath.PortID, fromPath.ChannelID, seq)
		if err != nil {
			return backlog, err
		}
		action, err := srv.tracker.Classify(ctx, from, to, *packet)
		if err != nil {
			return backlog, err
		}
		if action == NoActionNeeded {
			continue
		}
		backlog++

		var (
			dg    Datagram
			forTo bool
		)
		switch action {
		case NeedsRecv:
			ev := &SendPacketEvent{Packet: *packet, EventHeight: fromHeight}
			dg, err = srv.builder.CreateDatagram(ctx, ev, from, to, fromHeight)
			forTo = true
		case NeedsAck:
			toProv := to.Provider()
			if toProv == nil {
				return backlog, ErrNoAvailableProvider
			}
			var ack []byte
			if ack, err = toProv.PacketAcknowledgement(ctx, packet.DestinationPort, packet.DestinationChannel, seq); err != nil {
				return backlog, err
			}
			ev := &WriteAcknowledgementEvent{Packet: *packet, Acknowledgement: ack, EventHeight: toHeight}
			dg, err = srv.builder.CreateDatagram(ctx, ev, to, from, toHeight)
		case NeedsTimeout:
			ev := &TimeoutPacketEvent{Packet: *packet}
			dg, err = srv.builder.CreateDatagram(ctx, ev, to, from, toHeight)
		}
		if err != nil {
			return backlog, err
		}
		if dg == nil {
			continue
		}
		// NeedsRecv datagrams go to the counterparty; acks and timeouts come
		// back to the sender.
		if forTo != reverse {
			msgs.Dst = append(msgs.Dst, dg)
		} else {
			msgs.Src = append(msgs.Src, dg)
		}
	}
	return backlog, nil
}

func (srv *RelayService) logger() *log.RelayLogger {
	return log.GetLogger().WithChannel(
		srv.src.ChainID(), srv.srcPath.PortID, srv.srcPath.ChannelID,
		srv.dst.ChainID(), srv.dstPath.PortID, srv.dstPath.ChannelID,
	).WithModule("core.service")
}
