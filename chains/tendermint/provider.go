package tendermint

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	rpcclient "github.com/cometbft/cometbft/rpc/client"
	rpchttp "github.com/cometbft/cometbft/rpc/client/http"
	libclient "github.com/cometbft/cometbft/rpc/jsonrpc/client"
	ics23 "github.com/cosmos/ics23/go"

	"github.com/interchainlabs/relaycore/core"
)

// storeQueryPath is the ABCI query path resolving keys in the host's
// commitment store.
const storeQueryPath = "store/ibc/key"

// Provider queries a chain through a single CometBFT RPC endpoint. Responses
// are never trusted: proofs returned here are verified by the query engine
// against a light-client root before any value is used.
type Provider struct {
	endpoint string
	client   *rpchttp.HTTP
	revision uint64
}

var _ core.Provider = (*Provider)(nil)

// NewProvider dials the RPC endpoint. The revision number is derived from the
// chain ID and stamped onto every height the provider reports.
func NewProvider(endpoint, chainID string, timeout time.Duration) (*Provider, error) {
	httpClient, err := libclient.DefaultHTTPClient(endpoint)
	if err != nil {
		return nil, err
	}
	httpClient.Timeout = timeout
	rpcClient, err := rpchttp.NewWithClient(endpoint, "/websocket", httpClient)
	if err != nil {
		return nil, err
	}
	return &Provider{
		endpoint: endpoint,
		client:   rpcClient,
		revision: parseChainRevision(chainID),
	}, nil
}

func (p *Provider) Endpoint() string {
	return p.endpoint
}

func (p *Provider) LatestHeight(ctx context.Context) (core.Height, error) {
	status, err := p.client.Status(ctx)
	if err != nil {
		return core.Height{}, err
	}
	if status.SyncInfo.CatchingUp {
		return core.Height{}, errorsmod.Wrapf(core.ErrInvalidHeight, "node %s is still catching up", p.endpoint)
	}
	return core.NewHeight(p.revision, uint64(status.SyncInfo.LatestBlockHeight)), nil
}

func (p *Provider) Timestamp(ctx context.Context, height core.Height) (time.Time, error) {
	h := int64(height.RevisionHeight)
	block, err := p.client.Block(ctx, &h)
	if err != nil {
		return time.Time{}, err
	}
	return block.Block.Header.Time, nil
}

// State performs a proven ABCI query against the commitment store. The first
// proof op carries the ics23 proof over the store; an absent key comes back
// with a nil value and a non-membership proof.
func (p *Provider) State(ctx context.Context, path string, height core.Height) ([]byte, *ics23.CommitmentProof, error) {
	resp, err := p.client.ABCIQueryWithOptions(ctx, storeQueryPath, []byte(path), rpcclient.ABCIQueryOptions{
		Height: int64(height.RevisionHeight),
		Prove:  true,
	})
	if err != nil {
		return nil, nil, err
	}
	if resp.Response.IsErr() {
		return nil, nil, fmt.Errorf("abci query failed: code %d, log: %s", resp.Response.Code, resp.Response.Log)
	}
	if resp.Response.ProofOps == nil || len(resp.Response.ProofOps.Ops) == 0 {
		return nil, nil, errorsmod.Wrapf(core.ErrInvalidProof, "no proof returned for path %s", path)
	}

	var proof ics23.CommitmentProof
	if err := proof.Unmarshal(resp.Response.ProofOps.Ops[0].Data); err != nil {
		return nil, nil, errorsmod.Wrapf(core.ErrInvalidProof, "cannot unmarshal proof op: %v", err)
	}

	value := resp.Response.Value
	if len(value) == 0 {
		value = nil
	}
	return value, &proof, nil
}

// Packet reconstructs a sent packet from its send event.
func (p *Provider) Packet(ctx context.Context, portID, channelID string, sequence uint64) (*core.Packet, error) {
	query := fmt.Sprintf("%s.%s='%s' AND %s.%s='%d'",
		eventTypeSendPacket, attributeKeySrcChannel, channelID,
		eventTypeSendPacket, attributeKeySequence, sequence,
	)
	result, err := p.client.TxSearch(ctx, query, false, nil, nil, "asc")
	if err != nil {
		return nil, err
	}
	for _, tx := range result.Txs {
		packet, err := findPacketFromEventsBySequence(tx.TxResult.Events, sequence)
		if err != nil {
			return nil, err
		}
		if packet != nil && packet.SourcePort == portID && packet.SourceChannel == channelID {
			return packet, nil
		}
	}
	return nil, errorsmod.Wrapf(core.ErrUnknownEvent, "no send event found for %s/%s sequence %d", portID, channelID, sequence)
}

// PacketCommitmentSequences scans the channel's sequence space for
// outstanding commitments. The scan is bounded by the channel's next send
// sequence and entirely unproven; callers re-check every candidate through
// verified queries.
func (p *Provider) PacketCommitmentSequences(ctx context.Context, portID, channelID string) ([]uint64, error) {
	next, err := p.querySequenceUnproven(ctx, core.NextSequenceSendPath(portID, channelID))
	if err != nil {
		return nil, err
	}
	var seqs []uint64
	for seq := uint64(1); seq < next; seq++ {
		value, err := p.queryUnproven(ctx, core.PacketCommitmentPath(portID, channelID, seq))
		if err != nil {
			return nil, err
		}
		if len(value) > 0 {
			seqs = append(seqs, seq)
		}
	}
	return seqs, nil
}

// PacketAcknowledgementSequences lists sequences with a written
// acknowledgement on the channel, from write_acknowledgement events.
func (p *Provider) PacketAcknowledgementSequences(ctx context.Context, portID, channelID string) ([]uint64, error) {
	query := fmt.Sprintf("%s.%s='%s'", eventTypeWriteAck, attributeKeyDstChannel, channelID)
	result, err := p.client.TxSearch(ctx, query, false, nil, nil, "asc")
	if err != nil {
		return nil, err
	}
	var seqs []uint64
	for _, tx := range result.Txs {
		acks, err := getAcksFromEvents(tx.TxResult.Events)
		if err != nil {
			return nil, err
		}
		for _, ack := range acks {
			seqs = append(seqs, ack.sequence)
		}
	}
	return seqs, nil
}

// PacketAcknowledgement returns the raw acknowledgement bytes written for the
// sequence.
func (p *Provider) PacketAcknowledgement(ctx context.Context, portID, channelID string, sequence uint64) ([]byte, error) {
	query := fmt.Sprintf("%s.%s='%s' AND %s.%s='%d'",
		eventTypeWriteAck, attributeKeyDstChannel, channelID,
		eventTypeWriteAck, attributeKeySequence, sequence,
	)
	result, err := p.client.TxSearch(ctx, query, false, nil, nil, "asc")
	if err != nil {
		return nil, err
	}
	for _, tx := range result.Txs {
		acks, err := getAcksFromEvents(tx.TxResult.Events)
		if err != nil {
			return nil, err
		}
		for _, ack := range acks {
			if ack.sequence == sequence {
				return ack.data, nil
			}
		}
	}
	return nil, errorsmod.Wrapf(core.ErrUnknownEvent, "no acknowledgement event found for %s/%s sequence %d", portID, channelID, sequence)
}

// queryUnproven reads a store key at the latest height without a proof.
func (p *Provider) queryUnproven(ctx context.Context, path string) ([]byte, error) {
	resp, err := p.client.ABCIQueryWithOptions(ctx, storeQueryPath, []byte(path), rpcclient.ABCIQueryOptions{})
	if err != nil {
		return nil, err
	}
	if resp.Response.IsErr() {
		return nil, fmt.Errorf("abci query failed: code %d, log: %s", resp.Response.Code, resp.Response.Log)
	}
	return resp.Response.Value, nil
}

func (p *Provider) querySequenceUnproven(ctx context.Context, path string) (uint64, error) {
	value, err := p.queryUnproven(ctx, path)
	if err != nil {
		return 0, err
	}
	if len(value) != 8 {
		return 0, errorsmod.Wrapf(core.ErrInvalidHeight, "malformed sequence value at %s", path)
	}
	return binary.BigEndian.Uint64(value), nil
}
