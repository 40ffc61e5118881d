package core

import (
	"context"
	"time"

	ics23 "github.com/cosmos/ics23/go"
)

// Provider is a network endpoint through which a chain's state is queried.
// Providers are assumed possibly faulty: any error, malformed response or bad
// proof coming out of a provider is treated as a provider fault by the query
// engine and resolved by failover, never surfaced to the caller.
//
// All queries are read-only and safe to retry arbitrarily.
type Provider interface {
	// Endpoint returns the network address of the provider.
	Endpoint() string

	// LatestHeight returns the chain's current consensus height. Unproven.
	LatestHeight(ctx context.Context) (Height, error)

	// Timestamp returns the consensus timestamp at the given height. Unproven.
	Timestamp(ctx context.Context, height Height) (time.Time, error)

	// State reads the value stored under path at the given height together
	// with a commitment proof. For an absent key the returned value is nil and
	// the proof is a non-membership proof. The caller verifies the proof; a
	// provider response is never trusted on its own.
	State(ctx context.Context, path string, height Height) (value []byte, proof *ics23.CommitmentProof, err error)

	// Packet returns the packet that produced the send event for the given
	// sequence. Unproven; the packet is checked against the proven commitment
	// before any datagram is built from it.
	Packet(ctx context.Context, portID, channelID string, sequence uint64) (*Packet, error)

	// PacketCommitmentSequences lists the sequences with an outstanding packet
	// commitment on the channel. Unproven; used only to discover relay
	// candidates, every per-packet decision is made on verified reads.
	PacketCommitmentSequences(ctx context.Context, portID, channelID string) ([]uint64, error)

	// PacketAcknowledgementSequences lists the sequences with a stored
	// acknowledgement on the channel. Unproven, candidates only.
	PacketAcknowledgementSequences(ctx context.Context, portID, channelID string) ([]uint64, error)

	// PacketAcknowledgement returns the raw acknowledgement written for the
	// sequence. Unproven; checked against the proven ack commitment before a
	// datagram is built from it.
	PacketAcknowledgement(ctx context.Context, portID, channelID string, sequence uint64) ([]byte, error)
}
