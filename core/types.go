package core

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	ics23 "github.com/cosmos/ics23/go"
)

// Height represents a chain height with its revision number. Revisions
// increment on hard forks that reset the block height.
type Height struct {
	RevisionNumber uint64 `json:"revision_number"`
	RevisionHeight uint64 `json:"revision_height"`
}

// ZeroHeight is the "latest" sentinel: a query at ZeroHeight reads and proves
// at the chain's current height rather than a fixed one.
var ZeroHeight = Height{}

func NewHeight(revisionNumber, revisionHeight uint64) Height {
	return Height{RevisionNumber: revisionNumber, RevisionHeight: revisionHeight}
}

func (h Height) IsZero() bool {
	return h.RevisionNumber == 0 && h.RevisionHeight == 0
}

// Compare returns -1, 0 or 1 if h is less than, equal to or greater than
// other. Revision numbers order before revision heights.
func (h Height) Compare(other Height) int {
	switch {
	case h.RevisionNumber < other.RevisionNumber:
		return -1
	case h.RevisionNumber > other.RevisionNumber:
		return 1
	case h.RevisionHeight < other.RevisionHeight:
		return -1
	case h.RevisionHeight > other.RevisionHeight:
		return 1
	default:
		return 0
	}
}

func (h Height) LT(other Height) bool  { return h.Compare(other) < 0 }
func (h Height) GTE(other Height) bool { return h.Compare(other) >= 0 }
func (h Height) EQ(other Height) bool  { return h.Compare(other) == 0 }

func (h Height) Increment() Height {
	return NewHeight(h.RevisionNumber, h.RevisionHeight+1)
}

func (h Height) String() string {
	return fmt.Sprintf("%d-%d", h.RevisionNumber, h.RevisionHeight)
}

// Packet is immutable once created. The sequence number is unique per channel
// and monotonically increasing for ordered channels.
type Packet struct {
	Sequence           uint64 `json:"sequence"`
	SourcePort         string `json:"source_port"`
	SourceChannel      string `json:"source_channel"`
	DestinationPort    string `json:"destination_port"`
	DestinationChannel string `json:"destination_channel"`
	Data               []byte `json:"data"`
	TimeoutHeight      Height `json:"timeout_height"`
	// TimeoutTimestamp is in unix nanoseconds on the destination chain clock.
	TimeoutTimestamp uint64 `json:"timeout_timestamp"`
}

func NewPacket(
	sequence uint64,
	sourcePort, sourceChannel string,
	destinationPort, destinationChannel string,
	data []byte,
	timeoutHeight Height,
	timeoutTimestamp uint64,
) Packet {
	return Packet{
		Sequence:           sequence,
		SourcePort:         sourcePort,
		SourceChannel:      sourceChannel,
		DestinationPort:    destinationPort,
		DestinationChannel: destinationChannel,
		Data:               data,
		TimeoutHeight:      timeoutHeight,
		TimeoutTimestamp:   timeoutTimestamp,
	}
}

func (p Packet) ValidateBasic() error {
	if p.Sequence == 0 {
		return errorsmod.Wrap(ErrInvalidPacket, "packet sequence cannot be 0")
	}
	if err := PortIdentifierValidator(p.SourcePort); err != nil {
		return errorsmod.Wrap(err, "invalid source port")
	}
	if err := ChannelIdentifierValidator(p.SourceChannel); err != nil {
		return errorsmod.Wrap(err, "invalid source channel")
	}
	if err := PortIdentifierValidator(p.DestinationPort); err != nil {
		return errorsmod.Wrap(err, "invalid destination port")
	}
	if err := ChannelIdentifierValidator(p.DestinationChannel); err != nil {
		return errorsmod.Wrap(err, "invalid destination channel")
	}
	if p.TimeoutHeight.IsZero() && p.TimeoutTimestamp == 0 {
		return errorsmod.Wrap(ErrInvalidPacket, "packet timeout height and packet timeout timestamp cannot both be 0")
	}
	if len(p.Data) == 0 {
		return errorsmod.Wrap(ErrInvalidPacket, "packet data bytes cannot be empty")
	}
	return nil
}

// TimedOut reports whether the packet timeout has been exceeded given the
// destination chain's consensus height and timestamp (unix nanoseconds).
func (p Packet) TimedOut(height Height, timestamp uint64) bool {
	if !p.TimeoutHeight.IsZero() && height.GTE(p.TimeoutHeight) {
		return true
	}
	if p.TimeoutTimestamp != 0 && timestamp >= p.TimeoutTimestamp {
		return true
	}
	return false
}

// CommitPacket returns the packet commitment stored under the packet
// commitment path:
//
//	sha256(timeout_timestamp_be || timeout_height_be || sha256(data))
func CommitPacket(p Packet) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, p.TimeoutTimestamp)

	heightBuf := make([]byte, 16)
	binary.BigEndian.PutUint64(heightBuf[:8], p.TimeoutHeight.RevisionNumber)
	binary.BigEndian.PutUint64(heightBuf[8:], p.TimeoutHeight.RevisionHeight)
	buf = append(buf, heightBuf...)

	dataHash := sha256.Sum256(p.Data)
	buf = append(buf, dataHash[:]...)

	hash := sha256.Sum256(buf)
	return hash[:]
}

// CommitAcknowledgement returns the hash stored under the acknowledgement path.
func CommitAcknowledgement(ack []byte) []byte {
	hash := sha256.Sum256(ack)
	return hash[:]
}

// Proof is a commitment proof together with the height it was proven at.
// Proofs are verified against a light-client root, never trusted blindly.
type Proof struct {
	Data   *ics23.CommitmentProof
	Height Height
}

// PacketInfo represents packet information acquired from a SendPacket event or
// a pair of RecvPacket/WriteAcknowledgement events. In the former case the
// Acknowledgement field is nil. EventHeight is the height the underlying event
// occurred at.
type PacketInfo struct {
	Packet          Packet `json:"packet"`
	Acknowledgement []byte `json:"acknowledgement"`
	EventHeight     Height `json:"event_height"`
}

// PacketInfoList is sorted in the order the underlying events occur.
type PacketInfoList []*PacketInfo

func (ps PacketInfoList) ExtractSequenceList() []uint64 {
	var seqs []uint64
	for _, p := range ps {
		seqs = append(seqs, p.Packet.Sequence)
	}
	return seqs
}

func (ps PacketInfoList) Filter(seqs []uint64) PacketInfoList {
	var ret PacketInfoList
	for _, p := range ps {
		for _, seq := range seqs {
			if p.Packet.Sequence == seq {
				ret = append(ret, p)
				break
			}
		}
	}
	return ret
}
