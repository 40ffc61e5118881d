package tendermint

import (
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"

	"github.com/interchainlabs/relaycore/core"
)

// ABCI event types and attribute keys emitted by the channel layer.
const (
	eventTypeSendPacket = "send_packet"
	eventTypeWriteAck   = "write_acknowledgement"

	attributeKeyData             = "packet_data"
	attributeKeyAck              = "packet_ack"
	attributeKeyTimeoutHeight    = "packet_timeout_height"
	attributeKeyTimeoutTimestamp = "packet_timeout_timestamp"
	attributeKeySequence         = "packet_sequence"
	attributeKeySrcPort          = "packet_src_port"
	attributeKeySrcChannel       = "packet_src_channel"
	attributeKeyDstPort          = "packet_dst_port"
	attributeKeyDstChannel       = "packet_dst_channel"
)

// getPacketsFromEvents reconstructs packets from send_packet events.
// All attributes of one packet are included in a single event.
func getPacketsFromEvents(events []abci.Event) ([]core.Packet, error) {
	var packets []core.Packet
	for _, ev := range events {
		if ev.Type != eventTypeSendPacket {
			continue
		}
		var packet core.Packet
		for _, attr := range ev.Attributes {
			v := attr.Value
			switch attr.Key {
			case attributeKeyData:
				packet.Data = []byte(v)
			case attributeKeyTimeoutHeight:
				height, err := parseHeight(v)
				if err != nil {
					return nil, err
				}
				packet.TimeoutHeight = height
			case attributeKeyTimeoutTimestamp:
				ts, err := strconv.ParseUint(v, 10, 64)
				if err != nil {
					return nil, errorsmod.Wrapf(core.ErrUnknownEvent, "invalid timeout timestamp %q", v)
				}
				packet.TimeoutTimestamp = ts
			case attributeKeySequence:
				seq, err := strconv.ParseUint(v, 10, 64)
				if err != nil {
					return nil, errorsmod.Wrapf(core.ErrUnknownEvent, "invalid sequence %q", v)
				}
				packet.Sequence = seq
			case attributeKeySrcPort:
				packet.SourcePort = v
			case attributeKeySrcChannel:
				packet.SourceChannel = v
			case attributeKeyDstPort:
				packet.DestinationPort = v
			case attributeKeyDstChannel:
				packet.DestinationChannel = v
			}
		}
		if err := packet.ValidateBasic(); err != nil {
			return nil, err
		}
		packets = append(packets, packet)
	}
	return packets, nil
}

// findPacketFromEventsBySequence returns the packet with the given sequence,
// or nil if the events contain none.
func findPacketFromEventsBySequence(events []abci.Event, seq uint64) (*core.Packet, error) {
	packets, err := getPacketsFromEvents(events)
	if err != nil {
		return nil, err
	}
	for i := range packets {
		if packets[i].Sequence == seq {
			return &packets[i], nil
		}
	}
	return nil, nil
}

type packetAcknowledgement struct {
	sequence uint64
	data     []byte
}

// getAcksFromEvents extracts acknowledgements from write_acknowledgement
// events.
func getAcksFromEvents(events []abci.Event) ([]packetAcknowledgement, error) {
	var acks []packetAcknowledgement
	for _, ev := range events {
		if ev.Type != eventTypeWriteAck {
			continue
		}
		var ack packetAcknowledgement
		for _, attr := range ev.Attributes {
			switch attr.Key {
			case attributeKeySequence:
				seq, err := strconv.ParseUint(attr.Value, 10, 64)
				if err != nil {
					return nil, errorsmod.Wrapf(core.ErrUnknownEvent, "invalid sequence %q", attr.Value)
				}
				ack.sequence = seq
			case attributeKeyAck:
				ack.data = []byte(attr.Value)
			}
		}
		acks = append(acks, ack)
	}
	return acks, nil
}

// parseHeight parses a "revision-height" string.
func parseHeight(s string) (core.Height, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return core.Height{}, errorsmod.Wrapf(core.ErrInvalidHeight, "invalid height string %q", s)
	}
	revision, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return core.Height{}, errorsmod.Wrapf(core.ErrInvalidHeight, "invalid revision number in %q", s)
	}
	height, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return core.Height{}, errorsmod.Wrapf(core.ErrInvalidHeight, "invalid revision height in %q", s)
	}
	return core.NewHeight(revision, height), nil
}

// parseChainRevision extracts the revision number from a chain ID of the form
// "name-N". Chain IDs without a numeric suffix are revision 0.
func parseChainRevision(chainID string) uint64 {
	idx := strings.LastIndex(chainID, "-")
	if idx < 0 {
		return 0
	}
	revision, err := strconv.ParseUint(chainID[idx+1:], 10, 64)
	if err != nil {
		return 0
	}
	return revision
}
