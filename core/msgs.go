package core

import (
	"context"

	errorsmod "cosmossdk.io/errors"
)

// Datagram is a cross-chain protocol message submitted to a chain to advance
// protocol state: a client update, a packet receive, an acknowledgement, a
// timeout or a handshake step.
type Datagram interface {
	Type() string
	ValidateBasic() error
}

// MsgUpdateClient advances a client with new signed headers. It must precede
// any datagram whose proof height the client has not reached yet.
type MsgUpdateClient struct {
	ClientID string
	Headers  []Header
}

func (m *MsgUpdateClient) Type() string { return "update_client" }

func (m *MsgUpdateClient) ValidateBasic() error {
	if err := ClientIdentifierValidator(m.ClientID); err != nil {
		return err
	}
	if len(m.Headers) == 0 {
		return errorsmod.Wrap(ErrInvalidChain, "update client requires at least one header")
	}
	return nil
}

// MsgRecvPacket delivers a packet with the proof of its commitment on the
// sending chain.
type MsgRecvPacket struct {
	Packet Packet
	Proof  Proof
}

func (m *MsgRecvPacket) Type() string { return "recv_packet" }

func (m *MsgRecvPacket) ValidateBasic() error {
	return m.Packet.ValidateBasic()
}

// MsgAcknowledgement relays an acknowledgement back to the sending chain with
// the proof of its commitment on the receiving chain.
type MsgAcknowledgement struct {
	Packet          Packet
	Acknowledgement []byte
	Proof           Proof
}

func (m *MsgAcknowledgement) Type() string { return "acknowledge_packet" }

func (m *MsgAcknowledgement) ValidateBasic() error {
	if len(m.Acknowledgement) == 0 {
		return errorsmod.Wrap(ErrInvalidPacket, "acknowledgement cannot be empty")
	}
	return m.Packet.ValidateBasic()
}

// MsgTimeout proves to the sending chain that the packet was never received
// before its timeout.
type MsgTimeout struct {
	Packet           Packet
	Proof            Proof
	NextSequenceRecv uint64
}

func (m *MsgTimeout) Type() string { return "timeout_packet" }

func (m *MsgTimeout) ValidateBasic() error {
	return m.Packet.ValidateBasic()
}

// Connection handshake datagrams. The handshake state machine itself runs on
// the host chains; these carry the proofs it consumes.

type MsgConnectionOpenTry struct {
	ClientID     string
	Counterparty ConnectionCounterparty
	ProofInit    Proof
}

func (m *MsgConnectionOpenTry) Type() string { return "connection_open_try" }

func (m *MsgConnectionOpenTry) ValidateBasic() error {
	return ClientIdentifierValidator(m.ClientID)
}

type MsgConnectionOpenAck struct {
	ConnectionID             string
	CounterpartyConnectionID string
	ProofTry                 Proof
}

func (m *MsgConnectionOpenAck) Type() string { return "connection_open_ack" }

func (m *MsgConnectionOpenAck) ValidateBasic() error {
	return ConnectionIdentifierValidator(m.ConnectionID)
}

type MsgConnectionOpenConfirm struct {
	ConnectionID string
	ProofAck     Proof
}

func (m *MsgConnectionOpenConfirm) Type() string { return "connection_open_confirm" }

func (m *MsgConnectionOpenConfirm) ValidateBasic() error {
	return ConnectionIdentifierValidator(m.ConnectionID)
}

// Channel handshake datagrams.

type MsgChannelOpenTry struct {
	PortID       string
	Counterparty ChannelCounterparty
	Version      string
	ProofInit    Proof
}

func (m *MsgChannelOpenTry) Type() string { return "channel_open_try" }

func (m *MsgChannelOpenTry) ValidateBasic() error {
	return PortIdentifierValidator(m.PortID)
}

type MsgChannelOpenAck struct {
	PortID                string
	ChannelID             string
	CounterpartyChannelID string
	CounterpartyVersion   string
	ProofTry              Proof
}

func (m *MsgChannelOpenAck) Type() string { return "channel_open_ack" }

func (m *MsgChannelOpenAck) ValidateBasic() error {
	if err := PortIdentifierValidator(m.PortID); err != nil {
		return err
	}
	return ChannelIdentifierValidator(m.ChannelID)
}

type MsgChannelOpenConfirm struct {
	PortID    string
	ChannelID string
	ProofAck  Proof
}

func (m *MsgChannelOpenConfirm) Type() string { return "channel_open_confirm" }

func (m *MsgChannelOpenConfirm) ValidateBasic() error {
	if err := PortIdentifierValidator(m.PortID); err != nil {
		return err
	}
	return ChannelIdentifierValidator(m.ChannelID)
}

// Submitter delivers datagrams to a chain. Transaction signing and broadcast
// live behind this interface, outside the relaying core.
type Submitter interface {
	SubmitDatagrams(ctx context.Context, msgs []Datagram) error
}

// RelayMsgs contains the datagrams that need to be sent to both a src and dst
// chain after a relay round. MaxMsgLength is ignored when zero.
type RelayMsgs struct {
	Src          []Datagram
	Dst          []Datagram
	MaxMsgLength uint64

	Succeeded bool
}

func NewRelayMsgs() *RelayMsgs {
	return &RelayMsgs{Src: []Datagram{}, Dst: []Datagram{}}
}

// Ready returns true if there are messages to relay.
func (r *RelayMsgs) Ready() bool {
	if r == nil {
		return false
	}
	return len(r.Src) != 0 || len(r.Dst) != 0
}

func (r *RelayMsgs) Merge(other *RelayMsgs) {
	r.Src = append(r.Src, other.Src...)
	r.Dst = append(r.Dst, other.Dst...)
}

// Send submits the batched datagrams to their respective chains and records
// overall success.
func (r *RelayMsgs) Send(ctx context.Context, src, dst Submitter) {
	r.Succeeded = true
	if len(r.Src) > 0 {
		if err := submitBatched(ctx, src, r.Src, r.MaxMsgLength); err != nil {
			r.Succeeded = false
		}
	}
	if len(r.Dst) > 0 {
		if err := submitBatched(ctx, dst, r.Dst, r.MaxMsgLength); err != nil {
			r.Succeeded = false
		}
	}
}

func submitBatched(ctx context.Context, sub Submitter, msgs []Datagram, maxLen uint64) error {
	if maxLen == 0 || uint64(len(msgs)) <= maxLen {
		return sub.SubmitDatagrams(ctx, msgs)
	}
	for len(msgs) > 0 {
		n := uint64(len(msgs))
		if n > maxLen {
			n = maxLen
		}
		if err := sub.SubmitDatagrams(ctx, msgs[:n]); err != nil {
			return err
		}
		msgs = msgs[n:]
	}
	return nil
}
