package core

// Event is a chain occurrence that requires a relay action on the
// counterparty. Events carry the height they were observed at; proofs for the
// resulting datagram are read at or after that height.
type Event interface {
	Kind() string
}

// SendPacketEvent is emitted when a packet commitment is written on the
// sending chain.
type SendPacketEvent struct {
	Packet      Packet
	EventHeight Height
}

func (SendPacketEvent) Kind() string { return "send_packet" }

// WriteAcknowledgementEvent is emitted when the receiving chain stores an
// acknowledgement for a packet.
type WriteAcknowledgementEvent struct {
	Packet          Packet
	Acknowledgement []byte
	EventHeight     Height
}

func (WriteAcknowledgementEvent) Kind() string { return "write_acknowledgement" }

// TimeoutPacketEvent indicates that a packet's timeout has been exceeded on
// the chain that should have received it, without a receipt being written.
type TimeoutPacketEvent struct {
	Packet Packet
}

func (TimeoutPacketEvent) Kind() string { return "timeout_packet" }

// ConnectionHandshakeEvent reports the connection handshake state observed on
// one chain so the counterparty can take the next step.
type ConnectionHandshakeEvent struct {
	// State is the handshake state reached on the observed chain.
	State        ConnectionState
	ConnectionID string
	ClientID     string
	Counterparty ConnectionCounterparty
	EventHeight  Height
}

func (ConnectionHandshakeEvent) Kind() string { return "connection_handshake" }

// ChannelHandshakeEvent reports the channel handshake state observed on one
// chain so the counterparty can take the next step.
type ChannelHandshakeEvent struct {
	// State is the handshake state reached on the observed chain.
	State        ChannelState
	PortID       string
	ChannelID    string
	Counterparty ChannelCounterparty
	EventHeight  Height
}

func (ChannelHandshakeEvent) Kind() string { return "channel_handshake" }
