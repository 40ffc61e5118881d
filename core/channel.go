package core

import (
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// ChannelState is the state of a channel handshake.
type ChannelState int32

const (
	ChannelUninitialized ChannelState = iota
	ChannelInit
	ChannelTryOpen
	ChannelOpen
	ChannelClosed
)

func (s ChannelState) String() string {
	switch s {
	case ChannelInit:
		return "INIT"
	case ChannelTryOpen:
		return "TRYOPEN"
	case ChannelOpen:
		return "OPEN"
	case ChannelClosed:
		return "CLOSED"
	default:
		return "UNINITIALIZED"
	}
}

// CanTransitionTo reports whether the handshake state machine permits moving
// from s to next. CLOSED is terminal and reachable from any non-terminal
// state.
func (s ChannelState) CanTransitionTo(next ChannelState) bool {
	if next == ChannelClosed {
		return s == ChannelInit || s == ChannelTryOpen || s == ChannelOpen
	}
	switch s {
	case ChannelUninitialized:
		return next == ChannelInit || next == ChannelTryOpen
	case ChannelInit:
		return next == ChannelTryOpen || next == ChannelOpen
	case ChannelTryOpen:
		return next == ChannelOpen
	default:
		return false
	}
}

// Order defines the packet ordering guarantee of a channel. Unordered channels
// relax only causal ordering between distinct sequences; sequence uniqueness
// holds either way.
type Order int32

const (
	OrderNone Order = iota
	OrderUnordered
	OrderOrdered
)

func (o Order) String() string {
	switch o {
	case OrderUnordered:
		return "UNORDERED"
	case OrderOrdered:
		return "ORDERED"
	default:
		return "NONE"
	}
}

// OrderFromString parses a string into a channel order.
func OrderFromString(order string) Order {
	switch strings.ToUpper(order) {
	case "UNORDERED":
		return OrderUnordered
	case "ORDERED":
		return OrderOrdered
	default:
		return OrderNone
	}
}

// ChannelCounterparty identifies the remote end of a channel.
type ChannelCounterparty struct {
	PortID    string `json:"port_id"`
	ChannelID string `json:"channel_id"`
}

// ChannelEnd is one end of a channel between two chains.
type ChannelEnd struct {
	State          ChannelState        `json:"state"`
	Ordering       Order               `json:"ordering"`
	Counterparty   ChannelCounterparty `json:"counterparty"`
	ConnectionHops []string            `json:"connection_hops"`
	Version        string              `json:"version"`
}

func (c ChannelEnd) ValidateBasic() error {
	if c.Ordering == OrderNone {
		return errorsmod.Wrap(ErrInvalidIdentifier, "channel ordering must be ORDERED or UNORDERED")
	}
	if len(c.ConnectionHops) != 1 {
		return errorsmod.Wrap(ErrInvalidIdentifier, "must have a single connection hop")
	}
	if err := ConnectionIdentifierValidator(c.ConnectionHops[0]); err != nil {
		return errorsmod.Wrap(err, "invalid connection hop")
	}
	if err := PortIdentifierValidator(c.Counterparty.PortID); err != nil {
		return errorsmod.Wrap(err, "invalid counterparty port id")
	}
	if c.Counterparty.ChannelID != "" {
		if err := ChannelIdentifierValidator(c.Counterparty.ChannelID); err != nil {
			return errorsmod.Wrap(err, "invalid counterparty channel id")
		}
	}
	return nil
}
