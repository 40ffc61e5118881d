package core

import (
	errorsmod "cosmossdk.io/errors"
)

// ConnectionState is the state of a connection handshake.
type ConnectionState int32

const (
	ConnectionUninitialized ConnectionState = iota
	ConnectionInit
	ConnectionTryOpen
	ConnectionOpen
)

func (s ConnectionState) String() string {
	switch s {
	case ConnectionInit:
		return "INIT"
	case ConnectionTryOpen:
		return "TRYOPEN"
	case ConnectionOpen:
		return "OPEN"
	default:
		return "UNINITIALIZED"
	}
}

// CanTransitionTo reports whether the handshake state machine permits moving
// from s to next. Transitions are driven by handshake datagrams submitted to
// the host chain; the relaying core only reads connection state.
func (s ConnectionState) CanTransitionTo(next ConnectionState) bool {
	switch s {
	case ConnectionUninitialized:
		return next == ConnectionInit || next == ConnectionTryOpen
	case ConnectionInit:
		return next == ConnectionTryOpen || next == ConnectionOpen
	case ConnectionTryOpen:
		return next == ConnectionOpen
	default:
		return false
	}
}

// ConnectionCounterparty identifies the remote end of a connection.
type ConnectionCounterparty struct {
	ClientID     string `json:"client_id"`
	ConnectionID string `json:"connection_id"`
	Prefix       []byte `json:"prefix"`
}

// ConnectionEnd is one end of a connection between two chains.
type ConnectionEnd struct {
	State        ConnectionState        `json:"state"`
	ClientID     string                 `json:"client_id"`
	Counterparty ConnectionCounterparty `json:"counterparty"`
	Versions     []string               `json:"versions"`
	DelayPeriod  uint64                 `json:"delay_period"`
}

func (c ConnectionEnd) ValidateBasic() error {
	if err := ClientIdentifierValidator(c.ClientID); err != nil {
		return errorsmod.Wrap(err, "invalid client id")
	}
	if err := ClientIdentifierValidator(c.Counterparty.ClientID); err != nil {
		return errorsmod.Wrap(err, "invalid counterparty client id")
	}
	if c.Counterparty.ConnectionID != "" {
		if err := ConnectionIdentifierValidator(c.Counterparty.ConnectionID); err != nil {
			return errorsmod.Wrap(err, "invalid counterparty connection id")
		}
	}
	return nil
}
