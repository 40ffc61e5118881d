package core

import (
	"fmt"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// Standard paths under which provable state is stored on a host chain. Every
// verified query names one of these paths; the same path is the proof key.

func ClientStatePath(clientID string) string {
	return fmt.Sprintf("clients/%s/clientState", clientID)
}

func ConsensusStatePath(clientID string, height Height) string {
	return fmt.Sprintf("clients/%s/consensusStates/%s", clientID, height)
}

func ConnectionPath(connectionID string) string {
	return fmt.Sprintf("connections/%s", connectionID)
}

func ChannelPath(portID, channelID string) string {
	return fmt.Sprintf("channelEnds/ports/%s/channels/%s", portID, channelID)
}

func PacketCommitmentPath(portID, channelID string, sequence uint64) string {
	return fmt.Sprintf("commitments/ports/%s/channels/%s/sequences/%d", portID, channelID, sequence)
}

func PacketAcknowledgementPath(portID, channelID string, sequence uint64) string {
	return fmt.Sprintf("acks/ports/%s/channels/%s/sequences/%d", portID, channelID, sequence)
}

func PacketReceiptPath(portID, channelID string, sequence uint64) string {
	return fmt.Sprintf("receipts/ports/%s/channels/%s/sequences/%d", portID, channelID, sequence)
}

func NextSequenceSendPath(portID, channelID string) string {
	return fmt.Sprintf("nextSequenceSend/ports/%s/channels/%s", portID, channelID)
}

func NextSequenceRecvPath(portID, channelID string) string {
	return fmt.Sprintf("nextSequenceRecv/ports/%s/channels/%s", portID, channelID)
}

func NextSequenceAckPath(portID, channelID string) string {
	return fmt.Sprintf("nextSequenceAck/ports/%s/channels/%s", portID, channelID)
}

// ChannelCapabilityPath defines the path under which the channel capability is
// claimed by the application module bound to the port.
func ChannelCapabilityPath(portID, channelID string) string {
	return fmt.Sprintf("capabilities/ports/%s/channels/%s", portID, channelID)
}

// PortPath defines the path under which a port is bound.
func PortPath(portID string) string {
	return fmt.Sprintf("ports/%s", portID)
}

const (
	defaultMinIDLength = 1
	defaultMaxIDLength = 64
	portMinIDLength    = 2
	portMaxIDLength    = 128

	// ChannelPrefix is the default channel identifier prefix.
	ChannelPrefix = "channel-"
)

func defaultIdentifierValidator(id string, min, max int) error {
	if strings.TrimSpace(id) == "" {
		return errorsmod.Wrap(ErrInvalidIdentifier, "identifier cannot be blank")
	}
	if len(id) < min || len(id) > max {
		return errorsmod.Wrapf(ErrInvalidIdentifier, "identifier %s has invalid length %d, must be between %d-%d characters", id, len(id), min, max)
	}
	if strings.Contains(id, "/") {
		return errorsmod.Wrapf(ErrInvalidIdentifier, "identifier %s cannot contain separator '/'", id)
	}
	for _, c := range id {
		if !isValidIDChar(c) {
			return errorsmod.Wrapf(ErrInvalidIdentifier, "identifier %s contains invalid character %c", id, c)
		}
	}
	return nil
}

func isValidIDChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '.', c == '_', c == '+', c == '-', c == '#', c == '[', c == ']', c == '<', c == '>':
		return true
	}
	return false
}

func ClientIdentifierValidator(id string) error {
	return defaultIdentifierValidator(id, defaultMinIDLength, defaultMaxIDLength)
}

func ConnectionIdentifierValidator(id string) error {
	return defaultIdentifierValidator(id, defaultMinIDLength, defaultMaxIDLength)
}

func ChannelIdentifierValidator(id string) error {
	return defaultIdentifierValidator(id, defaultMinIDLength, defaultMaxIDLength)
}

func PortIdentifierValidator(id string) error {
	return defaultIdentifierValidator(id, portMinIDLength, portMaxIDLength)
}

// IsValidChannelID checks if the channel identifier follows the canonical
// "channel-N" format. Denomination trace parsing relies on this to tell trace
// prefixes apart from base denominations containing slashes.
func IsValidChannelID(channelID string) bool {
	if !strings.HasPrefix(channelID, ChannelPrefix) {
		return false
	}
	_, err := strconv.ParseUint(strings.TrimPrefix(channelID, ChannelPrefix), 10, 64)
	return err == nil
}
