package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const (
	// ModuleName defines the token transfer module name.
	ModuleName = "transfer"

	// PortID is the default port the transfer module binds to.
	PortID = "transfer"

	// StoreKey is the store key string for the transfer module.
	StoreKey = ModuleName

	// Version defines the current version the transfer module supports.
	Version = "ics20-1"

	// DenomPrefix is the prefix used for voucher denominations.
	DenomPrefix = "ibc"
)

var (
	// ParamsKey is the store key holding the module parameters.
	ParamsKey = []byte("params")

	// PortKey is the store key holding the bound port.
	PortKey = []byte{0x01}

	denomTraceKeyPrefix  = "denomTraces"
	settlementKeyPrefix  = "settlements"
	totalEscrowKeyPrefix = "totalEscrowForDenom"
)

// DenomTraceKey returns the store key for the trace with the given hash.
func DenomTraceKey(traceHash []byte) []byte {
	return []byte(fmt.Sprintf("%s/%s", denomTraceKeyPrefix, hex.EncodeToString(traceHash)))
}

// PacketSettlementKey returns the store key recording that a packet's
// lifecycle has completed on the sending side. Its existence makes refunds
// idempotent.
func PacketSettlementKey(portID, channelID string, sequence uint64) []byte {
	return []byte(fmt.Sprintf("%s/%s/%s/%d", settlementKeyPrefix, portID, channelID, sequence))
}

// TotalEscrowForDenomKey returns the store key under which the total amount
// of a denomination held in escrow is stored.
func TotalEscrowForDenomKey(denom string) []byte {
	return []byte(fmt.Sprintf("%s/%s", totalEscrowKeyPrefix, denom))
}

// GetEscrowAddress returns the escrow account for the (port, channel) pair.
// The slash separates the identifiers so that distinct channels can never
// collide on the same address.
func GetEscrowAddress(portID, channelID string) string {
	contents := fmt.Sprintf("%s/%s", portID, channelID)

	preImage := []byte(Version)
	preImage = append(preImage, 0)
	preImage = append(preImage, contents...)
	hash := sha256.Sum256(preImage)
	return hex.EncodeToString(hash[:20])
}
