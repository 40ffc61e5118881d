package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"

	"github.com/interchainlabs/relaycore/core"
)

// DenomTrace is the ordered channel-hop history prefixed to a base
// denomination. The outermost (port, channel) prefix is the most recent hop;
// a trace whose outermost prefix names the channel a packet is traveling back
// across is "returning" and must be unwound rather than extended.
type DenomTrace struct {
	// Path is the chain of (port, channel) identifiers, e.g.
	// "transfer/channel-3/transfer/channel-0".
	Path string `json:"path"`
	// BaseDenom is the denomination on the chain of origin.
	BaseDenom string `json:"base_denom"`
}

// ParseDenomTrace splits a full denomination path into its trace and base
// denomination.
//
// Examples:
//
//   - "transfer/channel-0/uatom" => DenomTrace{"transfer/channel-0", "uatom"}
//   - "transfer/channel-0/gamm/pool/1" => DenomTrace{"transfer/channel-0", "gamm/pool/1"}
//   - "uatom" => DenomTrace{"", "uatom"}
func ParseDenomTrace(rawDenom string) DenomTrace {
	denomSplit := strings.Split(rawDenom, "/")
	if denomSplit[0] == rawDenom {
		return DenomTrace{BaseDenom: rawDenom}
	}

	var (
		pathSlice      []string
		baseDenomSlice []string
	)
	length := len(denomSplit)
	for i := 0; i < length; i += 2 {
		// The counterparty's port identifier format is not guaranteed; the
		// canonical channel identifier format is what tells a trace hop apart
		// from a base denomination containing slashes.
		if i < length-1 && length > 2 && core.IsValidChannelID(denomSplit[i+1]) {
			pathSlice = append(pathSlice, denomSplit[i], denomSplit[i+1])
		} else {
			baseDenomSlice = denomSplit[i:]
			break
		}
	}

	return DenomTrace{
		Path:      strings.Join(pathSlice, "/"),
		BaseDenom: strings.Join(baseDenomSlice, "/"),
	}
}

// Validate performs a basic validation of the trace fields. An empty path is
// valid: it denotes a native denomination.
func (dt DenomTrace) Validate() error {
	if strings.TrimSpace(dt.BaseDenom) == "" {
		return errorsmod.Wrap(ErrInvalidDenomTrace, "base denomination cannot be blank")
	}
	if dt.Path == "" {
		return nil
	}
	identifiers := strings.Split(dt.Path, "/")
	if len(identifiers)%2 != 0 {
		return errorsmod.Wrapf(ErrInvalidDenomTrace, "unbalanced trace path %q", dt.Path)
	}
	for i := 0; i < len(identifiers); i += 2 {
		if err := core.PortIdentifierValidator(identifiers[i]); err != nil {
			return errorsmod.Wrapf(ErrInvalidDenomTrace, "invalid port in trace path: %v", err)
		}
		if !core.IsValidChannelID(identifiers[i+1]) {
			return errorsmod.Wrapf(ErrInvalidDenomTrace, "invalid channel %q in trace path", identifiers[i+1])
		}
	}
	return nil
}

// IsNativeDenom reports whether the trace has no hops.
func (dt DenomTrace) IsNativeDenom() bool {
	return dt.Path == ""
}

// GetPrefix returns the receiving denomination prefix composed of the trace
// path and a separator.
func (dt DenomTrace) GetPrefix() string {
	return dt.Path + "/"
}

// GetFullDenomPath returns the full denomination: tracePath + "/" + baseDenom,
// or just the base denomination for a native trace.
func (dt DenomTrace) GetFullDenomPath() string {
	if dt.IsNativeDenom() {
		return dt.BaseDenom
	}
	return dt.GetPrefix() + dt.BaseDenom
}

// Hash returns the sha256 hash of the full denomination path.
func (dt DenomTrace) Hash() []byte {
	hash := sha256.Sum256([]byte(dt.GetFullDenomPath()))
	return hash[:]
}

// IBCDenom returns the voucher denomination in the format 'ibc/{hash}', or
// the base denomination for a native trace.
func (dt DenomTrace) IBCDenom() string {
	if dt.IsNativeDenom() {
		return dt.BaseDenom
	}
	return fmt.Sprintf("%s/%s", DenomPrefix, strings.ToUpper(hex.EncodeToString(dt.Hash())))
}

// GetDenomPrefix returns the prefix a receiving chain adds for the given
// destination port and channel.
func GetDenomPrefix(portID, channelID string) string {
	return fmt.Sprintf("%s/%s/", portID, channelID)
}

// GetPrefixedDenom returns the denomination with the (port, channel) prefix
// added.
func GetPrefixedDenom(portID, channelID, baseDenom string) string {
	return GetDenomPrefix(portID, channelID) + baseDenom
}

// SenderChainIsSource reports whether the tokens are moving forward in their
// timeline when sent over (sourcePort, sourceChannel): true unless the
// denomination's outermost prefix names that channel, i.e. the tokens are
// returning along the channel they arrived on.
func SenderChainIsSource(sourcePort, sourceChannel, denom string) bool {
	return !ReceiverChainIsSource(sourcePort, sourceChannel, denom)
}

// ReceiverChainIsSource reports whether the receiving chain originated the
// tokens: the denomination starts with the (sourcePort, sourceChannel) prefix
// the counterparty added when it first received them.
func ReceiverChainIsSource(sourcePort, sourceChannel, denom string) bool {
	return strings.HasPrefix(denom, GetDenomPrefix(sourcePort, sourceChannel))
}
