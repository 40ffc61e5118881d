package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

// Acknowledgement is the recv-side result written for a transfer packet.
// Exactly one of Result and Error is set.
type Acknowledgement struct {
	Result []byte `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// successResult is the canonical payload of a successful acknowledgement.
var successResult = []byte{0x01}

// NewResultAcknowledgement returns a successful acknowledgement carrying the
// given result bytes.
func NewResultAcknowledgement(result []byte) Acknowledgement {
	return Acknowledgement{Result: result}
}

// NewErrorAcknowledgement returns a failed acknowledgement. Only the sentinel
// error text is committed, never the full error chain: acknowledgement bytes
// are consensus-visible and must be identical across nodes.
func NewErrorAcknowledgement(err error) Acknowledgement {
	_, code, _ := errorsmod.ABCIInfo(err, false)
	return Acknowledgement{Error: fmt.Sprintf("ABCI code: %d: error handling packet", code)}
}

// Success reports whether the acknowledgement carries a result. An
// acknowledgement whose Result bytes differ from the canonical success
// payload still counts as success; it simply carries extra application data.
func (ack Acknowledgement) Success() bool {
	return ack.Error == ""
}

// IsCanonicalSuccess reports whether the result bytes equal the canonical
// single-byte success payload.
func (ack Acknowledgement) IsCanonicalSuccess() bool {
	return bytes.Equal(ack.Result, successResult)
}

// ValidateBasic checks that exactly one of Result and Error is populated.
func (ack Acknowledgement) ValidateBasic() error {
	if len(ack.Result) > 0 && ack.Error != "" {
		return errorsmod.Wrap(ErrInvalidPacketData, "acknowledgement cannot carry both result and error")
	}
	if len(ack.Result) == 0 && ack.Error == "" {
		return errorsmod.Wrap(ErrInvalidPacketData, "acknowledgement must carry a result or an error")
	}
	return nil
}

// Acknowledgement bytes as committed on chain.
func (ack Acknowledgement) GetBytes() []byte {
	bz, err := json.Marshal(ack)
	if err != nil {
		panic(err)
	}
	return bz
}

// UnmarshalAcknowledgement decodes acknowledgement bytes and validates them.
func UnmarshalAcknowledgement(bz []byte) (Acknowledgement, error) {
	var ack Acknowledgement
	if err := json.Unmarshal(bz, &ack); err != nil {
		return Acknowledgement{}, errorsmod.Wrapf(ErrInvalidPacketData, "cannot unmarshal acknowledgement: %v", err)
	}
	if err := ack.ValidateBasic(); err != nil {
		return Acknowledgement{}, err
	}
	return ack, nil
}
