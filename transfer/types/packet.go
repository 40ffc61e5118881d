package types

import (
	"encoding/json"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

// FungibleTokenPacketData is the payload of a fungible token transfer packet.
// Amount is carried as a decimal string so counterparties with different
// integer widths interpret it identically.
type FungibleTokenPacketData struct {
	// Denom is the full denomination path of the tokens, including any trace.
	Denom string `json:"denom"`
	// Amount is the transfer amount as a base-10 string.
	Amount string `json:"amount"`
	// Sender is the sending address on the source chain.
	Sender string `json:"sender"`
	// Receiver is the receiving address on the destination chain.
	Receiver string `json:"receiver"`
	// Memo is an optional application note carried with the transfer.
	Memo string `json:"memo,omitempty"`
}

func NewFungibleTokenPacketData(denom, amount, sender, receiver, memo string) FungibleTokenPacketData {
	return FungibleTokenPacketData{
		Denom:    denom,
		Amount:   amount,
		Sender:   sender,
		Receiver: receiver,
		Memo:     memo,
	}
}

// ValidateBasic performs stateless validation of the packet data.
func (ftpd FungibleTokenPacketData) ValidateBasic() error {
	amount, ok := sdkmath.NewIntFromString(ftpd.Amount)
	if !ok {
		return errorsmod.Wrapf(ErrInvalidAmount, "unable to parse transfer amount %q", ftpd.Amount)
	}
	if !amount.IsPositive() {
		return errorsmod.Wrapf(ErrInvalidAmount, "amount must be strictly positive: %s", amount)
	}
	if strings.TrimSpace(ftpd.Sender) == "" {
		return errorsmod.Wrap(ErrInvalidPacketData, "sender address cannot be blank")
	}
	if strings.TrimSpace(ftpd.Receiver) == "" {
		return errorsmod.Wrap(ErrInvalidPacketData, "receiver address cannot be blank")
	}
	return ParseDenomTrace(ftpd.Denom).Validate()
}

// GetBytes returns the JSON encoding of the packet data. This is the exact
// byte string committed to by the packet commitment, so it must be stable.
func (ftpd FungibleTokenPacketData) GetBytes() []byte {
	bz, err := json.Marshal(ftpd)
	if err != nil {
		panic(err)
	}
	return bz
}

// UnmarshalPacketData decodes packet data bytes and validates them.
func UnmarshalPacketData(bz []byte) (FungibleTokenPacketData, error) {
	var data FungibleTokenPacketData
	if err := json.Unmarshal(bz, &data); err != nil {
		return FungibleTokenPacketData{}, errorsmod.Wrapf(ErrInvalidPacketData, "cannot unmarshal packet data: %v", err)
	}
	if err := data.ValidateBasic(); err != nil {
		return FungibleTokenPacketData{}, err
	}
	return data, nil
}
