package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interchainlabs/relaycore/transfer/types"
)

func TestPacketDataValidateBasic(t *testing.T) {
	valid := types.NewFungibleTokenPacketData("uatom", "100", "sender", "receiver", "")
	require.NoError(t, valid.ValidateBasic())

	withTrace := types.NewFungibleTokenPacketData("transfer/channel-0/uatom", "1", "sender", "receiver", "note")
	require.NoError(t, withTrace.ValidateBasic())

	cases := []struct {
		name string
		data types.FungibleTokenPacketData
	}{
		{"empty amount", types.NewFungibleTokenPacketData("uatom", "", "sender", "receiver", "")},
		{"non-numeric amount", types.NewFungibleTokenPacketData("uatom", "ten", "sender", "receiver", "")},
		{"zero amount", types.NewFungibleTokenPacketData("uatom", "0", "sender", "receiver", "")},
		{"negative amount", types.NewFungibleTokenPacketData("uatom", "-5", "sender", "receiver", "")},
		{"blank sender", types.NewFungibleTokenPacketData("uatom", "100", "  ", "receiver", "")},
		{"blank receiver", types.NewFungibleTokenPacketData("uatom", "100", "sender", "", "")},
		{"blank denom", types.NewFungibleTokenPacketData("", "100", "sender", "receiver", "")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.data.ValidateBasic())
		})
	}
}

func TestPacketDataBytesStable(t *testing.T) {
	data := types.NewFungibleTokenPacketData("uatom", "100", "sender", "receiver", "")
	bz := data.GetBytes()

	// The memo is omitted when empty so commitments do not depend on it.
	assert.JSONEq(t, `{"denom":"uatom","amount":"100","sender":"sender","receiver":"receiver"}`, string(bz))
	assert.NotContains(t, string(bz), "memo")

	decoded, err := types.UnmarshalPacketData(bz)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestUnmarshalPacketDataRejectsInvalid(t *testing.T) {
	_, err := types.UnmarshalPacketData([]byte("not json"))
	assert.Error(t, err)

	_, err = types.UnmarshalPacketData([]byte(`{"denom":"uatom","amount":"0","sender":"a","receiver":"b"}`))
	assert.Error(t, err)
}
