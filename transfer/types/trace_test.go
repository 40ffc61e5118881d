package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interchainlabs/relaycore/transfer/types"
)

func TestParseDenomTrace(t *testing.T) {
	cases := []struct {
		name  string
		denom string
		want  types.DenomTrace
	}{
		{
			"native denom",
			"uatom",
			types.DenomTrace{BaseDenom: "uatom"},
		},
		{
			"single hop",
			"transfer/channel-0/uatom",
			types.DenomTrace{Path: "transfer/channel-0", BaseDenom: "uatom"},
		},
		{
			"two hops",
			"transfer/channel-3/transfer/channel-0/uatom",
			types.DenomTrace{Path: "transfer/channel-3/transfer/channel-0", BaseDenom: "uatom"},
		},
		{
			"slashed base denom",
			"transfer/channel-0/gamm/pool/1",
			types.DenomTrace{Path: "transfer/channel-0", BaseDenom: "gamm/pool/1"},
		},
		{
			"slashed base denom without trace",
			"gamm/pool/1",
			types.DenomTrace{BaseDenom: "gamm/pool/1"},
		},
		{
			"non-canonical channel id stays in base denom",
			"transfer/channelToA/uatom",
			types.DenomTrace{BaseDenom: "transfer/channelToA/uatom"},
		},
		{
			"single hop missing base denom",
			"transfer/channel-0",
			types.DenomTrace{BaseDenom: "transfer/channel-0"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, types.ParseDenomTrace(tc.denom))
		})
	}
}

func TestDenomTraceValidate(t *testing.T) {
	require.NoError(t, types.DenomTrace{BaseDenom: "uatom"}.Validate())
	require.NoError(t, types.DenomTrace{Path: "transfer/channel-1", BaseDenom: "uatom"}.Validate())

	assert.Error(t, types.DenomTrace{BaseDenom: "  "}.Validate())
	assert.Error(t, types.DenomTrace{Path: "transfer", BaseDenom: "uatom"}.Validate())
	assert.Error(t, types.DenomTrace{Path: "transfer/notachannel", BaseDenom: "uatom"}.Validate())
	assert.Error(t, types.DenomTrace{Path: "(bad)/channel-0", BaseDenom: "uatom"}.Validate())
}

func TestFullDenomPathRoundTrip(t *testing.T) {
	for _, denom := range []string{
		"uatom",
		"gamm/pool/1",
		"transfer/channel-0/uatom",
		"transfer/channel-3/transfer/channel-0/gamm/pool/1",
	} {
		assert.Equal(t, denom, types.ParseDenomTrace(denom).GetFullDenomPath(), denom)
	}
}

func TestIBCDenom(t *testing.T) {
	native := types.DenomTrace{BaseDenom: "uatom"}
	assert.Equal(t, "uatom", native.IBCDenom())

	trace := types.ParseDenomTrace("transfer/channel-0/uatom")
	voucher := trace.IBCDenom()
	assert.Regexp(t, `^ibc/[0-9A-F]{64}$`, voucher)

	// Deterministic, and distinct traces hash to distinct vouchers.
	assert.Equal(t, voucher, types.ParseDenomTrace("transfer/channel-0/uatom").IBCDenom())
	assert.NotEqual(t, voucher, types.ParseDenomTrace("transfer/channel-1/uatom").IBCDenom())
}

func TestSourceChainPredicates(t *testing.T) {
	// Tokens native to the sender travel forward.
	assert.True(t, types.SenderChainIsSource("transfer", "channel-0", "uatom"))
	assert.False(t, types.ReceiverChainIsSource("transfer", "channel-0", "uatom"))

	// Tokens whose outermost hop names the outgoing channel are returning.
	assert.False(t, types.SenderChainIsSource("transfer", "channel-0", "transfer/channel-0/uatom"))
	assert.True(t, types.ReceiverChainIsSource("transfer", "channel-0", "transfer/channel-0/uatom"))

	// A deeper matching hop does not make the receiver the source.
	assert.True(t, types.SenderChainIsSource("transfer", "channel-0", "transfer/channel-9/transfer/channel-0/uatom"))
}

func TestGetPrefixedDenom(t *testing.T) {
	assert.Equal(t, "transfer/channel-7/uatom", types.GetPrefixedDenom("transfer", "channel-7", "uatom"))
	assert.Equal(t, "transfer/channel-7/", types.GetDenomPrefix("transfer", "channel-7"))
}
