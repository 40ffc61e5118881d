package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/interchainlabs/relaycore/transfer/types"
)

func TestGetEscrowAddress(t *testing.T) {
	addr := types.GetEscrowAddress("transfer", "channel-0")
	assert.Len(t, addr, 40)
	assert.Equal(t, addr, types.GetEscrowAddress("transfer", "channel-0"))

	// Distinct channels and ports never share an escrow account.
	assert.NotEqual(t, addr, types.GetEscrowAddress("transfer", "channel-1"))
	assert.NotEqual(t, addr, types.GetEscrowAddress("custom", "channel-0"))
}

func TestStoreKeys(t *testing.T) {
	assert.NotEqual(t,
		types.DenomTraceKey([]byte{0x01}),
		types.DenomTraceKey([]byte{0x02}),
	)
	assert.NotEqual(t,
		types.PacketSettlementKey("transfer", "channel-0", 1),
		types.PacketSettlementKey("transfer", "channel-0", 2),
	)
	assert.NotEqual(t,
		types.TotalEscrowForDenomKey("uatom"),
		types.TotalEscrowForDenomKey("uosmo"),
	)
}
