package core_test

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interchainlabs/relaycore/core"
)

func TestHeightCompare(t *testing.T) {
	assert.True(t, core.NewHeight(0, 5).LT(core.NewHeight(0, 6)))
	assert.True(t, core.NewHeight(0, 100).LT(core.NewHeight(1, 1)))
	assert.True(t, core.NewHeight(1, 1).GTE(core.NewHeight(0, 100)))
	assert.True(t, core.NewHeight(2, 7).EQ(core.NewHeight(2, 7)))
	assert.Equal(t, core.NewHeight(2, 8), core.NewHeight(2, 7).Increment())
	assert.Equal(t, "2-7", core.NewHeight(2, 7).String())
	assert.True(t, core.ZeroHeight.IsZero())
	assert.False(t, core.NewHeight(0, 1).IsZero())
}

func testPacket(seq uint64) core.Packet {
	return core.NewPacket(
		seq,
		"transfer", "channel-0",
		"transfer", "channel-1",
		[]byte("data"),
		core.NewHeight(0, 1000),
		0,
	)
}

func TestPacketValidateBasic(t *testing.T) {
	require.NoError(t, testPacket(1).ValidateBasic())

	p := testPacket(0)
	assert.Error(t, p.ValidateBasic())

	p = testPacket(1)
	p.SourcePort = ""
	assert.Error(t, p.ValidateBasic())

	p = testPacket(1)
	p.Data = nil
	assert.Error(t, p.ValidateBasic())

	p = testPacket(1)
	p.TimeoutHeight = core.ZeroHeight
	p.TimeoutTimestamp = 0
	assert.Error(t, p.ValidateBasic())

	// Timestamp-only timeouts are valid.
	p.TimeoutTimestamp = 12345
	assert.NoError(t, p.ValidateBasic())
}

func TestPacketTimedOut(t *testing.T) {
	p := testPacket(1)
	p.TimeoutHeight = core.NewHeight(0, 100)
	p.TimeoutTimestamp = 1_000_000

	assert.False(t, p.TimedOut(core.NewHeight(0, 99), 999_999))
	// The height timeout is inclusive: reaching it is already too late.
	assert.True(t, p.TimedOut(core.NewHeight(0, 100), 0))
	assert.True(t, p.TimedOut(core.NewHeight(0, 101), 0))
	assert.True(t, p.TimedOut(core.NewHeight(0, 1), 1_000_000))

	// Zero fields disable the respective check.
	p.TimeoutHeight = core.ZeroHeight
	assert.False(t, p.TimedOut(core.NewHeight(9, 999), 999_999))
	p.TimeoutTimestamp = 0
	assert.False(t, p.TimedOut(core.NewHeight(9, 999), ^uint64(0)))
}

func TestCommitPacket(t *testing.T) {
	p := testPacket(1)
	p.TimeoutTimestamp = 77
	commitment := core.CommitPacket(p)

	// Rebuild the commitment from its definition.
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, p.TimeoutTimestamp)
	heightBuf := make([]byte, 16)
	binary.BigEndian.PutUint64(heightBuf[:8], p.TimeoutHeight.RevisionNumber)
	binary.BigEndian.PutUint64(heightBuf[8:], p.TimeoutHeight.RevisionHeight)
	buf = append(buf, heightBuf...)
	dataHash := sha256.Sum256(p.Data)
	buf = append(buf, dataHash[:]...)
	want := sha256.Sum256(buf)

	assert.Equal(t, want[:], commitment)

	// Commitments are sensitive to every field they cover.
	p2 := p
	p2.Data = []byte("other")
	assert.NotEqual(t, commitment, core.CommitPacket(p2))
	p3 := p
	p3.TimeoutTimestamp = 78
	assert.NotEqual(t, commitment, core.CommitPacket(p3))
}

func TestCommitAcknowledgement(t *testing.T) {
	ack := []byte(`{"result":"AQ=="}`)
	want := sha256.Sum256(ack)
	assert.Equal(t, want[:], core.CommitAcknowledgement(ack))
}

func TestClientStateFreeze(t *testing.T) {
	cs := core.NewClientState("chain-1", core.Fraction{Numerator: 1, Denominator: 3}, 100, core.NewHeight(0, 10))
	require.NoError(t, cs.Validate())
	assert.False(t, cs.IsFrozen())

	require.NoError(t, cs.Freeze(core.NewHeight(0, 11)))
	assert.True(t, cs.IsFrozen())
	assert.Equal(t, core.NewHeight(0, 11), *cs.FrozenHeight)

	// The frozen height is set once and never moves.
	err := cs.Freeze(core.NewHeight(0, 99))
	require.Error(t, err)
	assert.Equal(t, core.NewHeight(0, 11), *cs.FrozenHeight)
}

func TestConnectionStateTransitions(t *testing.T) {
	assert.True(t, core.ConnectionUninitialized.CanTransitionTo(core.ConnectionInit))
	assert.True(t, core.ConnectionInit.CanTransitionTo(core.ConnectionTryOpen))
	assert.True(t, core.ConnectionTryOpen.CanTransitionTo(core.ConnectionOpen))
	assert.False(t, core.ConnectionOpen.CanTransitionTo(core.ConnectionInit))
	assert.False(t, core.ConnectionInit.CanTransitionTo(core.ConnectionInit))
}

func TestChannelStateTransitions(t *testing.T) {
	assert.True(t, core.ChannelUninitialized.CanTransitionTo(core.ChannelInit))
	assert.True(t, core.ChannelInit.CanTransitionTo(core.ChannelTryOpen))
	assert.True(t, core.ChannelTryOpen.CanTransitionTo(core.ChannelOpen))
	assert.True(t, core.ChannelOpen.CanTransitionTo(core.ChannelClosed))
	assert.False(t, core.ChannelClosed.CanTransitionTo(core.ChannelOpen))
	assert.False(t, core.ChannelUninitialized.CanTransitionTo(core.ChannelClosed))
}

func TestIdentifierValidators(t *testing.T) {
	assert.NoError(t, core.ChannelIdentifierValidator("channel-0"))
	assert.Error(t, core.ChannelIdentifierValidator(""))
	assert.Error(t, core.ChannelIdentifierValidator("bad/id"))
	assert.Error(t, core.PortIdentifierValidator("x"))
	assert.NoError(t, core.PortIdentifierValidator("transfer"))

	assert.True(t, core.IsValidChannelID("channel-0"))
	assert.True(t, core.IsValidChannelID("channel-42"))
	assert.False(t, core.IsValidChannelID("channel-"))
	assert.False(t, core.IsValidChannelID("channelx-1"))
	assert.False(t, core.IsValidChannelID("gamm"))
}
