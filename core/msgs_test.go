package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interchainlabs/relaycore/core"
)

func dummyDatagrams(n int) []core.Datagram {
	msgs := make([]core.Datagram, 0, n)
	for i := 0; i < n; i++ {
		msgs = append(msgs, &core.MsgRecvPacket{Packet: testPacket(uint64(i + 1))})
	}
	return msgs
}

func TestRelayMsgsReady(t *testing.T) {
	var nilMsgs *core.RelayMsgs
	assert.False(t, nilMsgs.Ready())
	assert.False(t, core.NewRelayMsgs().Ready())

	msgs := core.NewRelayMsgs()
	msgs.Src = dummyDatagrams(1)
	assert.True(t, msgs.Ready())
}

func TestRelayMsgsMerge(t *testing.T) {
	a := core.NewRelayMsgs()
	a.Src = dummyDatagrams(2)
	b := core.NewRelayMsgs()
	b.Src = dummyDatagrams(1)
	b.Dst = dummyDatagrams(3)

	a.Merge(b)
	assert.Len(t, a.Src, 3)
	assert.Len(t, a.Dst, 3)
}

func TestRelayMsgsSendBatched(t *testing.T) {
	msgs := core.NewRelayMsgs()
	msgs.Dst = dummyDatagrams(7)
	msgs.MaxMsgLength = 3

	srcSub := &recordingSubmitter{}
	dstSub := &recordingSubmitter{}
	msgs.Send(context.Background(), srcSub, dstSub)

	require.True(t, msgs.Succeeded)
	assert.Empty(t, srcSub.batches)
	// 7 datagrams at batch size 3: 3 + 3 + 1.
	require.Len(t, dstSub.batches, 3)
	assert.Len(t, dstSub.batches[0], 3)
	assert.Len(t, dstSub.batches[1], 3)
	assert.Len(t, dstSub.batches[2], 1)
	assert.Len(t, dstSub.all(), 7)
}

func TestRelayMsgsSendUnbatched(t *testing.T) {
	msgs := core.NewRelayMsgs()
	msgs.Src = dummyDatagrams(5)

	srcSub := &recordingSubmitter{}
	msgs.Send(context.Background(), srcSub, &recordingSubmitter{})

	require.True(t, msgs.Succeeded)
	require.Len(t, srcSub.batches, 1)
	assert.Len(t, srcSub.batches[0], 5)
}

func TestRelayMsgsSendFailure(t *testing.T) {
	msgs := core.NewRelayMsgs()
	msgs.Src = dummyDatagrams(1)
	msgs.Dst = dummyDatagrams(1)

	srcSub := &recordingSubmitter{err: errors.New("broadcast failed")}
	dstSub := &recordingSubmitter{}
	msgs.Send(context.Background(), srcSub, dstSub)

	// A failed side marks the round failed but does not block the other side.
	assert.False(t, msgs.Succeeded)
	assert.Len(t, dstSub.all(), 1)
}
