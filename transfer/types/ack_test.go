package types_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interchainlabs/relaycore/transfer/types"
)

func TestAcknowledgementSuccess(t *testing.T) {
	ack := types.NewResultAcknowledgement([]byte{0x01})
	require.NoError(t, ack.ValidateBasic())
	assert.True(t, ack.Success())
	assert.True(t, ack.IsCanonicalSuccess())

	// Non-canonical result bytes still count as success.
	custom := types.NewResultAcknowledgement([]byte("ok"))
	assert.True(t, custom.Success())
	assert.False(t, custom.IsCanonicalSuccess())
}

func TestErrorAcknowledgementIsDeterministic(t *testing.T) {
	a := types.NewErrorAcknowledgement(errors.New("out of gas: limit 100"))
	b := types.NewErrorAcknowledgement(errors.New("out of gas: limit 200"))

	require.NoError(t, a.ValidateBasic())
	assert.False(t, a.Success())

	// Unregistered errors collapse to the same sentinel text so every node
	// commits identical acknowledgement bytes.
	assert.Equal(t, a.GetBytes(), b.GetBytes())
	assert.NotContains(t, a.Error, "out of gas")
}

func TestAcknowledgementValidateBasic(t *testing.T) {
	assert.Error(t, types.Acknowledgement{}.ValidateBasic())
	assert.Error(t, types.Acknowledgement{Result: []byte{0x01}, Error: "boom"}.ValidateBasic())
	assert.NoError(t, types.Acknowledgement{Error: "boom"}.ValidateBasic())
}

func TestUnmarshalAcknowledgement(t *testing.T) {
	ack := types.NewResultAcknowledgement([]byte{0x01})
	decoded, err := types.UnmarshalAcknowledgement(ack.GetBytes())
	require.NoError(t, err)
	assert.Equal(t, ack, decoded)

	_, err = types.UnmarshalAcknowledgement([]byte(`{}`))
	assert.Error(t, err)
	_, err = types.UnmarshalAcknowledgement([]byte(`not json`))
	assert.Error(t, err)
}
