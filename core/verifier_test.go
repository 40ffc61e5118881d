package core_test

import (
	"testing"

	ics23 "github.com/cosmos/ics23/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interchainlabs/relaycore/core"
)

func TestVerifyMembership(t *testing.T) {
	verifier := core.NewProofVerifier(ics23.TendermintSpec)
	path := core.PacketCommitmentPath("transfer", "channel-0", 1)
	value := []byte("value")
	rawProof, root := existenceProof([]byte(path), value)
	proof := &core.Proof{Data: rawProof, Height: core.NewHeight(0, 5)}

	require.NoError(t, verifier.VerifyMembership(root, proof, path, value))

	// Any mutation of root, value or path must be rejected.
	assert.Error(t, verifier.VerifyMembership([]byte("bogus root"), proof, path, value))
	assert.Error(t, verifier.VerifyMembership(root, proof, path, []byte("other value")))
	assert.Error(t, verifier.VerifyMembership(root, proof, path+"x", value))

	assert.Error(t, verifier.VerifyMembership(nil, proof, path, value))
	assert.Error(t, verifier.VerifyMembership(root, nil, path, value))
	assert.Error(t, verifier.VerifyMembership(root, proof, path, nil))
}

func TestVerifyNonMembership(t *testing.T) {
	verifier := core.NewProofVerifier(ics23.TendermintSpec)
	path := core.PacketReceiptPath("transfer", "channel-0", 9)
	rawProof, root := absenceProof([]byte(path))
	proof := &core.Proof{Data: rawProof, Height: core.NewHeight(0, 5)}

	require.NoError(t, verifier.VerifyNonMembership(root, proof, path))

	assert.Error(t, verifier.VerifyNonMembership([]byte("bogus root"), proof, path))
	assert.Error(t, verifier.VerifyNonMembership(root, nil, path))

	// An existence proof cannot prove absence.
	exProof, exRoot := existenceProof([]byte(path), []byte("value"))
	assert.Error(t, verifier.VerifyNonMembership(exRoot, &core.Proof{Data: exProof}, path))
}
