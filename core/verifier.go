package core

import (
	errorsmod "cosmossdk.io/errors"
	ics23 "github.com/cosmos/ics23/go"
)

// Verifier checks commitment proofs against a trusted root. The engine calls
// it on every query result before handing the value to the caller.
type Verifier interface {
	// VerifyMembership checks that value exists under path in the tree
	// committed to by root.
	VerifyMembership(root []byte, proof *Proof, path string, value []byte) error

	// VerifyNonMembership checks that no value exists under path in the tree
	// committed to by root.
	VerifyNonMembership(root []byte, proof *Proof, path string) error
}

type proofVerifier struct {
	spec *ics23.ProofSpec
}

// NewProofVerifier returns a Verifier backed by ics23 with the given proof
// spec.
func NewProofVerifier(spec *ics23.ProofSpec) Verifier {
	return proofVerifier{spec: spec}
}

func (v proofVerifier) VerifyMembership(root []byte, proof *Proof, path string, value []byte) error {
	if proof == nil || proof.Data == nil {
		return errorsmod.Wrap(ErrInvalidProof, "empty proof")
	}
	if len(root) == 0 {
		return errorsmod.Wrap(ErrInvalidProof, "empty root")
	}
	if len(value) == 0 {
		return errorsmod.Wrap(ErrInvalidProof, "empty value")
	}
	if !ics23.VerifyMembership(v.spec, root, proof.Data, []byte(path), value) {
		return errorsmod.Wrapf(ErrInvalidProof, "membership verification failed for path %s", path)
	}
	return nil
}

func (v proofVerifier) VerifyNonMembership(root []byte, proof *Proof, path string) error {
	if proof == nil || proof.Data == nil {
		return errorsmod.Wrap(ErrInvalidProof, "empty proof")
	}
	if len(root) == 0 {
		return errorsmod.Wrap(ErrInvalidProof, "empty root")
	}
	if !ics23.VerifyNonMembership(v.spec, root, proof.Data, []byte(path)) {
		return errorsmod.Wrapf(ErrInvalidProof, "non-membership verification failed for path %s", path)
	}
	return nil
}
