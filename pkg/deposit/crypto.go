package deposit

import (
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm/v5/crypto/bls"
	"github.com/prysmaticlabs/prysm/v5/crypto/hash"
	blst "github.com/supranational/blst/bindings/go"

	"github.com/ethpandaops/deposit-verifier/pkg/ssz"
)

// blstDST is the ciphersuite of the proof-of-possession scheme used by the beacon chain.
var blstDST = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

// DefaultHash is SHA-256 as used by the beacon chain.
var DefaultHash ssz.HashFunc = hash.Hash

// Verifier checks a BLS signature over a message.
//
// A false result means the signature does not authenticate the message. An error means the
// inputs could not be interpreted as curve points at all.
type Verifier interface {
	Verify(pubkey, message, signature []byte) (bool, error)
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(pubkey, message, signature []byte) (bool, error)

// Verify calls f.
func (f VerifierFunc) Verify(pubkey, message, signature []byte) (bool, error) {
	return f(pubkey, message, signature)
}

// BLSVerifier verifies signatures with prysm's BLS implementation.
type BLSVerifier struct{}

// Verify implements Verifier.
func (BLSVerifier) Verify(pubkey, message, signature []byte) (bool, error) {
	pk, err := bls.PublicKeyFromBytes(pubkey)
	if err != nil {
		return false, errors.Wrap(err, "failed to decode public key")
	}

	sig, err := bls.SignatureFromBytes(signature)
	if err != nil {
		return false, errors.Wrap(err, "failed to decode signature")
	}

	return sig.Verify(pk, message), nil
}

// BlstVerifier verifies signatures with the blst bindings directly.
type BlstVerifier struct{}

// Verify implements Verifier.
func (BlstVerifier) Verify(pubkey, message, signature []byte) (bool, error) {
	pk := new(blst.P1Affine).Uncompress(pubkey)
	if pk == nil {
		return false, errors.New("failed to decode public key")
	}

	if !pk.KeyValidate() {
		return false, errors.New("public key is not a valid non-infinity point")
	}

	sig := new(blst.P2Affine).Uncompress(signature)
	if sig == nil {
		return false, errors.New("failed to decode signature")
	}

	return sig.Verify(true, pk, false, message, blstDST), nil
}
