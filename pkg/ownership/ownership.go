// Package ownership implements the stateless address-ownership check: given a
// message and a recoverable secp256k1 signature, recover the signer and compare
// it to the claimed owner. The digest is domain-separated with the signed
// message prefix so a signature produced for this check cannot be replayed in
// any other signing context.
//
// This is a side primitive for external callers (a requester confirming an
// owner controls the address they claim). The access gateway never consults it.
package ownership

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	dErrors "credshare/pkg/domain-errors"
)

// SignatureLength is the expected [R ‖ S ‖ V] recoverable signature size.
const SignatureLength = 65

const signedMessagePrefix = "\x19Ethereum Signed Message:\n32"

// Digest returns the domain-separated hash that must be signed:
// keccak256(prefix ‖ keccak256(message)).
func Digest(message []byte) []byte {
	inner := crypto.Keccak256(message)
	return crypto.Keccak256([]byte(signedMessagePrefix), inner)
}

// Verify recovers the signer of signature over message and reports whether it
// equals claimed. A zero claimed address never verifies.
func Verify(claimed common.Address, message, signature []byte) (bool, error) {
	if len(signature) != SignatureLength {
		return false, dErrors.New(dErrors.CodeInvalidSignature, "signature must be 65 bytes")
	}
	if claimed == (common.Address{}) {
		return false, nil
	}

	sig := make([]byte, SignatureLength)
	copy(sig, signature)
	// Wallets emit V as 27/28; recovery wants 0/1.
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	if sig[64] > 1 {
		return false, dErrors.New(dErrors.CodeInvalidSignature, "invalid recovery id")
	}

	pub, err := crypto.SigToPub(Digest(message), sig)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInvalidSignature, "signature recovery failed")
	}
	return crypto.PubkeyToAddress(*pub) == claimed, nil
}
