package ownership

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "credshare/pkg/domain-errors"
)

func signChallenge(t *testing.T, message []byte) (common.Address, []byte) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sig, err := crypto.Sign(Digest(message), key)
	require.NoError(t, err)
	return crypto.PubkeyToAddress(key.PublicKey), sig
}

func TestVerifyMatchesSigner(t *testing.T) {
	message := []byte("FirstBank-Verify-20260831120000")
	signer, sig := signChallenge(t, message)

	ok, err := Verify(signer, message, sig)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyRejectsWrongClaimant(t *testing.T) {
	message := []byte("challenge")
	_, sig := signChallenge(t, message)

	other := common.HexToAddress("0x9999999999999999999999999999999999999999")
	ok, err := Verify(other, message, sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	signer, sig := signChallenge(t, []byte("original"))

	ok, err := Verify(signer, []byte("tampered"), sig)
	if err == nil {
		assert.False(t, ok)
	}
}

func TestVerifyWrongSignatureLength(t *testing.T) {
	signer := common.HexToAddress("0x1111111111111111111111111111111111111111")
	_, err := Verify(signer, []byte("msg"), make([]byte, 64))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidSignature))
}

func TestVerifyZeroClaimantNeverPasses(t *testing.T) {
	_, sig := signChallenge(t, []byte("msg"))
	ok, err := Verify(common.Address{}, []byte("msg"), sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyAcceptsLegacyVValues(t *testing.T) {
	message := []byte("legacy-v")
	signer, sig := signChallenge(t, message)
	sig[64] += 27 // wallet-style 27/28 encoding

	ok, err := Verify(signer, message, sig)
	require.NoError(t, err)
	assert.True(t, ok)
}
