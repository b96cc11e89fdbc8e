package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	err := New(CodeNotRegistered, "identity does not exist")
	assert.Equal(t, "identity does not exist", err.Error())

	bare := New(CodeNotMinter, "")
	assert.Equal(t, "not_minter", bare.Error())
}

func TestHasCode(t *testing.T) {
	err := New(CodeMissingConsent, "no valid consent")
	assert.True(t, HasCode(err, CodeMissingConsent))
	assert.False(t, HasCode(err, CodeInvalidConsent))
	assert.False(t, HasCode(errors.New("plain"), CodeMissingConsent))
	assert.False(t, HasCode(nil, CodeMissingConsent))
}

func TestWrapPreservesOriginalCode(t *testing.T) {
	inner := New(CodeInsufficientBalance, "sender has 0")
	wrapped := Wrap(inner, CodeInternal, "transfer failed")

	// The original domain code survives wrapping.
	assert.True(t, HasCode(wrapped, CodeInsufficientBalance))
	assert.False(t, HasCode(wrapped, CodeInternal))
	assert.Equal(t, "transfer failed", wrapped.Error())
}

func TestWrapInfrastructureError(t *testing.T) {
	inner := fmt.Errorf("dial tcp: connection refused")
	wrapped := Wrap(inner, CodeInternal, "failed to read consent")

	require.True(t, HasCode(wrapped, CodeInternal))
	assert.ErrorIs(t, wrapped, inner)
}

func TestIsMatchesByCode(t *testing.T) {
	a := New(CodeNotOwner, "caller is not the record owner")
	b := New(CodeNotOwner, "different message")
	assert.ErrorIs(t, a, b)
}
