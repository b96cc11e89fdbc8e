package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestDevLedgerOwnerIsUsable(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	addr, err := devLedgerOwner(log)
	require.NoError(t, err)
	require.NotEqual(t, common.Address{}, addr)

	// Each run gets its own throwaway owner.
	other, err := devLedgerOwner(log)
	require.NoError(t, err)
	require.NotEqual(t, addr, other)
}
