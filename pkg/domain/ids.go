// Package domain provides the identifier types shared by every component:
// principal addresses, data pointers, and derived consent IDs. Parse functions
// belong at trust boundaries (handlers, API inputs); services work with the
// typed values only.
package domain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	dErrors "credshare/pkg/domain-errors"
)

// ConsentID is the deterministic identifier of a consent record. It is a
// one-way hash of (requester, owner), so any party can recompute it without
// an index lookup, and a pair can never hold more than one live record.
type ConsentID common.Hash

// DataPointer is an opaque integrity hash referencing an off-chain artifact.
// It is never resolved by this service.
type DataPointer common.Hash

// ParseAddress parses a hex principal address. The zero address is rejected:
// it doubles as the "no principal" sentinel throughout the data model.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, dErrors.New(dErrors.CodeInvalidAddress, "malformed address")
	}
	addr := common.HexToAddress(s)
	if addr == (common.Address{}) {
		return common.Address{}, dErrors.New(dErrors.CodeInvalidAddress, "zero address not allowed")
	}
	return addr, nil
}

// ParseConsentID parses a 32-byte hex consent ID.
func ParseConsentID(s string) (ConsentID, error) {
	b, err := hexHash(s, "consent ID")
	return ConsentID(b), err
}

// ParseDataPointer parses a 32-byte hex data pointer.
func ParseDataPointer(s string) (DataPointer, error) {
	b, err := hexHash(s, "data pointer")
	return DataPointer(b), err
}

func hexHash(s, what string) (common.Hash, error) {
	if has0xPrefix(s) {
		s = s[2:]
	}
	if len(s) != 2*common.HashLength {
		return common.Hash{}, dErrors.New(dErrors.CodeInvalidInput, what+" must be 32 bytes of hex")
	}
	b := common.FromHex(s)
	if len(b) != common.HashLength {
		return common.Hash{}, dErrors.New(dErrors.CodeInvalidInput, what+" must be 32 bytes of hex")
	}
	return common.BytesToHash(b), nil
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// DeriveConsentID computes keccak256(requester ‖ owner), requester first.
func DeriveConsentID(requester, owner common.Address) ConsentID {
	return ConsentID(crypto.Keccak256Hash(requester.Bytes(), owner.Bytes()))
}

func (id ConsentID) String() string  { return common.Hash(id).Hex() }
func (id ConsentID) IsZero() bool    { return id == ConsentID{} }
func (p DataPointer) String() string { return common.Hash(p).Hex() }
func (p DataPointer) IsZero() bool   { return p == DataPointer{} }
