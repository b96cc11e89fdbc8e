package directory

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "credshare/pkg/domain-errors"
)

func TestRegisterAndResolve(t *testing.T) {
	svc := NewService(NewInMemoryStore(), nil)
	ctx := context.Background()
	alice := common.HexToAddress("0x1111111111111111111111111111111111111111")

	require.NoError(t, svc.Register(ctx, alice, "Alice.Smith"))

	// Lookups are case-insensitive.
	addr, err := svc.Resolve(ctx, "ALICE.SMITH")
	require.NoError(t, err)
	assert.Equal(t, alice, addr)

	name, err := svc.NameOf(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice.smith", name)
}

func TestRegisterConflicts(t *testing.T) {
	svc := NewService(NewInMemoryStore(), nil)
	ctx := context.Background()
	alice := common.HexToAddress("0x1111111111111111111111111111111111111111")
	bob := common.HexToAddress("0x2222222222222222222222222222222222222222")

	require.NoError(t, svc.Register(ctx, alice, "alice"))

	err := svc.Register(ctx, bob, "alice")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	err = svc.Register(ctx, alice, "alice2")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestRegisterValidatesUsername(t *testing.T) {
	svc := NewService(NewInMemoryStore(), nil)
	ctx := context.Background()
	alice := common.HexToAddress("0x1111111111111111111111111111111111111111")

	for _, bad := range []string{"", "ab", "has space", "-leadingdash", "wäy-too-exotic"} {
		err := svc.Register(ctx, alice, bad)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), "username %q", bad)
	}
}

func TestResolveUnknownUsername(t *testing.T) {
	svc := NewService(NewInMemoryStore(), nil)
	_, err := svc.Resolve(context.Background(), "nobody")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUserNotRegistered))
}
