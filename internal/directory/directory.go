// Package directory maps human-readable usernames to owner addresses so
// gateway reads can name an owner without knowing their address.
package directory

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"credshare/internal/sentinel"
	dErrors "credshare/pkg/domain-errors"
)

var usernameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]{2,31}$`)

// Store is the persistence contract for username bindings.
type Store interface {
	Bind(ctx context.Context, username string, addr common.Address) error
	Resolve(ctx context.Context, username string) (common.Address, error)
	NameOf(ctx context.Context, addr common.Address) (string, error)
}

// Service registers and resolves username bindings. A username binds to one
// address and an address holds at most one username; rebinding either side
// is a conflict.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Register binds the caller's address to a username. Usernames are
// lowercased before storage so lookups are case-insensitive.
func (s *Service) Register(ctx context.Context, caller common.Address, username string) error {
	if caller == (common.Address{}) {
		return dErrors.New(dErrors.CodeInvalidAddress, "caller address required")
	}
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernameRe.MatchString(username) {
		return dErrors.New(dErrors.CodeInvalidInput, "username must be 3-32 chars: a-z, 0-9, '_', '.', '-'")
	}

	if err := s.store.Bind(ctx, username, caller); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "username or address already bound")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to bind username")
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "username registered", "username", username, "address", caller.Hex())
	}
	return nil
}

// Resolve returns the address bound to a username.
func (s *Service) Resolve(ctx context.Context, username string) (common.Address, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	addr, err := s.store.Resolve(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return common.Address{}, dErrors.New(dErrors.CodeUserNotRegistered, "unknown username")
		}
		return common.Address{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve username")
	}
	return addr, nil
}

// NameOf returns the username bound to an address, if any.
func (s *Service) NameOf(ctx context.Context, addr common.Address) (string, error) {
	name, err := s.store.NameOf(ctx, addr)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeUserNotRegistered, "address has no username")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up username")
	}
	return name, nil
}
