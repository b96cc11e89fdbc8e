package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang-jwt/jwt/v5"
)

// Every mutating operation is authorized against the caller's principal
// address, the service equivalent of a transaction sender. The address
// travels as the subject of an HS256 bearer token; handlers read it from the
// request context and pass it to services explicitly.

type callerKey struct{}

// Caller retrieves the authenticated principal address from the context.
// Returns the zero address when the request was not authenticated.
func Caller(ctx context.Context) common.Address {
	if addr, ok := ctx.Value(callerKey{}).(common.Address); ok {
		return addr
	}
	return common.Address{}
}

// WithCaller returns a context carrying the given principal address.
// Exposed for tests and internal dispatch.
func WithCaller(ctx context.Context, addr common.Address) context.Context {
	return context.WithValue(ctx, callerKey{}, addr)
}

// TokenSigner issues and validates caller tokens.
type TokenSigner struct {
	key []byte
}

func NewTokenSigner(signingKey string) *TokenSigner {
	return &TokenSigner{key: []byte(signingKey)}
}

// Issue signs a token whose subject is the caller's address.
func (s *TokenSigner) Issue(caller common.Address, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   caller.Hex(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Validate parses a token and returns the caller address from its subject.
func (s *TokenSigner) Validate(tokenString string) (common.Address, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		return common.Address{}, err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return common.Address{}, fmt.Errorf("invalid token claims")
	}
	if !common.IsHexAddress(claims.Subject) {
		return common.Address{}, fmt.Errorf("token subject is not an address")
	}
	addr := common.HexToAddress(claims.Subject)
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("token subject is the zero address")
	}
	return addr, nil
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller address in the request context.
func RequireAuth(signer *TokenSigner, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok {
				unauthorized(w, "Missing bearer token")
				return
			}

			caller, err := signer.Validate(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				unauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

func unauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
