// Package main provides a CLI tool for generating caller tokens for the
// credshare API. Tokens signed with the dev key will NOT work against a
// production deployment.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/crypto"

	"credshare/internal/platform/middleware"
	id "credshare/pkg/domain"
)

const (
	// Matches config.go when JWT_SIGNING_KEY is not set.
	devSigningKey = "dev-secret-key-change-in-production"

	defaultTokenTTL = time.Hour
)

type tokenOutput struct {
	Address   string `json:"address"`
	Token     string `json:"token"`
	ExpiresIn string `json:"expires_in"`
	Usage     string `json:"usage"`
	// PrivateKey is only present for freshly generated throwaway keys.
	PrivateKey string `json:"private_key,omitempty"`
}

func main() {
	address := flag.String("address", "", "Caller address. A throwaway keypair is generated if empty.")
	signingKey := flag.String("signing-key", devSigningKey, "HS256 signing key (must match the server's JWT_SIGNING_KEY)")
	ttl := flag.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	asJSON := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	out := tokenOutput{ExpiresIn: ttl.String()}

	if *address == "" {
		key, err := crypto.GenerateKey()
		if err != nil {
			fatal("generate key: %v", err)
		}
		out.Address = crypto.PubkeyToAddress(key.PublicKey).Hex()
		out.PrivateKey = fmt.Sprintf("%x", crypto.FromECDSA(key))
	} else {
		addr, err := id.ParseAddress(*address)
		if err != nil {
			fatal("invalid address: %v", err)
		}
		out.Address = addr.Hex()
	}

	signer := middleware.NewTokenSigner(*signingKey)
	addr, err := id.ParseAddress(out.Address)
	if err != nil {
		fatal("invalid address: %v", err)
	}
	token, err := signer.Issue(addr, *ttl)
	if err != nil {
		fatal("issue token: %v", err)
	}
	out.Token = token
	out.Usage = fmt.Sprintf(`curl -H "Authorization: Bearer %s" http://localhost:8080/identity/register -X POST`, token)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return
	}

	fmt.Printf("address:    %s\n", out.Address)
	if out.PrivateKey != "" {
		fmt.Printf("privkey:    %s\n", out.PrivateKey)
	}
	fmt.Printf("expires_in: %s\n", out.ExpiresIn)
	fmt.Printf("token:      %s\n", out.Token)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
