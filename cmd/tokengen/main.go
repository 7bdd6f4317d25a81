// Command tokengen mints a bearer token for a ledger identity using the
// server's JWT settings.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"hydrogen-credit-ledger/config"
	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to ./config.yaml and HCL_ env vars)")
	identity := flag.String("identity", "", "identity to issue the token for")
	expiry := flag.Duration("expiry", 0, "token lifetime (defaults to jwt.expiry)")
	flag.Parse()

	if *identity == "" {
		fmt.Fprintln(os.Stderr, "tokengen: -identity is required")
		flag.Usage()
		os.Exit(2)
	}
	id := domain.Identity(*identity)
	if !id.Valid() {
		fmt.Fprintf(os.Stderr, "tokengen: invalid identity %q\n", *identity)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "tokengen: jwt.secret is not set (HCL_JWT_SECRET)")
		os.Exit(1)
	}

	ttl := cfg.JWT.Expiry
	if *expiry > 0 {
		ttl = *expiry
	}

	token, expiresAt, err := service.NewJWTTokenService(cfg.JWT.Secret, ttl, cfg.JWT.Issuer).Generate(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", expiresAt.UTC().Format(time.RFC3339))
}
