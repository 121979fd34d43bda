// Command mktoken mints a signed access token for local development and
// testing. Pass -gm to grant the privileged claim.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"relatree/infrastructure/config"
	"relatree/pkg/auth"
)

func main() {
	var (
		userID     = flag.String("user", "", "user ID to embed in the token (required)")
		name       = flag.String("name", "", "display name to embed in the token")
		privileged = flag.Bool("gm", false, "grant the privileged claim")
		expiry     = flag.Duration("expiry", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	if *userID == "" {
		flag.Usage()
		log.Fatal("-user is required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret = "relatree-development-key"
	}

	generator, err := auth.NewJWTGenerator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
	}, *expiry)
	if err != nil {
		log.Fatalf("Failed to create token generator: %v", err)
	}

	token, err := generator.GenerateToken(*userID, *name, *privileged)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Println(token)
}
