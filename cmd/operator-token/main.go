// Command operator-token mints a bearer token for the operator-only routes
// using the JWT secret from the service configuration. With -hash it instead
// prints the bcrypt hash to put in jwt.operator_password_hash.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/TheNopenator/EcoVision/internal/config"
	"github.com/TheNopenator/EcoVision/pkg/bcrypt"
	jwtPkg "github.com/TheNopenator/EcoVision/pkg/jwt"
	"github.com/joho/godotenv"
)

func main() {
	subject := flag.String("subject", "operator", "name recorded in the token subject")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to jwt.ttl from the config)")
	hashPassword := flag.String("hash", "", "print the bcrypt hash of this password and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := bcrypt.New().HashPassword(*hashPassword)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	lifetime := cfg.JWT.TTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, expiresAt, err := jwtPkg.Sign(cfg.JWT.Secret, *subject, jwtPkg.RoleOperator, lifetime)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
}
