package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"jobtrack.com/jobtrack/config"
	"jobtrack.com/jobtrack/logging"
	"jobtrack.com/jobtrack/security"
)

func main() {
	userID := flag.String("user", "dev", "user id (sub claim)")
	name := flag.String("name", "Developer", "display name, shown as Submitted By")
	email := flag.String("email", "", "email claim")
	role := flag.String("role", security.RoleAdmin, "admin, manager or foreman")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("load config", "error", err)
	}
	secret, err := security.DecodeSecret(cfg.SigningSecret)
	if err != nil {
		logging.Fatal("signing secret", "error", err)
	}

	token, err := security.CreateIdentityToken(security.Identity{
		UserID:     *userID,
		UniqueName: *name,
		Email:      *email,
		Role:       *role,
	}, secret, *ttl)
	if err != nil {
		logging.Fatal("sign token", "error", err)
	}
	fmt.Fprintln(os.Stdout, token)
}
