// Command verify flips the verification flag of a registered account.
// Accounts cannot log in until an administrator runs this against them.
//
//	verify -email bob@example.com
package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"

	"asset-tracker/internal/config"
	"asset-tracker/internal/repository/sqlite"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	email := flag.String("email", "", "email of the account to verify")
	flag.Parse()

	if *email == "" {
		logger.Fatal("email is required")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := sqlite.NewUserRepository(db)
	if err := users.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}

	if err := users.MarkVerified(ctx, *email); err != nil {
		logger.Fatalf("verify %s: %v", *email, err)
	}

	logger.Infof("account %s verified", *email)
}
