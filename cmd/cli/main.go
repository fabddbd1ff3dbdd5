package main

import (
	"context"
	"os"
	"strings"

	"github.com/nimasrn/ledger-api/internal/auth"
	"github.com/nimasrn/ledger-api/internal/config"
	"github.com/nimasrn/ledger-api/internal/repository"
	"github.com/nimasrn/ledger-api/internal/services"
	"github.com/nimasrn/ledger-api/pkg/logger"
	"github.com/nimasrn/ledger-api/pkg/mailer"
	"github.com/nimasrn/ledger-api/pkg/pg"
)

// main.go --env=.env --dir=./migrations [--seed]
func main() {
	defer logger.Sync()

	err := config.Load(getEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()

	err = pg.Migrate(cfg.WritePostgres(), getMigrationPath())
	if err != nil {
		logger.Error("migration: error running migrations", "error", err)
		return
	}

	if hasFlag("--seed") {
		if err := seed(cfg); err != nil {
			logger.Error("seed: failed", "error", err)
		}
	}
}

// seed creates the first admin and the default notification templates. Both
// steps leave existing rows untouched.
func seed(cfg *config.Config) error {
	db, err := pg.CreateReadWrite(cfg.WritePostgres(), cfg.WritePostgres(), false)
	if err != nil {
		return err
	}
	defer db.Close()
	ctx := context.Background()

	authService := auth.NewService(repository.NewAdminRepository(db), auth.NewTokenIssuer(cfg.JWTSecret), mailer.LogMailer{}, auth.Options{})
	created, err := authService.EnsureAdmin(ctx, cfg.AdminSeedEmail, cfg.AdminSeedPassword)
	if err != nil {
		return err
	}
	logger.Info("seed: admin", "email", cfg.AdminSeedEmail, "created", created)

	seeded, err := services.NewTemplateService(repository.NewTemplateRepository(db)).EnsureDefaults(ctx)
	if err != nil {
		return err
	}
	logger.Info("seed: templates", "created", seeded)
	return nil
}

func hasFlag(name string) bool {
	for _, v := range os.Args[1:] {
		if v == name {
			return true
		}
	}
	return false
}

func getEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Stat(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	if _, err := os.Stat(".env"); err != nil {
		return ""
	}
	return ".env"
}

func getMigrationPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--dir=") {
			s := strings.Split(v, "=")
			if _, err := os.Stat(s[1]); err != nil {
				logger.Error("failed to open the migration dir, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return "./migrations"
}
