// Command createsuperuser provisions a staff account with full privileges.
package main

import (
	"context"
	"flag"
	"strings"

	"go.uber.org/zap"

	"github.com/example/salon/internal/config"
	"github.com/example/salon/internal/database"
	"github.com/example/salon/internal/logger"
	"github.com/example/salon/internal/repositories"
	"github.com/example/salon/internal/services"
	"github.com/example/salon/internal/utils"
)

func main() {
	email := flag.String("email", "", "superuser email")
	phone := flag.String("phone", "", "superuser phone number (10 digits)")
	password := flag.String("password", "", "superuser password")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	defer log.Sync() //nolint:errcheck

	if strings.TrimSpace(*email) == "" && strings.TrimSpace(*phone) == "" {
		log.Fatal("either -email or -phone is required")
	}
	if problems := services.ValidatePassword(*password); len(problems) > 0 {
		log.Fatal("password rejected", zap.Strings("problems", problems))
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	hash, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatal("hash password", zap.Error(err))
	}

	user := newSuperuser(*email, *phone, hash)
	if err := repositories.NewUserRepository(db).Create(context.Background(), user); err != nil {
		log.Fatal("create superuser", zap.Error(err))
	}
	log.Info("superuser created", zap.String("id", user.ID.String()), zap.String("account", user.String()))
}
