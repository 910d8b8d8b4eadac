// Package seed creates the bootstrap admin account
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/config"
	"github.com/ncastell/classtrack/internal/pkg/auth"
)

// AdminStore is the slice of the user repository the seeder needs.
type AdminStore interface {
	Create(ctx context.Context, user *models.User) error
	ExistsSuperuser(ctx context.Context) (bool, error)
}

// EnsureAdmin creates the configured superuser account when none exists.
// Without a configured password no account is created, which leaves a
// fresh install without any way to log in.
func EnsureAdmin(ctx context.Context, users AdminStore, cfg config.SeedConfig) error {
	exists, err := users.ExistsSuperuser(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if cfg.AdminPassword == "" {
		log.Warn().Msg("No superuser exists and no seed password is configured")
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	admin := &models.User{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		FirstName:    "System",
		LastName:     "Administrator",
		IsSuperuser:  true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	log.Info().Str("username", admin.Username).Msg("Bootstrap admin created")
	return nil
}
