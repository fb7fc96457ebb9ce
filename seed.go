package main

import (
	"context"
	"fmt"

	"taskboard/backend/internal/config"
	"taskboard/backend/internal/database"
	"taskboard/backend/internal/logger"
	"taskboard/backend/internal/models"
	"taskboard/backend/internal/repositories"
)

func newUserRepo(pool *database.DatabasePool, cfg *config.Config) *repositories.UserRepository {
	return repositories.NewUserRepository(pool.DB, cfg.Auth.BCryptCost)
}

// seedAdmin creates the configured administrator when no ADMIN exists yet.
func seedAdmin(ctx context.Context, users *repositories.UserRepository, seed config.SeedConfig) error {
	if !seed.Enabled() {
		return nil
	}

	admin := models.RoleAdmin
	count, err := users.CountUsers(ctx, &admin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	created, err := users.CreateUser(ctx, models.UserInput{
		Name:     seed.AdminName,
		Email:    seed.AdminEmail,
		Password: seed.AdminPassword,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	logger.Infof("seeded admin account %s (id %d)", created.Email, created.ID)
	return nil
}
