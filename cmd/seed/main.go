package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/resolvedesk/backend/internal/auth"
	"github.com/resolvedesk/backend/internal/config"
	"github.com/resolvedesk/backend/internal/db"
	"github.com/resolvedesk/backend/internal/models"
)

// Seeds a demo directory: one admin, two customers, three engineers across
// the tiers, and a sample complaint waiting for assignment.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := log.With().Str("service", "resolvedesk-seed").Logger()

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure schema")
	}

	now := time.Now().UTC()
	junior := models.LevelJunior
	senior := models.LevelSenior
	executive := models.LevelExecutive

	users := []models.User{
		{ID: "u_admin_charlie", Name: "Charlie", Email: "charlie@resolvedesk.dev", Role: models.RoleAdmin},
		{ID: "u_cust_alice", Name: "Alice", Email: "alice@resolvedesk.dev", Role: models.RoleCustomer},
		{ID: "u_cust_bob", Name: "Bob", Email: "bob@resolvedesk.dev", Role: models.RoleCustomer},
		{ID: "u_eng_diana", Name: "Diana", Email: "diana@resolvedesk.dev", Role: models.RoleEngineer, EngineerLevel: &junior},
		{ID: "u_eng_edward", Name: "Edward", Email: "edward@resolvedesk.dev", Role: models.RoleEngineer, EngineerLevel: &senior},
		{ID: "u_eng_fiona", Name: "Fiona", Email: "fiona@resolvedesk.dev", Role: models.RoleEngineer, EngineerLevel: &executive},
	}

	hash, err := auth.HashPassword("password123")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to hash seed password")
	}

	created := 0
	for _, u := range users {
		if _, err := store.GetUserByEmail(ctx, u.Email); err == nil {
			continue
		}
		u.PasswordHash = hash
		u.CreatedAt = now
		u.UpdatedAt = now
		if err := store.CreateUser(ctx, u); err != nil {
			logger.Fatal().Err(err).Str("email", u.Email).Msg("failed to create user")
		}
		created++
	}

	complaint := models.Complaint{
		ID:           "c_" + uuid.NewString(),
		CustomerID:   "u_cust_alice",
		CustomerName: "Alice",
		Category:     models.CategoryProduct,
		Description:  "The smart thermostat I bought keeps rebooting every few hours.",
		SubmittedAt:  now,
		UpdatedAt:    now,
		Status:       models.StatusSubmitted,
	}
	if created > 0 {
		if err := store.CreateComplaint(ctx, complaint); err != nil {
			logger.Fatal().Err(err).Msg("failed to create sample complaint")
		}
	}

	logger.Info().Int("users_created", created).Msg("seed complete")
}
