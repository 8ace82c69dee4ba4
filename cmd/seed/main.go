package main

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"rentora/internal/config"
	"rentora/internal/database"
	"rentora/internal/domain"
	"rentora/internal/pkg/logger"
	"rentora/internal/repository"
)

// Seeds a fresh database with demo users, listing types and listings.
func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("configuration error", "error", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}
	pg := database.IsPostgres(db)

	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("migration failed", "error", err)
	}
	if err := repository.EnsureConstraints(db, pg); err != nil {
		log.Fatal("constraint setup failed", "error", err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	listings := repository.NewListingRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("hash failed", "error", err)
	}

	owner := &domain.User{
		Email:        "owner@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleOwner,
		Name:         "Demo Owner",
	}
	guest := &domain.User{
		Email:        "guest@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleGuest,
		Name:         "Demo Guest",
	}
	for _, u := range []*domain.User{owner, guest} {
		if err := users.Create(ctx, u); err != nil {
			log.Fatal("user seed failed", "email", u.Email, "error", err)
		}
	}

	if err := db.Exec(
		"INSERT INTO listing_types (name) VALUES (?), (?), (?)",
		"Studio", "One-bedroom", "Two-bedroom",
	).Error; err != nil {
		log.Fatal("listing type seed failed", "error", err)
	}

	demo := []domain.Listing{
		{OwnerID: owner.ID, TypeID: 1, Address: "Abay avenue 15, Almaty", ShortAddress: "Abay 15", NightlyPrice: 2500, MaxGuests: 2, Description: "Cozy studio near the metro", RewardPercent: 10, IsActive: true},
		{OwnerID: owner.ID, TypeID: 2, Address: "Dostyk avenue 97, Almaty", ShortAddress: "Dostyk 97", NightlyPrice: 3500, MaxGuests: 4, Description: "One-bedroom with a mountain view", RewardPercent: 10, IsActive: true},
		{OwnerID: owner.ID, TypeID: 3, Address: "Kabanbay Batyr 53, Astana", ShortAddress: "Kabanbay 53", NightlyPrice: 6500, MaxGuests: 6, Description: "Spacious two-bedroom downtown", RewardPercent: 12, IsActive: true},
	}
	for i := range demo {
		if err := listings.Create(ctx, &demo[i]); err != nil {
			log.Fatal("listing seed failed", "error", err)
		}
		if err := listings.Publish(ctx, demo[i].ID); err != nil {
			log.Fatal("listing publish failed", "error", err)
		}
	}

	log.Info("seed complete", "users", 2, "listings", len(demo))
}
