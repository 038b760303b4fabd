package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/galeria-app/users-api/config"
	"github.com/galeria-app/users-api/internal/domain/entity"
	"github.com/galeria-app/users-api/internal/infrastructure/mongodb"
	"github.com/galeria-app/users-api/pkg/helpers"
)

// Seeds a demo account for local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	repo := mongodb.NewUserRepository(client.Database(cfg.MongoDB))
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	username := "demoUser"
	email := "demo@example.com"
	password := "password123"

	if existing, err := repo.FindByUsernameOrEmail(ctx, username, email); err == nil {
		fmt.Printf("seed user already present: id=%s username=%s\n", existing.ID.Hex(), existing.Username)
		return
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	u := &entity.User{
		Username: username,
		Email:    email,
		Password: hash,
		FullName: "Demo User",
		Bio:      "Seeded local account",
		Status:   entity.StatusActive,
	}
	if err := repo.Create(ctx, u); err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s username=%s email=%s password=%s\n", u.ID.Hex(), username, email, password)
}
