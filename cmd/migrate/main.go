package main

import (
	"context"
	"log"

	"github.com/dimasprs/obrolan/internal/config"
	"github.com/dimasprs/obrolan/internal/db"
	"github.com/dimasprs/obrolan/internal/feedback"
	"github.com/dimasprs/obrolan/internal/store"
	"github.com/dimasprs/obrolan/internal/user"
)

func main() {
	cfg := config.Load()

	dbClient := db.NewBunPostgresClient(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	defer dbClient.Close()

	ctx := context.Background()

	// Users first: conversations reference them with a cascade delete.
	if err := user.NewUserRepository(dbClient).InitializeDatabase(ctx); err != nil {
		log.Fatalf("Failed to create users schema: %v", err)
	}
	if err := store.NewPostgresStore(dbClient).InitializeDatabase(ctx); err != nil {
		log.Fatalf("Failed to create conversations schema: %v", err)
	}
	if err := feedback.NewFeedbackRepository(dbClient).InitializeDatabase(ctx); err != nil {
		log.Fatalf("Failed to create feedback schema: %v", err)
	}

	log.Println("Schema is up to date")
}
