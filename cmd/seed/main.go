// Command seed migrates the schema and loads the starter dataset into an
// empty database, then assigns every user an initial login password.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"jobsite-api/config"
	"jobsite-api/controllers"
	"jobsite-api/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := config.Logger()
	config.InitDB()

	store := services.NewGormStore(config.DB)
	if err := store.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("schema migration failed")
	}

	data := services.NewDataContext(store, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := data.Load(ctx); err != nil {
		logger.WithError(err).Fatal("failed to load data context")
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "changeme123"
	}
	hash, err := controllers.HashPassword(password)
	if err != nil {
		logger.WithError(err).Fatal("failed to hash seed password")
	}

	for _, u := range data.Users() {
		if u.Password != "" {
			continue
		}
		if err := data.SetUserPassword(ctx, u.UserID, hash); err != nil {
			logger.WithError(err).WithField("user_id", u.UserID).Fatal("failed to set password")
		}
		logger.WithField("email", u.Email).Info("password initialized")
	}

	logger.WithField("users", len(data.Users())).Info("seed complete")
}
