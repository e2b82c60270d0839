package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB connects to the Postgres (Supabase) database using credentials from
// the environment. DATABASE_URL wins when set; otherwise the DSN is built
// from the individual DB_* variables.
func InitDB() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			os.Getenv("DB_HOST"),
			envOr("DB_PORT", "5432"),
			os.Getenv("DB_USERNAME"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_DATABASE"),
			envOr("DB_SSLMODE", "require"),
		)
	}

	environment := strings.ToLower(os.Getenv("ENVIRONMENT"))
	debugSQL := strings.ToLower(os.Getenv("DEBUG_SQL"))

	// In production, suppress SQL logs unless explicitly re-enabled via
	// DEBUG_SQL=true.
	logLevel := logger.Info
	if environment == "production" && debugSQL != "true" {
		logLevel = logger.Warn
	}

	cfg := &gorm.Config{
		Logger: logger.New(
			log.New(Logger().Writer(), "\r\n", log.LstdFlags),
			logger.Config{LogLevel: logLevel},
		),
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	Logger().Info("database connected")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
