package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"jobsite-api/config"
	"jobsite-api/controllers"
	"jobsite-api/routes"
	"jobsite-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile := config.InitLogging()
	defer logFile.Close()
	logger := config.Logger()

	// Initialize database and Redis
	config.InitDB()
	config.InitRedis()

	store := services.NewGormStore(config.DB)
	if err := store.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("schema migration failed")
	}

	data := services.NewDataContext(store, logger)

	// Blob storage for project photos
	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	quota := int64(0)
	if raw := os.Getenv("BLOB_QUOTA_BYTES"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			logger.WithField("value", raw).Warn("invalid BLOB_QUOTA_BYTES, quota disabled")
		} else {
			quota = parsed
		}
	}
	blobs, err := services.NewDiskBlobStore(uploadPath, quota)
	if err != nil {
		logger.WithError(err).Fatal("failed to open blob store")
	}
	data.SetBlobStore(blobs)

	// Optional geolocation and static map providers
	if geoURL := os.Getenv("GEO_PROVIDER_URL"); geoURL != "" {
		data.SetGeolocation(
			services.NewHTTPGeolocationProvider(geoURL),
			services.NewHTTPMapSnapshotter(os.Getenv("STATIC_MAP_URL")),
		)
	}

	// Optional Redis snapshot cache
	if rdb := config.GetRedisDB(); rdb != nil {
		data.SetSnapshotCache(services.NewSnapshotCache(rdb, 24*time.Hour))
	}

	data.SetMailer(config.SendMail)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := data.Load(ctx); err != nil {
		cancel()
		logger.WithError(err).Fatal("failed to load data context")
	}
	cancel()

	controllers.Init(data)

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Security headers
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	routes.SetupRoutes(router, data)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	logger.WithField("port", port).Info("server starting")
	if err := router.Run(":" + port); err != nil {
		logger.WithError(err).Fatal("failed to start server")
	}
}
