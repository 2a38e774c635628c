package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"library/cmd"
	"library/internal/container"
	"library/internal/database"
	"library/internal/logger"
	"library/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, falling back to system environment variables")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd.Execute(ctx)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatal("Failed to connect to the database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Connected to the database successfully")

	app := container.NewAppContainer(db, log)

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.TimeoutMiddleware(30 * time.Second))

	api := router.Group("/api")
	app.CatalogHandler.RegisterRoutes(api)
	app.CirculationHandler.RegisterRoutes(api)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		log.Fatal("Server stopped", zap.Error(err))
	}
}
