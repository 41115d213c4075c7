package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/visit-point/api-go/config"
	"github.com/visit-point/api-go/routes"
	"github.com/visit-point/api-go/services"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	logger, err := config.NewLogger(config.LogLevel())
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	// Initialize database
	db := config.InitDB()

	// Core services
	points := services.NewPointsService(db, logger)
	hub := services.NewLiveHub(points, logger)
	visits := services.NewVisitService(db, hub, logger, config.GeofenceRadiusMeters())

	// Hourly points recompute, first run right away
	stopScheduler, err := services.StartRecomputeScheduler(points, logger)
	if err != nil {
		logger.Fatal("failed to start recompute scheduler", zap.Error(err))
	}
	defer stopScheduler()

	// Create a new Gin router
	r := gin.Default()

	// Initialize routes
	routes.SetupRoutes(r, db, hub, points, visits, logger)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("starting server", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
