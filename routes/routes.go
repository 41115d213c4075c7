package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/visit-point/api-go/controllers"
	"github.com/visit-point/api-go/middleware"
	"github.com/visit-point/api-go/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, hub *services.LiveHub, points *services.PointsService, visits *services.VisitService, logger *zap.Logger) {
	// Initialize controllers
	authController := controllers.NewAuthController(db)
	visitController := controllers.NewVisitController(visits)
	reviewController := controllers.NewReviewController(services.NewReviewService(db, hub, logger))
	placeController := controllers.NewPlaceController(db, services.NewTrendingService(db, logger))
	leaderboardController := controllers.NewLeaderboardController(services.NewLeaderboardService(db, logger))
	liveController := controllers.NewLiveController(db, hub, points, logger)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		// Token is verified in the handler itself, before any upgrade.
		public.GET("/places/:placeId/live", liveController.Subscribe)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		SetupPlaceRoutes(protected, placeController, visitController, reviewController)
		SetupLeaderboardRoutes(protected, leaderboardController)

		protected.GET("/users/:userId/visits", visitController.GetUserVisits)
	}
}
