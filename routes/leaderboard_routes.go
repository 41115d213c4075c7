package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/visit-point/api-go/controllers"
)

func SetupLeaderboardRoutes(protected *gin.RouterGroup, leaderboardController *controllers.LeaderboardController) {
	leaderboard := protected.Group("/leaderboard")
	{
		leaderboard.GET("", leaderboardController.GetLeaderboard)
		leaderboard.GET("/:userId", leaderboardController.GetUserRank)
	}
}
