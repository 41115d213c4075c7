package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/visit-point/api-go/services"
)

type LeaderboardController struct {
	Leaderboard *services.LeaderboardService
}

func NewLeaderboardController(leaderboard *services.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{Leaderboard: leaderboard}
}

// GetLeaderboard handles GET /leaderboard?windowDays=30&limit=10&page=1.
func (lc *LeaderboardController) GetLeaderboard(c *gin.Context) {
	windowDays, err := strconv.Atoi(c.DefaultQuery("windowDays", strconv.Itoa(services.DefaultLeaderboardWindowDays)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid windowDays"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
		return
	}

	result, err := lc.Leaderboard.TopByPoints(c.Request.Context(), windowDays, limit, (page-1)*limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": result.Entries,
		"pagination": gin.H{
			"current_page": page,
			"page_size":    limit,
			"total_items":  result.TotalUsers,
			"total_pages":  result.TotalPages,
		},
	})
}

// GetUserRank handles GET /leaderboard/:userId?windowDays=30.
func (lc *LeaderboardController) GetUserRank(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	windowDays, err := strconv.Atoi(c.DefaultQuery("windowDays", strconv.Itoa(services.DefaultLeaderboardWindowDays)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid windowDays"})
		return
	}

	entry, err := lc.Leaderboard.RankOf(c.Request.Context(), uint(userID), windowDays)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}
