package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/visit-point/api-go/services"
	"github.com/visit-point/api-go/utils"
)

type VisitController struct {
	Visits *services.VisitService
}

func NewVisitController(visits *services.VisitService) *VisitController {
	return &VisitController{Visits: visits}
}

type CheckInRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	QRData    string   `json:"qr_data" binding:"required"`
}

// CheckIn handles POST /places/:placeId/visits.
func (vc *VisitController) CheckIn(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	placeID, err := strconv.ParseUint(c.Param("placeId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place id"})
		return
	}

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visit, err := vc.Visits.CheckIn(c.Request.Context(), user.UserID, uint(placeID),
		*req.Latitude, *req.Longitude, req.QRData)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"visit": visit})
}

// RemoveVisit handles DELETE /places/:placeId/visits.
func (vc *VisitController) RemoveVisit(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	placeID, err := strconv.ParseUint(c.Param("placeId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place id"})
		return
	}

	visit, err := vc.Visits.RemoveVisit(c.Request.Context(), user.UserID, uint(placeID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": visit})
}

// GetUserVisits handles GET /users/:userId/visits.
func (vc *VisitController) GetUserVisits(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	visits, err := vc.Visits.ListUserVisits(c.Request.Context(), user.UserID, uint(userID), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, visits)
}
