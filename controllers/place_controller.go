package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/visit-point/api-go/models"
	"github.com/visit-point/api-go/services"
	"github.com/visit-point/api-go/utils"
	"gorm.io/gorm"
)

type PlaceController struct {
	DB       *gorm.DB
	Trending *services.TrendingService
}

func NewPlaceController(db *gorm.DB, trending *services.TrendingService) *PlaceController {
	return &PlaceController{DB: db, Trending: trending}
}

// GetPlaceDetails handles GET /places/:placeId. The QR identifier never
// appears in the response.
func (pc *PlaceController) GetPlaceDetails(c *gin.Context) {
	placeID, err := strconv.ParseUint(c.Param("placeId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place id"})
		return
	}

	var place models.Place
	err = pc.DB.WithContext(c.Request.Context()).First(&place, uint(placeID)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Place not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch place"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"place": place})
}

// GetTrendingPlaces handles GET /places/trending?windowDays=14&limit=10.
func (pc *PlaceController) GetTrendingPlaces(c *gin.Context) {
	windowDays, _ := strconv.Atoi(c.DefaultQuery("windowDays", strconv.Itoa(services.DefaultTrendingWindowDays)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultTrendingLimit)))

	places, err := pc.Trending.TopPlaces(c.Request.Context(), windowDays, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"places": places})
}

type CreatePlaceRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Latitude    *float64 `json:"latitude" binding:"required"`
	Longitude   *float64 `json:"longitude" binding:"required"`
	PointValue  int      `json:"point_value" binding:"required,min=1"`
	Categories  []string `json:"categories"`
	Region      string   `json:"region"`
}

// CreatePlace handles POST /places. A fresh QR identifier is generated
// server-side; it is returned once here so the admin can print the code.
func (pc *PlaceController) CreatePlace(c *gin.Context) {
	var req CreatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.ValidateCoordinates(*req.Latitude, *req.Longitude); err != nil {
		respondError(c, err)
		return
	}

	place := models.Place{
		Name:         req.Name,
		Description:  req.Description,
		Latitude:     *req.Latitude,
		Longitude:    *req.Longitude,
		PointValue:   req.PointValue,
		Categories:   pq.StringArray(req.Categories),
		Region:       req.Region,
		QRIdentifier: uuid.NewString(),
	}
	if err := pc.DB.WithContext(c.Request.Context()).Create(&place).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create place"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"place": place, "qr_identifier": place.QRIdentifier})
}
