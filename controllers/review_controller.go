package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/visit-point/api-go/services"
	"github.com/visit-point/api-go/utils"
)

type ReviewController struct {
	Reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{Reviews: reviews}
}

type UpsertReviewRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comment  string `json:"comment" binding:"required"`
	ImageURL string `json:"image_url"`
}

// UpsertReview handles PUT /places/:placeId/reviews.
func (rc *ReviewController) UpsertReview(c *gin.Context) {
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

	var req UpsertReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := rc.Reviews.UpsertReview(c.Request.Context(), user.UserID, uint(placeID),
		req.Rating, req.Comment, req.ImageURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": review})
}

// DeleteReview handles DELETE /places/:placeId/reviews.
func (rc *ReviewController) DeleteReview(c *gin.Context) {
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

	review, err := rc.Reviews.DeleteReview(c.Request.Context(), user.UserID, uint(placeID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": review})
}

// GetPlaceReviews handles GET /places/:placeId/reviews.
func (rc *ReviewController) GetPlaceReviews(c *gin.Context) {
	placeID, err := strconv.ParseUint(c.Param("placeId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place id"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	reviews, err := rc.Reviews.ListPlaceReviews(c.Request.Context(), uint(placeID), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}
