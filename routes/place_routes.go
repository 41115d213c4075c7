package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/visit-point/api-go/controllers"
)

func SetupPlaceRoutes(protected *gin.RouterGroup, placeController *controllers.PlaceController, visitController *controllers.VisitController, reviewController *controllers.ReviewController) {
	places := protected.Group("/places")
	{
		places.POST("", placeController.CreatePlace)
		places.GET("/trending", placeController.GetTrendingPlaces)
		places.GET("/:placeId", placeController.GetPlaceDetails)

		places.POST("/:placeId/visits", visitController.CheckIn)
		places.DELETE("/:placeId/visits", visitController.RemoveVisit)

		places.GET("/:placeId/reviews", reviewController.GetPlaceReviews)
		places.PUT("/:placeId/reviews", reviewController.UpsertReview)
		places.DELETE("/:placeId/reviews", reviewController.DeleteReview)
	}
}
