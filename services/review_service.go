package services

import (
	"context"
	"errors"
	"math"

	"github.com/visit-point/api-go/apperr"
	"github.com/visit-point/api-go/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewService struct {
	DB     *gorm.DB
	Hub    *LiveHub
	Logger *zap.Logger
}

func NewReviewService(db *gorm.DB, hub *LiveHub, logger *zap.Logger) *ReviewService {
	return &ReviewService{DB: db, Hub: hub, Logger: logger}
}

// UpsertReview writes the user's review of a place. Reviewing requires a
// recorded visit; a second review for the same place overwrites the first.
func (s *ReviewService) UpsertReview(ctx context.Context, userID, placeID uint, rating int, comment, imageURL string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.ErrBadRequest.WithMessage("Rating must be between 1 and 5")
	}
	if comment == "" {
		return nil, apperr.ErrBadRequest.WithMessage("Comment is required")
	}

	var visitCount int64
	err := s.DB.WithContext(ctx).
		Model(&models.Visit{}).
		Where("user_id = ? AND place_id = ?", userID, placeID).
		Count(&visitCount).Error
	if err != nil {
		return nil, apperr.ErrInternal.WithMessage("Failed to look up visit")
	}
	if visitCount == 0 {
		return nil, apperr.ErrBadRequest.WithMessage("You have to visit the place first")
	}

	review := models.Review{
		UserID:   userID,
		PlaceID:  placeID,
		Rating:   rating,
		Comment:  comment,
		ImageURL: imageURL,
	}
	err = s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "place_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
		}).
		Create(&review).Error
	if err != nil {
		s.Logger.Error("review upsert failed",
			zap.Uint("user_id", userID), zap.Uint("place_id", placeID), zap.Error(err))
		return nil, apperr.ErrInternal.WithMessage("Failed to save review")
	}

	s.Hub.Notify(ctx, placeID)

	return &review, nil
}

// DeleteReview removes the user's review of the place.
func (s *ReviewService) DeleteReview(ctx context.Context, userID, placeID uint) (*models.Review, error) {
	var review models.Review
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND place_id = ?", userID, placeID).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound.WithMessage("Review not found")
	}
	if err != nil {
		return nil, apperr.ErrInternal.WithMessage("Failed to look up review")
	}

	if err := s.DB.WithContext(ctx).Delete(&review).Error; err != nil {
		return nil, apperr.ErrInternal.WithMessage("Failed to delete review")
	}

	s.Hub.Notify(ctx, placeID)

	return &review, nil
}

// ReviewPage is one page of a place's reviews plus rating aggregates.
type ReviewPage struct {
	Reviews       []models.Review `json:"reviews"`
	TotalPages    int             `json:"total_pages"`
	ReviewCount   int64           `json:"review_count"`
	AverageRating float64         `json:"average_rating"`
}

// ListPlaceReviews pages through a place's reviews, newest first.
func (s *ReviewService) ListPlaceReviews(ctx context.Context, placeID uint, page, limit int) (*ReviewPage, error) {
	if page < 1 || limit < 1 {
		return nil, apperr.ErrBadRequest.WithMessage("Invalid page or limit")
	}

	var place models.Place
	err := s.DB.WithContext(ctx).First(&place, placeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound.WithMessage("Place not found")
	}
	if err != nil {
		return nil, apperr.ErrInternal.WithMessage("Failed to look up place")
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Review{}).Where("place_id = ?", placeID).Count(&count).Error; err != nil {
		return nil, apperr.ErrInternal.WithMessage("Failed to count reviews")
	}

	var avg *float64
	err = s.DB.WithContext(ctx).
		Model(&models.Review{}).
		Select("AVG(rating)").
		Where("place_id = ?", placeID).
		Scan(&avg).Error
	if err != nil {
		return nil, apperr.ErrInternal.WithMessage("Failed to average ratings")
	}

	var reviews []models.Review
	err = s.DB.WithContext(ctx).
		Where("place_id = ?", placeID).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&reviews).Error
	if err != nil {
		return nil, apperr.ErrInternal.WithMessage("Failed to list reviews")
	}

	pageResult := &ReviewPage{
		Reviews:     reviews,
		TotalPages:  int(math.Ceil(float64(count) / float64(limit))),
		ReviewCount: count,
	}
	if avg != nil {
		pageResult.AverageRating = *avg
	}
	return pageResult, nil
}
