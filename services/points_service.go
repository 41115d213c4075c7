package services

import (
	"context"
	"time"

	"github.com/visit-point/api-go/apperr"
	"github.com/visit-point/api-go/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const recomputeTimeout = 30 * time.Second

// PointsService keeps users.total_points consistent with the visits table
// and serves the live per-place stats pushed to subscribers.
type PointsService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewPointsService(db *gorm.DB, logger *zap.Logger) *PointsService {
	return &PointsService{DB: db, Logger: logger}
}

// PlaceSummary is the payload fanned out to live subscribers of a place.
type PlaceSummary struct {
	PlaceID       uint    `json:"id"`
	Visits        int64   `json:"visits"`
	AverageRating float64 `json:"average_rating"`
}

// RecomputeAll rewrites every user's denormalized total in two set-based
// statements. Check-ins committing while this runs are simply picked up by
// the next cycle; nothing here takes row locks on visits.
func (s *PointsService) RecomputeAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, recomputeTimeout)
	defer cancel()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`
			WITH sums AS (
				SELECT v.user_id, SUM(p.point_value) AS total
				FROM visits v
				JOIN places p ON p.id = v.place_id
				GROUP BY v.user_id
			)
			UPDATE users SET total_points = sums.total
			FROM sums WHERE users.id = sums.user_id`).Error
		if err != nil {
			return err
		}

		// Users whose last visit was removed drop back to zero.
		return tx.Exec(`
			UPDATE users SET total_points = 0
			WHERE total_points <> 0
			  AND NOT EXISTS (SELECT 1 FROM visits v WHERE v.user_id = users.id)`).Error
	})
}

// PlaceVisitCount counts all visits ever recorded for the place.
func (s *PointsService) PlaceVisitCount(ctx context.Context, placeID uint) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Visit{}).Where("place_id = ?", placeID).Count(&count).Error
	if err != nil {
		s.Logger.Error("visit count query failed", zap.Uint("place_id", placeID), zap.Error(err))
		return 0, apperr.ErrInternal.WithMessage("Failed to count visits")
	}
	return count, nil
}

// PlaceAverageRating averages review ratings for the place, 0 when unrated.
func (s *PointsService) PlaceAverageRating(ctx context.Context, placeID uint) (float64, error) {
	var avg *float64
	err := s.DB.WithContext(ctx).
		Model(&models.Review{}).
		Select("AVG(rating)").
		Where("place_id = ?", placeID).
		Scan(&avg).Error
	if err != nil {
		s.Logger.Error("rating average query failed", zap.Uint("place_id", placeID), zap.Error(err))
		return 0, apperr.ErrInternal.WithMessage("Failed to average ratings")
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// PlaceSummary computes the current {visits, averageRating} pair live from
// the ledger; it is never cached.
func (s *PointsService) PlaceSummary(ctx context.Context, placeID uint) (*PlaceSummary, error) {
	visits, err := s.PlaceVisitCount(ctx, placeID)
	if err != nil {
		return nil, err
	}
	rating, err := s.PlaceAverageRating(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return &PlaceSummary{PlaceID: placeID, Visits: visits, AverageRating: rating}, nil
}
