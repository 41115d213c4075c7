package services

import (
	"context"
	"errors"
	"math"

	"github.com/visit-point/api-go/apperr"
	"github.com/visit-point/api-go/models"
	"github.com/visit-point/api-go/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VisitService is the only write path into the visit ledger. Every visit it
// records has been geofence-checked against the place the QR token belongs to.
type VisitService struct {
	DB             *gorm.DB
	Hub            *LiveHub
	Logger         *zap.Logger
	GeofenceRadius float64
}

func NewVisitService(db *gorm.DB, hub *LiveHub, logger *zap.Logger, geofenceRadius float64) *VisitService {
	if geofenceRadius <= 0 {
		geofenceRadius = utils.DefaultGeofenceRadiusMeters
	}
	return &VisitService{DB: db, Hub: hub, Logger: logger, GeofenceRadius: geofenceRadius}
}

// CheckIn verifies a claimed visit and records it.
//
// The place is resolved by the QR token and must be the same record the
// caller named by id; that binds the physical QR sticker to one place and
// stops replaying a token against another place. Duplicate check-ins race
// on the (user_id, place_id) unique index, so exactly one of two concurrent
// attempts inserts — the loser gets Conflict.
func (s *VisitService) CheckIn(ctx context.Context, userID, placeID uint, lat, lon float64, qrToken string) (*models.Visit, error) {
	if err := utils.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	if qrToken == "" {
		return nil, apperr.ErrBadRequest.WithMessage("QR code data is required")
	}

	var place models.Place
	err := s.DB.WithContext(ctx).Where("qr_identifier = ?", qrToken).First(&place).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && place.ID != placeID) {
		return nil, apperr.ErrNotFound.WithMessage("Place not found")
	}
	if err != nil {
		s.Logger.Error("place lookup by token failed", zap.Error(err))
		return nil, apperr.ErrInternal.WithMessage("Failed to resolve place")
	}

	if !utils.IsWithinGeofence(lat, lon, place.Latitude, place.Longitude, s.GeofenceRadius) {
		return nil, apperr.ErrInvalidLocation
	}

	visit := models.Visit{UserID: userID, PlaceID: place.ID}
	if err := s.DB.WithContext(ctx).Create(&visit).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrConflict.WithMessage("Place already visited")
		}
		s.Logger.Error("visit insert failed",
			zap.Uint("user_id", userID), zap.Uint("place_id", place.ID), zap.Error(err))
		return nil, apperr.ErrInternal.WithMessage("Failed to record visit")
	}
	visit.Place = place

	s.Logger.Info("visit recorded",
		zap.Uint("user_id", userID),
		zap.Uint("place_id", place.ID),
		zap.Int("point_value", place.PointValue))

	s.Hub.Notify(ctx, place.ID)

	return &visit, nil
}

// RemoveVisit deletes the user's visit of the place. Review cleanup is the
// caller's business; the ledger only guarantees its own consistency.
func (s *VisitService) RemoveVisit(ctx context.Context, userID, placeID uint) (*models.Visit, error) {
	var visit models.Visit
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND place_id = ?", userID, placeID).
		First(&visit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound.WithMessage("Visit not found")
	}
	if err != nil {
		return nil, apperr.ErrInternal.WithMessage("Failed to look up visit")
	}

	if err := s.DB.WithContext(ctx).Delete(&visit).Error; err != nil {
		return nil, apperr.ErrInternal.WithMessage("Failed to remove visit")
	}

	s.Hub.Notify(ctx, placeID)

	return &visit, nil
}

// VisitPage is one page of a user's visit history.
type VisitPage struct {
	Visits     []models.Visit `json:"visits"`
	TotalPages int            `json:"total_pages"`
}

// ListUserVisits pages through a user's visits, newest first. Other users'
// histories are only readable when the owner left them public.
func (s *VisitService) ListUserVisits(ctx context.Context, requesterID, userID uint, page, limit int) (*VisitPage, error) {
	if page < 1 || limit < 1 {
		return nil, apperr.ErrBadRequest.WithMessage("Invalid page or limit")
	}

	var user models.User
	err := s.DB.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound.WithMessage("User not found")
	}
	if err != nil {
		return nil, apperr.ErrInternal.WithMessage("Failed to look up user")
	}
	if requesterID != userID && !user.VisitedPublic {
		return nil, apperr.ErrForbidden.WithMessage("User has disabled public visits")
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Visit{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, apperr.ErrInternal.WithMessage("Failed to count visits")
	}

	var visits []models.Visit
	err = s.DB.WithContext(ctx).
		Preload("Place").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&visits).Error
	if err != nil {
		return nil, apperr.ErrInternal.WithMessage("Failed to list visits")
	}

	return &VisitPage{
		Visits:     visits,
		TotalPages: int(math.Ceil(float64(count) / float64(limit))),
	}, nil
}
