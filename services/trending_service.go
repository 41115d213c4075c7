package services

import (
	"context"

	"github.com/lib/pq"
	"github.com/visit-point/api-go/apperr"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultTrendingWindowDays = 14
	DefaultTrendingLimit      = 10
)

type TrendingService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewTrendingService(db *gorm.DB, logger *zap.Logger) *TrendingService {
	return &TrendingService{DB: db, Logger: logger}
}

// TrendingPlace is a place plus how many users visited it inside the window.
type TrendingPlace struct {
	ID          uint           `json:"id" gorm:"column:id"`
	Name        string         `json:"name" gorm:"column:name"`
	Description string         `json:"description" gorm:"column:description"`
	Latitude    float64        `json:"latitude" gorm:"column:latitude"`
	Longitude   float64        `json:"longitude" gorm:"column:longitude"`
	PointValue  int            `json:"point_value" gorm:"column:point_value"`
	Categories  pq.StringArray `json:"categories" gorm:"column:categories;type:text[]"`
	Region      string         `json:"region" gorm:"column:region"`
	Visitors    int            `json:"visitors" gorm:"column:visitors"`
}

// TopPlaces ranks places by in-window visit count, most visited first.
// Ties keep ascending place id order so repeated calls agree.
func (s *TrendingService) TopPlaces(ctx context.Context, windowDays, limit int) ([]TrendingPlace, error) {
	if windowDays < 1 {
		windowDays = DefaultTrendingWindowDays
	}
	if limit < 1 {
		limit = DefaultTrendingLimit
	}

	var places []TrendingPlace
	err := s.DB.WithContext(ctx).
		Raw(`SELECT p.id, p.name, p.description, p.latitude, p.longitude,
		            p.point_value, p.categories, p.region,
		            COUNT(v.user_id)::integer AS visitors
		     FROM places p
		     JOIN visits v ON v.place_id = p.id
		     WHERE v.created_at > NOW() - make_interval(days => ?)
		     GROUP BY p.id
		     ORDER BY visitors DESC, p.id ASC
		     LIMIT ?`, windowDays, limit).
		Scan(&places).Error
	if err != nil {
		s.Logger.Error("trending query failed", zap.Error(err))
		return nil, apperr.ErrInternal.WithMessage("Failed to build trending places")
	}

	return places, nil
}
