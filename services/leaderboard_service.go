package services

import (
	"context"
	"math"

	"github.com/visit-point/api-go/apperr"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultLeaderboardWindowDays = 30
	MaxLeaderboardLimit          = 100
)

type LeaderboardService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewLeaderboardService(db *gorm.DB, logger *zap.Logger) *LeaderboardService {
	return &LeaderboardService{DB: db, Logger: logger}
}

// LeaderboardEntry is one ranked row. Rank is 1-based and dense: ties on
// points get distinct ranks in ascending user id order, so pages never
// overlap or skip.
type LeaderboardEntry struct {
	UserID        uint   `json:"id" gorm:"column:id"`
	Username      string `json:"username" gorm:"column:username"`
	VisitedPlaces int    `json:"visited_places" gorm:"column:visited_places"`
	Points        int64  `json:"points" gorm:"column:points"`
	Rank          int    `json:"rank" gorm:"column:rank"`
}

// LeaderboardPage is one page of the ranking plus page math for clients.
type LeaderboardPage struct {
	Entries    []LeaderboardEntry `json:"leaderboard"`
	TotalPages int                `json:"total_pages"`
	TotalUsers int64              `json:"total_users"`
}

// rankingQuery is the single source of truth for leaderboard order. Both
// the page view and the single-user lookup run exactly this ranking, so a
// user's reported rank always matches where a page would show them.
const rankingQuery = `
	SELECT u.id,
	       u.username,
	       COUNT(v.place_id)::integer AS visited_places,
	       SUM(p.point_value)::bigint AS points,
	       ROW_NUMBER() OVER (ORDER BY SUM(p.point_value) DESC, u.id ASC)::integer AS rank
	FROM users u
	JOIN visits v ON v.user_id = u.id
	JOIN places p ON p.id = v.place_id
	WHERE v.created_at > NOW() - make_interval(days => ?)
	  AND u.deleted_at IS NULL
	GROUP BY u.id`

func validateWindow(windowDays, limit, offset int) error {
	if windowDays < 1 {
		return apperr.ErrBadRequest.WithMessage("Window must be at least one day")
	}
	if limit < 1 || limit > MaxLeaderboardLimit {
		return apperr.ErrBadRequest.WithMessage("Invalid limit")
	}
	if offset < 0 {
		return apperr.ErrBadRequest.WithMessage("Invalid offset")
	}
	return nil
}

// TopByPoints returns one page of users ranked by points earned within the
// trailing window.
func (s *LeaderboardService) TopByPoints(ctx context.Context, windowDays, limit, offset int) (*LeaderboardPage, error) {
	if err := validateWindow(windowDays, limit, offset); err != nil {
		return nil, err
	}

	var entries []LeaderboardEntry
	err := s.DB.WithContext(ctx).
		Raw(rankingQuery+` ORDER BY rank LIMIT ? OFFSET ?`, windowDays, limit, offset).
		Scan(&entries).Error
	if err != nil {
		s.Logger.Error("leaderboard query failed", zap.Error(err))
		return nil, apperr.ErrInternal.WithMessage("Failed to build leaderboard")
	}

	var total int64
	err = s.DB.WithContext(ctx).
		Raw(`SELECT COUNT(DISTINCT user_id) FROM visits
		     WHERE created_at > NOW() - make_interval(days => ?)`, windowDays).
		Scan(&total).Error
	if err != nil {
		s.Logger.Error("leaderboard count failed", zap.Error(err))
		return nil, apperr.ErrInternal.WithMessage("Failed to build leaderboard")
	}

	return &LeaderboardPage{
		Entries:    entries,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		TotalUsers: total,
	}, nil
}

// RankOf returns the single ranking row for one user, or NotFound when the
// user has no visit inside the window.
func (s *LeaderboardService) RankOf(ctx context.Context, userID uint, windowDays int) (*LeaderboardEntry, error) {
	if windowDays < 1 {
		return nil, apperr.ErrBadRequest.WithMessage("Window must be at least one day")
	}

	var entries []LeaderboardEntry
	err := s.DB.WithContext(ctx).
		Raw(`SELECT id, username, visited_places, points, rank
		     FROM (`+rankingQuery+`) AS leaderboard
		     WHERE id = ?`, windowDays, userID).
		Scan(&entries).Error
	if err != nil {
		s.Logger.Error("rank lookup failed", zap.Uint("user_id", userID), zap.Error(err))
		return nil, apperr.ErrInternal.WithMessage("Failed to look up rank")
	}
	if len(entries) == 0 {
		return nil, apperr.ErrNotFound.WithMessage("User has no recent activity")
	}

	return &entries[0], nil
}
