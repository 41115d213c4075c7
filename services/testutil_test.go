package services

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/visit-point/api-go/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupTestDB connects to the database named by TEST_DATABASE_URL and wipes
// the core tables. Tests needing a real database skip when it is unset.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Place{}, &models.Visit{}, &models.Review{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	if err := db.Exec("TRUNCATE users, places, visits, reviews RESTART IDENTITY CASCADE").Error; err != nil {
		t.Fatalf("failed to clean test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Username:      username,
		Email:         username + "@example.com",
		Password:      "hashed",
		VisitedPublic: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return &user
}

func createTestPlace(t *testing.T, db *gorm.DB, name string, lat, lon float64, points int) *models.Place {
	t.Helper()
	place := models.Place{
		Name:         name,
		Latitude:     lat,
		Longitude:    lon,
		PointValue:   points,
		QRIdentifier: uuid.NewString(),
	}
	if err := db.Create(&place).Error; err != nil {
		t.Fatalf("failed to create place %s: %v", name, err)
	}
	return &place
}

// createTestVisitAt inserts a visit with an explicit timestamp so window
// queries can be exercised deterministically.
func createTestVisitAt(t *testing.T, db *gorm.DB, userID, placeID uint, at time.Time) {
	t.Helper()
	err := db.Exec("INSERT INTO visits (user_id, place_id, created_at) VALUES (?, ?, ?)",
		userID, placeID, at).Error
	if err != nil {
		t.Fatalf("failed to create visit (%d, %d): %v", userID, placeID, err)
	}
}

func newTestServices(t *testing.T, db *gorm.DB) (*PointsService, *LiveHub, *VisitService) {
	t.Helper()
	logger := zap.NewNop()
	points := NewPointsService(db, logger)
	hub := NewLiveHub(points, logger)
	visits := NewVisitService(db, hub, logger, 100)
	return points, hub, visits
}

func zapNop() *zap.Logger {
	return zap.NewNop()
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}
