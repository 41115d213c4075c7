package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/visit-point/api-go/apperr"
	"github.com/visit-point/api-go/models"
	"gorm.io/gorm"
)

func newReviews(t *testing.T, db *gorm.DB) *ReviewService {
	t.Helper()
	points := NewPointsService(db, zapNop())
	return NewReviewService(db, NewLiveHub(points, zapNop()), zapNop())
}

func TestUpsertReview_RequiresVisit(t *testing.T) {
	db := setupTestDB(t)
	reviews := newReviews(t, db)
	ctx := context.Background()

	user := createTestUser(t, db, uniqueName("critic"))
	place := createTestPlace(t, db, "Castle", 48.1422, 17.1002, 10)

	_, err := reviews.UpsertReview(ctx, user.ID, place.ID, 5, "never been there", "")
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	createTestVisitAt(t, db, user.ID, place.ID, time.Now())

	review, err := reviews.UpsertReview(ctx, user.ID, place.ID, 5, "worth the climb", "")
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
}

func TestUpsertReview_SecondReviewOverwrites(t *testing.T) {
	db := setupTestDB(t)
	reviews := newReviews(t, db)
	ctx := context.Background()

	user := createTestUser(t, db, uniqueName("critic"))
	place := createTestPlace(t, db, "Castle", 48.1422, 17.1002, 10)
	createTestVisitAt(t, db, user.ID, place.ID, time.Now())

	_, err := reviews.UpsertReview(ctx, user.ID, place.ID, 5, "worth the climb", "")
	require.NoError(t, err)
	_, err = reviews.UpsertReview(ctx, user.ID, place.ID, 2, "crowded in summer", "")
	require.NoError(t, err)

	var stored []models.Review
	require.NoError(t, db.Where("user_id = ? AND place_id = ?", user.ID, place.ID).Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, 2, stored[0].Rating)
	assert.Equal(t, "crowded in summer", stored[0].Comment)
}

func TestUpsertReview_ValidatesInput(t *testing.T) {
	db := setupTestDB(t)
	reviews := newReviews(t, db)
	ctx := context.Background()

	user := createTestUser(t, db, uniqueName("critic"))
	place := createTestPlace(t, db, "Castle", 48.1422, 17.1002, 10)
	createTestVisitAt(t, db, user.ID, place.ID, time.Now())

	_, err := reviews.UpsertReview(ctx, user.ID, place.ID, 0, "bad rating", "")
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	_, err = reviews.UpsertReview(ctx, user.ID, place.ID, 6, "bad rating", "")
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	_, err = reviews.UpsertReview(ctx, user.ID, place.ID, 3, "", "")
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
}

func TestDeleteReview(t *testing.T) {
	db := setupTestDB(t)
	reviews := newReviews(t, db)
	ctx := context.Background()

	user := createTestUser(t, db, uniqueName("critic"))
	place := createTestPlace(t, db, "Castle", 48.1422, 17.1002, 10)

	_, err := reviews.DeleteReview(ctx, user.ID, place.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	createTestVisitAt(t, db, user.ID, place.ID, time.Now())
	_, err = reviews.UpsertReview(ctx, user.ID, place.ID, 4, "nice view", "")
	require.NoError(t, err)

	deleted, err := reviews.DeleteReview(ctx, user.ID, place.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, deleted.Rating)

	var count int64
	db.Model(&models.Review{}).Where("place_id = ?", place.ID).Count(&count)
	assert.Zero(t, count)
}

func TestListPlaceReviews(t *testing.T) {
	db := setupTestDB(t)
	reviews := newReviews(t, db)
	ctx := context.Background()

	place := createTestPlace(t, db, "Castle", 48.1422, 17.1002, 10)
	now := time.Now()
	for i, rating := range []int{5, 3} {
		user := createTestUser(t, db, uniqueName("critic"))
		createTestVisitAt(t, db, user.ID, place.ID, now.Add(time.Duration(i)*time.Minute))
		_, err := reviews.UpsertReview(ctx, user.ID, place.ID, rating, "review", "")
		require.NoError(t, err)
	}

	page, err := reviews.ListPlaceReviews(ctx, place.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Reviews, 2)
	assert.Equal(t, int64(2), page.ReviewCount)
	assert.InDelta(t, 4.0, page.AverageRating, 1e-9)
	assert.Equal(t, 1, page.TotalPages)
}

func TestListPlaceReviews_UnknownPlace(t *testing.T) {
	db := setupTestDB(t)
	reviews := newReviews(t, db)

	_, err := reviews.ListPlaceReviews(context.Background(), 9999, 1, 10)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
