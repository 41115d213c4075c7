package models

import "time"

// Review holds one rating + comment per (user, place). A review may only
// exist after the user has a visit for the place; writing a second review
// for the same pair overwrites the first.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_reviews_user_place"`
	PlaceID   uint      `json:"place_id" gorm:"not null;uniqueIndex:idx_reviews_user_place"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	Place     Place     `json:"-" gorm:"foreignKey:PlaceID"`
	Rating    int       `json:"rating" gorm:"not null;check:rating between 1 and 5"`
	Comment   string    `json:"comment" gorm:"type:text"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
