package models

import "time"

// Visit records the verified fact that a user has been at a place.
// The composite unique index makes duplicate check-ins a constraint
// violation, so concurrent duplicates cannot both insert.
type Visit struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_visits_user_place"`
	PlaceID   uint      `json:"place_id" gorm:"not null;uniqueIndex:idx_visits_user_place"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	Place     Place     `json:"place,omitempty" gorm:"foreignKey:PlaceID"`
	CreatedAt time.Time `json:"created_at"`
}
