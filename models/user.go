package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"` // Don't expose password in JSON
	Visits    []Visit        `json:"visits,omitempty" gorm:"foreignKey:UserID"`
	Reviews   []Review       `json:"reviews,omitempty" gorm:"foreignKey:UserID"`
	// Denormalized sum of point values over visited places. The visits table
	// is authoritative; the scheduled recompute keeps this column in sync.
	TotalPoints   int64 `gorm:"default:0" json:"total_points"`
	VisitedPublic bool  `gorm:"default:true" json:"visited_public"`
}
