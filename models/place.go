package models

import (
	"time"

	"github.com/lib/pq"
)

type Place struct {
	ID          uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description" gorm:"type:text"`
	Latitude    float64        `json:"latitude" gorm:"not null;type:decimal(10,8)"`
	Longitude   float64        `json:"longitude" gorm:"not null;type:decimal(11,8)"`
	PointValue  int            `json:"point_value" gorm:"not null;default:0"`
	Categories  pq.StringArray `json:"categories" gorm:"type:text[]"`
	Region      string         `json:"region" gorm:"type:varchar(50)"`
	// QRIdentifier is the secret printed on the physical QR code at the place.
	// Knowing it is the proof of presence, so it never leaves the server.
	QRIdentifier string    `json:"-" gorm:"uniqueIndex;not null;type:varchar(64)"`
	Visits       []Visit   `json:"-" gorm:"foreignKey:PlaceID"`
	Reviews      []Review  `json:"-" gorm:"foreignKey:PlaceID"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
