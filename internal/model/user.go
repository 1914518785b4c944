package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents an authenticated credential stored in the database.
// A user belongs to at most one organization; record operations require
// the association to be present.
type User struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Email          string         `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Password       string         `json:"-" gorm:"type:varchar(255)"`
	Role           Role           `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	OrganizationID *uint          `json:"organization_id,omitempty" gorm:"index"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}
