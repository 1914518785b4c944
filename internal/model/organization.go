package model

import (
	"time"

	"gorm.io/gorm"
)

// Organization is the tenant boundary. Users and biometric records belong
// to exactly one organization.
type Organization struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"type:varchar(100);index"`
	ContactEmail string         `json:"contact_email" gorm:"type:varchar(100);uniqueIndex"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}
