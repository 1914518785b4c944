package model

import "time"

// BiometricRecord is a typed numeric measurement owned by a user and an
// organization. OrganizationID is frozen at creation time: access checks
// compare against it even if the owning user later changes organization.
type BiometricRecord struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	UserID         uint          `json:"user_id" gorm:"index;not null"`
	OrganizationID uint          `json:"organization_id" gorm:"index;not null"`
	DataType       BiometricType `json:"data_type" gorm:"type:varchar(20);index;not null"`
	Value          float64       `json:"value"`
	Timestamp      time.Time     `json:"timestamp"`
	Metadata       JSONMap       `json:"metadata" gorm:"type:jsonb"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// TableName keeps the historical table name.
func (BiometricRecord) TableName() string {
	return "biometric_data"
}
