package model

import "time"

// AccessLog is an immutable audit entry written as a side effect of record
// operations. Entries are only ever inserted; there is no update or delete
// path for them anywhere in the service.
type AccessLog struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"index;not null"`
	OrganizationID *uint     `json:"organization_id,omitempty" gorm:"index"`
	Action         string    `json:"action" gorm:"type:varchar(50);not null"`
	Details        JSONMap   `json:"details" gorm:"type:jsonb"`
	Timestamp      time.Time `json:"timestamp" gorm:"autoCreateTime"`
}

// TableName keeps the historical table name.
func (AccessLog) TableName() string {
	return "access_logs"
}
