package model

import "time"

// Vehicle represents a co-owned vehicle registered to an owner group.
type Vehicle struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	GroupID     int64     `gorm:"index;not null" json:"groupId"`
	DisplayName string    `gorm:"size:256;not null" json:"displayName"`
	Plate       string    `gorm:"size:32" json:"plate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Associations
	Group OwnerGroup `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
