package model

import "time"

// OwnerGroup represents a set of co-owners sharing one or more vehicles.
type OwnerGroup struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Vehicles []Vehicle `gorm:"foreignKey:GroupID" json:"vehicles,omitempty"`
}
