package model

import "time"

// OwnershipShare records one co-owner's contractual stake in a vehicle.
// The shares of a vehicle are expected to sum to 100; that invariant is
// maintained by the ownership registry writing these rows, not re-checked here.
type OwnershipShare struct {
	ID                  int64     `gorm:"primaryKey" json:"id"`
	VehicleID           int64     `gorm:"uniqueIndex:idx_share_vehicle_user;not null" json:"vehicleId"`
	GroupID             int64     `gorm:"index;not null" json:"groupId"`
	UserID              string    `gorm:"uniqueIndex:idx_share_vehicle_user;size:64;not null" json:"userId"`
	OwnershipPercentage float64   `gorm:"not null" json:"ownershipPercentage"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`

	// Associations
	Vehicle Vehicle `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
