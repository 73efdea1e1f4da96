package model

import "time"

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	StatusBooked    ReservationStatus = "BOOKED"
	StatusInUse     ReservationStatus = "IN_USE"
	StatusCompleted ReservationStatus = "COMPLETED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

// Valid reports whether s is one of the recognized statuses.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusBooked, StatusInUse, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Reservation represents one user's booked time slot on a vehicle.
type Reservation struct {
	ID        string            `gorm:"primaryKey;size:36" json:"id"` // UUID
	VehicleID int64             `gorm:"index;not null" json:"vehicleId"`
	UserID    string            `gorm:"index;size:64;not null" json:"userId"`
	StartTime time.Time         `gorm:"index;not null" json:"startTime"`
	EndTime   time.Time         `gorm:"not null" json:"endTime"`
	Status    ReservationStatus `gorm:"size:16;not null" json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`

	// Associations
	Vehicle Vehicle `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Cancelled reports whether the reservation no longer blocks the vehicle.
func (r *Reservation) Cancelled() bool {
	return r.Status == StatusCancelled
}
