package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coowner-backend/internal/model"
)

var (
	// ErrSlotTaken means an overlapping reservation was committed between the
	// engine's decision and this write.
	ErrSlotTaken = errors.New("slot was taken by a concurrent booking")
	// ErrNotCancellable means the reservation is missing, already cancelled,
	// or not owned by the requesting user.
	ErrNotCancellable = errors.New("reservation cannot be cancelled")
)

// Store defines the interface for all database operations.
type Store interface {
	OwnershipShares(ctx context.Context, vehicleID int64) ([]model.OwnershipShare, error)
	Reservations(ctx context.Context, vehicleID int64, from, to time.Time) ([]model.Reservation, error)
	CreateReservation(ctx context.Context, vehicleID int64, userID string, start, end time.Time) (*model.Reservation, error)
	CancelReservation(ctx context.Context, reservationID, userID string) error
	Vehicle(ctx context.Context, vehicleID int64) (*model.Vehicle, error)
	GroupVehicles(ctx context.Context, groupID int64) ([]model.Vehicle, error)
	UpsertShare(ctx context.Context, share *model.OwnershipShare) error
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// OwnershipShares returns a vehicle's shares ordered by user for stable output.
func (s *gormStore) OwnershipShares(ctx context.Context, vehicleID int64) ([]model.OwnershipShare, error) {
	var shares []model.OwnershipShare
	err := s.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("user_id ASC").
		Find(&shares).Error
	if err != nil {
		return nil, fmt.Errorf("querying ownership shares: %w", err)
	}
	return shares, nil
}

// Reservations returns every reservation of the vehicle intersecting
// [from, to), cancelled ones included; the engine decides what counts.
func (s *gormStore) Reservations(ctx context.Context, vehicleID int64, from, to time.Time) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := s.db.WithContext(ctx).
		Where("vehicle_id = ? AND start_time < ? AND end_time > ?", vehicleID, to, from).
		Order("start_time ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("querying reservations: %w", err)
	}
	return reservations, nil
}

// CreateReservation persists an approved booking. The overlap re-check runs
// inside the transaction because the engine's decision was computed from a
// snapshot; a concurrent booking may have landed since.
func (s *gormStore) CreateReservation(ctx context.Context, vehicleID int64, userID string, start, end time.Time) (*model.Reservation, error) {
	reservation := &model.Reservation{
		ID:        uuid.NewString(),
		VehicleID: vehicleID,
		UserID:    userID,
		StartTime: start,
		EndTime:   end,
		Status:    model.StatusBooked,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var overlapping int64
		err := tx.Model(&model.Reservation{}).
			Where("vehicle_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
				vehicleID, model.StatusCancelled, end, start).
			Count(&overlapping).Error
		if err != nil {
			return fmt.Errorf("re-checking overlap: %w", err)
		}
		if overlapping > 0 {
			return ErrSlotTaken
		}
		if err := tx.Create(reservation).Error; err != nil {
			return fmt.Errorf("inserting reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

// CancelReservation flips a BOOKED reservation to CANCELLED. Only the booking
// user may cancel, and only before it starts being used.
func (s *gormStore) CancelReservation(ctx context.Context, reservationID, userID string) error {
	result := s.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("id = ? AND user_id = ? AND status = ?", reservationID, userID, model.StatusBooked).
		Update("status", model.StatusCancelled)
	if result.Error != nil {
		return fmt.Errorf("cancelling reservation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotCancellable
	}
	return nil
}

// Vehicle fetches one vehicle by ID.
func (s *gormStore) Vehicle(ctx context.Context, vehicleID int64) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := s.db.WithContext(ctx).First(&vehicle, vehicleID).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// GroupVehicles lists a group's vehicles.
func (s *gormStore) GroupVehicles(ctx context.Context, groupID int64) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	err := s.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("id ASC").
		Find(&vehicles).Error
	if err != nil {
		return nil, fmt.Errorf("querying group vehicles: %w", err)
	}
	return vehicles, nil
}

// UpsertShare writes one ownership row, keyed on (vehicle, user). The share
// registry owns the sum-to-100 invariant.
func (s *gormStore) UpsertShare(ctx context.Context, share *model.OwnershipShare) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "vehicle_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"ownership_percentage", "group_id", "updated_at"}),
	}).Create(share).Error
}
