package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"coowner-backend/internal/model"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormStore_OwnershipShares(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "ownership_shares" WHERE vehicle_id = $1 ORDER BY user_id ASC`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "vehicle_id", "group_id", "user_id", "ownership_percentage"}).
			AddRow(1, 7, 3, "alice", 60.0).
			AddRow(2, 7, 3, "bob", 40.0))

	shares, err := s.OwnershipShares(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, shares, 2)
	assert.Equal(t, "alice", shares[0].UserID)
	assert.InDelta(t, 60.0, shares[0].OwnershipPercentage, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ReservationsRangeQuery(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(7 * 24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reservations" WHERE vehicle_id = $1 AND start_time < $2 AND end_time > $3 ORDER BY start_time ASC`)).
		WithArgs(int64(7), to, from).
		WillReturnRows(sqlmock.NewRows([]string{"id", "vehicle_id", "user_id", "start_time", "end_time", "status"}).
			AddRow("r1", 7, "alice", from.Add(time.Hour), from.Add(3*time.Hour), "BOOKED").
			AddRow("r2", 7, "bob", from.Add(5*time.Hour), from.Add(6*time.Hour), "CANCELLED"))

	reservations, err := s.Reservations(context.Background(), 7, from, to)
	require.NoError(t, err)
	require.Len(t, reservations, 2)
	assert.Equal(t, model.StatusCancelled, reservations[1].Status, "cancelled rows are returned; filtering is the engine's call")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_CreateReservation(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	testCases := []struct {
		name             string
		mockExpectations func(mock sqlmock.Sqlmock)
		expectedErr      error
	}{
		{
			name: "free slot inserts the reservation",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "reservations"`)).
					WithArgs(int64(7), string(model.StatusCancelled), end, start).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "reservations"`)).
					WithArgs(AnyArg{}, int64(7), "alice", start, end, string(model.StatusBooked), AnyArg{}, AnyArg{}).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
			expectedErr: nil,
		},
		{
			name: "concurrent overlap rolls back",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "reservations"`)).
					WithArgs(int64(7), string(model.StatusCancelled), end, start).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectRollback()
			},
			expectedErr: ErrSlotTaken,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newTestDB(t)
			s := NewGormStore(gormDB)

			tc.mockExpectations(mock)

			reservation, err := s.CreateReservation(context.Background(), 7, "alice", start, end)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, reservation)
			} else {
				require.NoError(t, err)
				require.NotNil(t, reservation)
				assert.NotEmpty(t, reservation.ID)
				assert.Equal(t, model.StatusBooked, reservation.Status)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStore_CancelReservation(t *testing.T) {
	testCases := []struct {
		name         string
		rowsAffected int64
		expectedErr  error
	}{
		{"booked reservation cancels", 1, nil},
		{"missing or foreign reservation is rejected", 0, ErrNotCancellable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newTestDB(t)
			s := NewGormStore(gormDB)

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(`UPDATE "reservations"`)).
				WithArgs(AnyArg{}, AnyArg{}, "r1", "alice", string(model.StatusBooked)).
				WillReturnResult(sqlmock.NewResult(0, tc.rowsAffected))
			mock.ExpectCommit()

			err := s.CancelReservation(context.Background(), "r1", "alice")
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// AnyArg is a helper for sqlmock to match any argument.
type AnyArg struct{}

// Match satisfies the sqlmock.Argument interface.
func (a AnyArg) Match(v driver.Value) bool {
	return true
}
