package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"coowner-backend/config"
	"coowner-backend/internal/engine"
	"coowner-backend/internal/model"
	"coowner-backend/internal/store"
)

// fakeStore backs both the handlers and the engine's data sources.
type fakeStore struct {
	shares       []model.OwnershipShare
	reservations []model.Reservation
	vehicles     []model.Vehicle

	created   *model.Reservation
	createErr error
	cancelErr error
	cancelled []string
}

func (f *fakeStore) OwnershipShares(_ context.Context, _ int64) ([]model.OwnershipShare, error) {
	return f.shares, nil
}

func (f *fakeStore) Reservations(_ context.Context, _ int64, _, _ time.Time) ([]model.Reservation, error) {
	return f.reservations, nil
}

func (f *fakeStore) CreateReservation(_ context.Context, vehicleID int64, userID string, start, end time.Time) (*model.Reservation, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &model.Reservation{
		ID:        "created-1",
		VehicleID: vehicleID,
		UserID:    userID,
		StartTime: start,
		EndTime:   end,
		Status:    model.StatusBooked,
	}
	return f.created, nil
}

func (f *fakeStore) CancelReservation(_ context.Context, reservationID, _ string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, reservationID)
	return nil
}

func (f *fakeStore) Vehicle(_ context.Context, vehicleID int64) (*model.Vehicle, error) {
	for i := range f.vehicles {
		if f.vehicles[i].ID == vehicleID {
			return &f.vehicles[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) GroupVehicles(_ context.Context, _ int64) ([]model.Vehicle, error) {
	return f.vehicles, nil
}

func (f *fakeStore) UpsertShare(_ context.Context, _ *model.OwnershipShare) error {
	return nil
}

func (f *fakeStore) DB() *gorm.DB {
	return nil
}

type stubDirectory struct{}

func (stubDirectory) UserDisplayNames(_ context.Context, userIDs []string) map[string]string {
	return map[string]string{}
}

func (stubDirectory) VehicleDisplayName(_ context.Context, vehicleID int64) string {
	return fmt.Sprintf("Vehicle#%d", vehicleID)
}

func newTestServer(f *fakeStore) *httptest.Server {
	eng := engine.NewService(engine.DefaultConfig(), f, f, stubDirectory{})
	router := NewRouter(f, eng, &config.ServerConfig{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTLSeconds: 1,
	})
	return httptest.NewServer(router)
}

func seedStore() *fakeStore {
	now := time.Now().UTC()
	return &fakeStore{
		shares: []model.OwnershipShare{
			{VehicleID: 1, GroupID: 1, UserID: "alice", OwnershipPercentage: 50},
			{VehicleID: 1, GroupID: 1, UserID: "bob", OwnershipPercentage: 50},
		},
		reservations: []model.Reservation{
			{ID: "r1", VehicleID: 1, UserID: "bob", StartTime: now.Add(-3 * time.Hour), EndTime: now.Add(-1 * time.Hour), Status: model.StatusCompleted},
		},
	}
}

func TestGetFairness(t *testing.T) {
	server := newTestServer(seedStore())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/vehicles/1/fairness")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary engine.FairnessSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, int64(1), summary.VehicleID)
	assert.Len(t, summary.Members, 2)
	assert.Len(t, summary.PriorityQueue, 2)
}

func TestGetFairnessVehicleWithoutOwners(t *testing.T) {
	server := newTestServer(&fakeStore{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/vehicles/1/fairness")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetFairnessInvalidVehicleID(t *testing.T) {
	server := newTestServer(seedStore())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/vehicles/abc/fairness")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetAvailability(t *testing.T) {
	server := newTestServer(seedStore())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/vehicles/1/availability")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		VehicleID    int64                       `json:"vehicleId"`
		Availability []engine.AvailabilityWindow `json:"availability"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(1), body.VehicleID)
	assert.NotEmpty(t, body.Availability)
}

func postBooking(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestPostBookingApproved(t *testing.T) {
	f := seedStore()
	server := newTestServer(f)
	defer server.Close()

	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Minute)
	resp := postBooking(t, server.URL+"/api/vehicles/1/bookings", map[string]any{
		"user_id":        "alice",
		"start":          start.Format(time.RFC3339),
		"duration_hours": 2,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Decision    engine.BookingDecision `json:"decision"`
		Reservation model.Reservation      `json:"reservation"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Decision.Approved)
	assert.Equal(t, "created-1", body.Reservation.ID)
	require.NotNil(t, f.created)
	assert.Equal(t, start, f.created.StartTime)
	assert.Equal(t, start.Add(2*time.Hour), f.created.EndTime)
}

func TestPostBookingConflictIsNotPersisted(t *testing.T) {
	f := seedStore()
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Minute)
	f.reservations = append(f.reservations, model.Reservation{
		ID: "r2", VehicleID: 1, UserID: "bob",
		StartTime: start.Add(time.Hour), EndTime: start.Add(3 * time.Hour),
		Status: model.StatusBooked,
	})
	server := newTestServer(f)
	defer server.Close()

	resp := postBooking(t, server.URL+"/api/vehicles/1/bookings", map[string]any{
		"user_id":        "alice",
		"start":          start.Format(time.RFC3339),
		"duration_hours": 2,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Decision engine.BookingDecision `json:"decision"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Decision.Approved)
	assert.NotEmpty(t, body.Decision.Conflicts)
	assert.Nil(t, f.created, "rejected bookings must not be written")
}

func TestPostBookingSlotTakenAtCommit(t *testing.T) {
	f := seedStore()
	f.createErr = store.ErrSlotTaken
	server := newTestServer(f)
	defer server.Close()

	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Minute)
	resp := postBooking(t, server.URL+"/api/vehicles/1/bookings", map[string]any{
		"user_id":        "alice",
		"start":          start.Format(time.RFC3339),
		"duration_hours": 2,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPostBookingValidation(t *testing.T) {
	server := newTestServer(seedStore())
	defer server.Close()

	t.Run("missing user", func(t *testing.T) {
		resp := postBooking(t, server.URL+"/api/vehicles/1/bookings", map[string]any{
			"start": time.Now().UTC().Format(time.RFC3339),
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("negative duration", func(t *testing.T) {
		resp := postBooking(t, server.URL+"/api/vehicles/1/bookings", map[string]any{
			"user_id":        "alice",
			"start":          time.Now().UTC().Format(time.RFC3339),
			"duration_hours": -2,
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("non-member", func(t *testing.T) {
		resp := postBooking(t, server.URL+"/api/vehicles/1/bookings", map[string]any{
			"user_id": "mallory",
			"start":   time.Now().UTC().Add(time.Hour).Format(time.RFC3339),
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeleteReservation(t *testing.T) {
	f := seedStore()
	server := newTestServer(f)
	defer server.Close()

	payload, _ := json.Marshal(map[string]string{"user_id": "bob"})
	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/reservations/r1", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []string{"r1"}, f.cancelled)
}

func TestDeleteReservationNotCancellable(t *testing.T) {
	f := seedStore()
	f.cancelErr = store.ErrNotCancellable
	server := newTestServer(f)
	defer server.Close()

	payload, _ := json.Marshal(map[string]string{"user_id": "bob"})
	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/reservations/r9", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetGroupVehicles(t *testing.T) {
	f := seedStore()
	f.vehicles = []model.Vehicle{{ID: 1, GroupID: 1, DisplayName: "The Wagon"}}
	server := newTestServer(f)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/groups/1/vehicles")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var vehicles []model.Vehicle
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&vehicles))
	require.Len(t, vehicles, 1)
	assert.Equal(t, "The Wagon", vehicles[0].DisplayName)
}
