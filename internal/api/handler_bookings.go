package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"coowner-backend/internal/store"
)

type postBookingRequest struct {
	UserID        string    `json:"user_id" binding:"required"`
	Start         time.Time `json:"start" binding:"required"`
	DurationHours float64   `json:"duration_hours"`
}

// PostBooking handles POST /api/vehicles/:vehicle_id/bookings. The engine
// decides; if it approves, the reservation is written under the per-vehicle
// lock with the store re-checking overlap inside its transaction.
func (h *Handler) PostBooking(c *gin.Context) {
	vehicleID, ok := parseVehicleID(c)
	if !ok {
		return
	}

	var req postBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DurationHours < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "duration_hours must be positive"})
		return
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -defaultHistoryDays)
	to := now.AddDate(0, 0, defaultHorizonDays)
	if end := req.Start.Add(time.Duration(req.DurationHours * float64(time.Hour))); end.After(to) {
		to = end.AddDate(0, 0, 1)
	}

	lock := h.vehicleLock(vehicleID)
	lock.Lock()
	defer lock.Unlock()

	decision, err := h.engine.DecideBooking(c.Request.Context(), vehicleID, req.UserID, req.Start, req.DurationHours, from, to, now)
	if err != nil {
		abortEngineError(c, err)
		return
	}

	if !decision.Approved {
		c.JSON(http.StatusOK, gin.H{"decision": decision})
		return
	}

	reservation, err := h.store.CreateReservation(c.Request.Context(), vehicleID, req.UserID, decision.RequestedStart, decision.RequestedEnd)
	if err != nil {
		if errors.Is(err, store.ErrSlotTaken) {
			// A concurrent booking landed between snapshot and write.
			decision.Approved = false
			decision.Reason = "time slot conflicts with an existing booking"
			c.JSON(http.StatusConflict, gin.H{"decision": decision})
			return
		}
		logrus.WithError(err).WithField("vehicle_id", vehicleID).Error("failed to persist reservation")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist reservation"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"decision":    decision,
		"reservation": reservation,
	})
}

type deleteReservationRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// DeleteReservation handles DELETE /api/reservations/:reservation_id. The
// row is kept with CANCELLED status so cancellation counts survive.
func (h *Handler) DeleteReservation(c *gin.Context) {
	reservationID := c.Param("reservation_id")

	var req deleteReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.CancelReservation(c.Request.Context(), reservationID, req.UserID); err != nil {
		if errors.Is(err, store.ErrNotCancellable) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel reservation"})
		return
	}

	c.Status(http.StatusNoContent)
}
