package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"coowner-backend/internal/engine"
)

const (
	defaultHistoryDays = 30
	defaultHorizonDays = 7
)

// GetFairness handles GET /api/vehicles/:vehicle_id/fairness.
// The period defaults to the trailing 30 days.
func (h *Handler) GetFairness(c *gin.Context) {
	vehicleID, ok := parseVehicleID(c)
	if !ok {
		return
	}
	now := time.Now().UTC()
	from, to, ok := parseRange(c, now.AddDate(0, 0, -defaultHistoryDays), now)
	if !ok {
		return
	}

	summary, err := h.engine.Summary(c.Request.Context(), vehicleID, from, to, now)
	if err != nil {
		abortEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetAvailability handles GET /api/vehicles/:vehicle_id/availability.
// The horizon defaults to the coming 7 days.
func (h *Handler) GetAvailability(c *gin.Context) {
	vehicleID, ok := parseVehicleID(c)
	if !ok {
		return
	}
	now := time.Now().UTC()
	from, to, ok := parseRange(c, now, now.AddDate(0, 0, defaultHorizonDays))
	if !ok {
		return
	}

	summary, err := h.engine.Summary(c.Request.Context(), vehicleID, from, to, now)
	if err != nil {
		abortEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"vehicleId":    summary.VehicleID,
		"rangeStart":   summary.RangeStart,
		"rangeEnd":     summary.RangeEnd,
		"availability": summary.Availability,
	})
}

// GetRecommendations handles GET /api/vehicles/:vehicle_id/recommendations.
func (h *Handler) GetRecommendations(c *gin.Context) {
	vehicleID, ok := parseVehicleID(c)
	if !ok {
		return
	}
	now := time.Now().UTC()
	from, to, ok := parseRange(c, now.AddDate(0, 0, -defaultHistoryDays), now)
	if !ok {
		return
	}

	recommendations, err := h.engine.Recommendations(c.Request.Context(), vehicleID, from, to, now)
	if err != nil {
		abortEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, recommendations)
}

func parseVehicleID(c *gin.Context) (int64, bool) {
	vehicleID, err := strconv.ParseInt(c.Param("vehicle_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return 0, false
	}
	return vehicleID, true
}

// parseRange reads optional from/to query params (RFC3339), falling back to
// the given defaults.
func parseRange(c *gin.Context, defaultFrom, defaultTo time.Time) (time.Time, time.Time, bool) {
	from, to := defaultFrom, defaultTo

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' timestamp format. Use RFC3339."})
			return from, to, false
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' timestamp format. Use RFC3339."})
			return from, to, false
		}
		to = parsed
	}
	return from, to, true
}

func abortEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrNoOwnershipGroup):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case engine.IsInvalidArgument(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate vehicle"})
	}
}
