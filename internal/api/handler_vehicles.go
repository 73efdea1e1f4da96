package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetGroupVehicles handles GET /api/groups/:group_id/vehicles.
func (h *Handler) GetGroupVehicles(c *gin.Context) {
	groupID, err := strconv.ParseInt(c.Param("group_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	vehicles, err := h.store.GroupVehicles(c.Request.Context(), groupID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve vehicles"})
		return
	}
	c.JSON(http.StatusOK, vehicles)
}
