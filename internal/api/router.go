package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"coowner-backend/config"
	"coowner-backend/internal/engine"
	"coowner-backend/internal/mw"
	"coowner-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, eng *engine.Service, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, eng)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/vehicles/:vehicle_id/fairness", caching, handler.GetFairness)
		api.GET("/vehicles/:vehicle_id/availability", caching, handler.GetAvailability)
		api.GET("/vehicles/:vehicle_id/recommendations", handler.GetRecommendations)

		api.POST("/vehicles/:vehicle_id/bookings", handler.PostBooking)
		api.DELETE("/reservations/:reservation_id", handler.DeleteReservation)

		api.GET("/groups/:group_id/vehicles", handler.GetGroupVehicles)
	}

	return r
}
