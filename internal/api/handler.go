package api

import (
	"sync"

	"coowner-backend/internal/engine"
	"coowner-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store  store.Store
	engine *engine.Service

	// vehicleLocks serializes booking writes per vehicle. The engine's
	// decision is advisory and computed from a snapshot; the lock plus the
	// store's transactional overlap re-check close the read-then-write race.
	vehicleLocks sync.Map // int64 -> *sync.Mutex
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, eng *engine.Service) *Handler {
	return &Handler{
		store:  s,
		engine: eng,
	}
}

func (h *Handler) vehicleLock(vehicleID int64) *sync.Mutex {
	lock, _ := h.vehicleLocks.LoadOrStore(vehicleID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
