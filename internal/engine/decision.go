package engine

import (
	"math"
	"sort"
	"time"

	"coowner-backend/internal/model"
)

// Human-readable decision reasons, in precedence order.
const (
	reasonYieldToHigher = "another member has higher priority"
	reasonSlotConflict  = "time slot conflicts with an existing booking"
	reasonFavored       = "favored due to historical under-use"
	reasonAvailable     = "slot available, booking permitted"
)

// DecisionRequest carries everything Decide needs. Reservations must be the
// vehicle's bookings around the desired slot; cancelled rows are ignored here
// as everywhere.
type DecisionRequest struct {
	Applicant    FairnessRecord
	Members      []FairnessRecord
	Reservations []model.Reservation
	Windows      []AvailabilityWindow
	DesiredStart time.Time
	// DesiredHours of zero means "use the configured default".
	DesiredHours float64
}

// Decide evaluates one booking request against the current fairness state and
// busy calendar. It never mutates anything; persisting an approved slot is the
// caller's job, under the caller's write serialization.
func Decide(req DecisionRequest, cfg Config) (BookingDecision, error) {
	hours := req.DesiredHours
	if hours == 0 {
		hours = cfg.DefaultBookingHours
	}
	if hours < 0 {
		return BookingDecision{}, ErrInvalidDuration
	}

	// Round to whole minutes, with a one-minute floor.
	minutes := math.Round(hours * 60)
	if minutes < 1 {
		minutes = 1
	}
	desiredEnd := req.DesiredStart.Add(time.Duration(minutes) * time.Minute)
	desiredHours := minutes / 60

	conflicts := findConflicts(req.Reservations, req.DesiredStart, desiredEnd)

	otherHasHigh := false
	for _, m := range req.Members {
		if m.UserID != req.Applicant.UserID && m.Priority == PriorityHigh {
			otherHasHigh = true
			break
		}
	}

	priorityOK := req.Applicant.Priority != PriorityLow || (!otherHasHigh && len(conflicts) == 0)
	approved := priorityOK && len(conflicts) == 0

	var reason string
	switch {
	case !priorityOK:
		reason = reasonYieldToHigher
	case len(conflicts) > 0:
		reason = reasonSlotConflict
	case req.Applicant.Priority == PriorityHigh:
		reason = reasonFavored
	default:
		reason = reasonAvailable
	}

	var alternatives []AvailabilityWindow
	if len(conflicts) == 0 {
		alternatives = []AvailabilityWindow{{
			Start:         req.DesiredStart,
			End:           desiredEnd,
			DurationHours: desiredHours,
			Label:         windowLabel(desiredHours),
		}}
	} else {
		alternatives = nearestWindows(req.Windows, req.DesiredStart, desiredHours, cfg.MaxAlternatives)
	}

	return BookingDecision{
		Approved:       approved,
		Priority:       req.Applicant.Priority,
		Reason:         reason,
		RequestedStart: req.DesiredStart,
		RequestedEnd:   desiredEnd,
		Conflicts:      conflicts,
		Alternatives:   alternatives,
	}, nil
}

// findConflicts returns the non-cancelled reservations overlapping
// [start, end) under the half-open overlap test.
func findConflicts(reservations []model.Reservation, start, end time.Time) []Conflict {
	conflicts := make([]Conflict, 0)
	for _, r := range reservations {
		if r.Cancelled() || r.StartTime.IsZero() || r.EndTime.IsZero() {
			continue
		}
		if r.StartTime.Before(end) && r.EndTime.After(start) {
			conflicts = append(conflicts, Conflict{
				ReservationID: r.ID,
				UserID:        r.UserID,
				Start:         r.StartTime,
				End:           r.EndTime,
			})
		}
	}
	return conflicts
}

// nearestWindows ranks the free windows that could hold the desired duration
// by their time distance from the desired start and returns the closest few.
func nearestWindows(windows []AvailabilityWindow, desiredStart time.Time, desiredHours float64, limit int) []AvailabilityWindow {
	fitting := make([]AvailabilityWindow, 0, len(windows))
	for _, w := range windows {
		if w.DurationHours >= desiredHours {
			fitting = append(fitting, w)
		}
	}
	sort.SliceStable(fitting, func(i, j int) bool {
		return windowDistance(fitting[i], desiredStart) < windowDistance(fitting[j], desiredStart)
	})
	if limit > 0 && len(fitting) > limit {
		fitting = fitting[:limit]
	}
	return fitting
}

// windowDistance is zero when the window already contains the desired start,
// otherwise the gap to the nearer edge.
func windowDistance(w AvailabilityWindow, at time.Time) time.Duration {
	if !at.Before(w.Start) && at.Before(w.End) {
		return 0
	}
	if at.Before(w.Start) {
		return w.Start.Sub(at)
	}
	return at.Sub(w.End)
}
