package engine

import (
	"fmt"
	"sort"
	"time"

	"coowner-backend/internal/model"
)

// BuildAvailability derives the free windows of [rangeStart, rangeEnd) from a
// vehicle's busy intervals. Cancelled reservations do not block. The sweep
// cursor only moves forward, so overlapping busy intervals collapse naturally.
func BuildAvailability(rangeStart, rangeEnd time.Time, reservations []model.Reservation, minWindowHours float64) []AvailabilityWindow {
	busy := make([]model.Reservation, 0, len(reservations))
	for _, r := range reservations {
		if r.Cancelled() || r.StartTime.IsZero() || r.EndTime.IsZero() {
			continue
		}
		busy = append(busy, r)
	}
	sort.Slice(busy, func(i, j int) bool {
		return busy[i].StartTime.Before(busy[j].StartTime)
	})

	if minWindowHours <= 0 {
		minWindowHours = minCountableHours
	}

	windows := make([]AvailabilityWindow, 0, len(busy)+1)
	cursor := rangeStart
	for _, r := range busy {
		if cursor.Before(r.StartTime) {
			windows = appendWindow(windows, cursor, r.StartTime, minWindowHours)
		}
		if r.EndTime.After(cursor) {
			cursor = r.EndTime
		}
	}
	if cursor.Before(rangeEnd) {
		windows = appendWindow(windows, cursor, rangeEnd, minWindowHours)
	}

	return windows
}

func appendWindow(windows []AvailabilityWindow, start, end time.Time, minWindowHours float64) []AvailabilityWindow {
	hours := end.Sub(start).Hours()
	if hours < minWindowHours {
		return windows
	}
	return append(windows, AvailabilityWindow{
		Start:         start,
		End:           end,
		DurationHours: hours,
		Label:         windowLabel(hours),
	})
}

// windowLabel is presentation sugar; nothing downstream parses it.
func windowLabel(hours float64) string {
	if hours < 1 {
		return "short free slot"
	}
	return fmt.Sprintf("free %.1f hours", hours)
}
