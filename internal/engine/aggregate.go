package engine

import (
	"time"

	"github.com/sirupsen/logrus"

	"coowner-backend/internal/model"
)

// minCountableHours is the floor applied to every counted interval. It absorbs
// zero-length and sub-quarter-hour bookings so usage percentages never divide
// by a vanishing total.
const minCountableHours = 0.25

// Aggregate reduces a vehicle's reservations over one period into per-user
// usage stats. Cancelled reservations contribute nothing to hours or counts
// except the user's cancellation tally, and malformed intervals (missing start
// or end) are skipped rather than failing the batch.
func Aggregate(reservations []model.Reservation, now time.Time) (map[string]UsageStat, float64) {
	stats := make(map[string]UsageStat)
	var totalHours float64

	for _, r := range reservations {
		stat := stats[r.UserID]
		stat.UserID = r.UserID

		if r.Status == model.StatusCancelled {
			stat.CancellationCount++
			stats[r.UserID] = stat
			continue
		}

		if r.StartTime.IsZero() || r.EndTime.IsZero() {
			logrus.WithFields(logrus.Fields{
				"reservation_id": r.ID,
				"user_id":        r.UserID,
			}).Warn("skipping reservation with missing start or end")
			continue
		}

		hours := r.EndTime.Sub(r.StartTime).Minutes() / 60.0
		if hours < minCountableHours {
			hours = minCountableHours
		}

		stat.TotalHours += hours
		stat.BookingCount++

		// Display context only: the most recent finished slot and the next
		// upcoming one relative to the evaluation instant.
		if r.EndTime.Before(now) {
			if stat.LastUsageEnd == nil || r.EndTime.After(*stat.LastUsageEnd) {
				end := r.EndTime
				stat.LastUsageEnd = &end
			}
		}
		if r.StartTime.After(now) {
			if stat.NextReservationStart == nil || r.StartTime.Before(*stat.NextReservationStart) {
				start := r.StartTime
				stat.NextReservationStart = &start
			}
		}

		stats[r.UserID] = stat
		totalHours += hours
	}

	return stats, totalHours
}
