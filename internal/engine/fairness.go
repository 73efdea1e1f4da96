package engine

import (
	"sort"

	"coowner-backend/internal/model"
)

// Config holds the tunable constants of the engine. Every threshold that was
// ever observed to differ between deployments is a field here, never a literal
// in the scoring code.
type Config struct {
	// PenaltyFactor is how many fairness points one percentage point of
	// usage/ownership gap costs.
	PenaltyFactor float64
	// PriorityThreshold is the absolute gap beyond which a member leaves the
	// NORMAL tier.
	PriorityThreshold float64
	// ImbalanceThreshold is the gap that triggers a usage-balance advisory.
	ImbalanceThreshold float64
	// CancellationRateThreshold triggers a scheduling advisory.
	CancellationRateThreshold float64
	// GroupCriticalBelow / GroupHealthyAbove bound the group-health advisories.
	GroupCriticalBelow float64
	GroupHealthyAbove  float64
	// DefaultBookingHours applies when a booking request omits its duration.
	DefaultBookingHours float64
	// MinWindowHours is the smallest free window worth reporting.
	MinWindowHours float64
	// MaxAlternatives caps the alternative slots returned on a conflict.
	MaxAlternatives int
}

// DefaultConfig returns the canonical engine constants.
func DefaultConfig() Config {
	return Config{
		PenaltyFactor:             2.0,
		PriorityThreshold:         5.0,
		ImbalanceThreshold:        15.0,
		CancellationRateThreshold: 0.30,
		GroupCriticalBelow:        70.0,
		GroupHealthyAbove:         90.0,
		DefaultBookingHours:       2.0,
		MinWindowHours:            0.25,
		MaxAlternatives:           3,
	}
}

// FairnessResult bundles the per-member records with the group aggregates.
type FairnessResult struct {
	Records       []FairnessRecord
	FairnessIndex float64
	PriorityQueue []string
}

// BuildFairness scores every owner against their stake. Member order follows
// the share list; the priority queue is re-sorted by scheduling preference.
func BuildFairness(shares []model.OwnershipShare, stats map[string]UsageStat, totalHours float64, cfg Config) FairnessResult {
	records := make([]FairnessRecord, 0, len(shares))
	var scoreSum float64

	for _, share := range shares {
		stat := stats[share.UserID]

		var usagePct float64
		if totalHours > 0 {
			usagePct = 100.0 * stat.TotalHours / totalHours
		}
		diff := usagePct - share.OwnershipPercentage
		score := 100.0 - cfg.PenaltyFactor*abs(diff)
		score = clamp(score, 0, 100)

		records = append(records, FairnessRecord{
			UserID:              share.UserID,
			OwnershipPercentage: share.OwnershipPercentage,
			UsageHours:          stat.TotalHours,
			UsagePercentage:     usagePct,
			Difference:          diff,
			FairnessScore:       score,
			Priority:            classify(diff, cfg.PriorityThreshold),
		})
		scoreSum += score
	}

	// An empty group is vacuously fair.
	index := 100.0
	if len(records) > 0 {
		index = scoreSum / float64(len(records))
	}

	queue := make([]FairnessRecord, len(records))
	copy(queue, records)
	sort.SliceStable(queue, func(i, j int) bool {
		if queue[i].Priority.rank() != queue[j].Priority.rank() {
			return queue[i].Priority.rank() < queue[j].Priority.rank()
		}
		return queue[i].Difference < queue[j].Difference
	})
	queueIDs := make([]string, len(queue))
	for i, rec := range queue {
		queueIDs[i] = rec.UserID
	}

	return FairnessResult{
		Records:       records,
		FairnessIndex: index,
		PriorityQueue: queueIDs,
	}
}

// classify maps a usage/ownership gap onto a scheduling tier. Under-users are
// favored, over-users yield.
func classify(difference, threshold float64) Priority {
	switch {
	case difference <= -threshold:
		return PriorityHigh
	case difference >= threshold:
		return PriorityLow
	default:
		return PriorityNormal
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
