package engine

import "math"

// round2 is applied at the output boundary only; internal arithmetic keeps
// full precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundRecords(records []FairnessRecord) []FairnessRecord {
	out := make([]FairnessRecord, len(records))
	for i, rec := range records {
		rec.OwnershipPercentage = round2(rec.OwnershipPercentage)
		rec.UsageHours = round2(rec.UsageHours)
		rec.UsagePercentage = round2(rec.UsagePercentage)
		rec.Difference = round2(rec.Difference)
		rec.FairnessScore = round2(rec.FairnessScore)
		out[i] = rec
	}
	return out
}

func roundWindows(windows []AvailabilityWindow) []AvailabilityWindow {
	out := make([]AvailabilityWindow, len(windows))
	for i, w := range windows {
		w.DurationHours = round2(w.DurationHours)
		out[i] = w
	}
	return out
}
