package engine

import "fmt"

// Recommend runs the advisory rules over the fairness records and usage stats.
// Every rule is independent; the result order follows the member list with the
// group-level advisories last.
func Recommend(records []FairnessRecord, stats map[string]UsageStat, fairnessIndex float64, period string, cfg Config) []Recommendation {
	recs := make([]Recommendation, 0)

	for _, rec := range records {
		if abs(rec.Difference) > cfg.ImbalanceThreshold {
			if rec.Difference < 0 {
				recs = append(recs, Recommendation{
					Type:  RecUsageBalance,
					Title: "Usage below ownership share",
					Description: fmt.Sprintf(
						"%s has been using the vehicle less than their share (%.1f%% of usage vs %.1f%% ownership). Consider offering them preferred slots.",
						displayOrID(rec), rec.UsagePercentage, rec.OwnershipPercentage),
					Severity:     SeverityWarning,
					TargetUserID: rec.UserID,
					Period:       period,
				})
			} else {
				recs = append(recs, Recommendation{
					Type:  RecUsageBalance,
					Title: "Usage above ownership share",
					Description: fmt.Sprintf(
						"%s has been using the vehicle more than their share (%.1f%% of usage vs %.1f%% ownership). Consider leaving popular slots to others.",
						displayOrID(rec), rec.UsagePercentage, rec.OwnershipPercentage),
					Severity:     SeverityWarning,
					TargetUserID: rec.UserID,
					Period:       period,
				})
			}
		}

		stat, ok := stats[rec.UserID]
		if ok && stat.BookingCount > 0 {
			rate := float64(stat.CancellationCount) / float64(stat.BookingCount)
			if rate > cfg.CancellationRateThreshold {
				recs = append(recs, Recommendation{
					Type:  RecScheduleConflict,
					Title: "Frequent cancellations",
					Description: fmt.Sprintf(
						"%s cancelled %d of %d bookings this period. Shorter or more flexible slots may fit their schedule better.",
						displayOrID(rec), stat.CancellationCount, stat.BookingCount),
					Severity:     SeverityInfo,
					TargetUserID: rec.UserID,
					Period:       period,
				})
			}
		}
	}

	switch {
	case fairnessIndex < cfg.GroupCriticalBelow:
		recs = append(recs, Recommendation{
			Type:  RecGeneralAdvice,
			Title: "Group usage is seriously imbalanced",
			Description: fmt.Sprintf(
				"The group fairness index is %.1f. Usage has drifted far from ownership shares; consider agreeing on a rotation.",
				fairnessIndex),
			Severity: SeverityCritical,
			Period:   period,
		})
	case fairnessIndex >= cfg.GroupHealthyAbove:
		recs = append(recs, Recommendation{
			Type:  RecGeneralAdvice,
			Title: "Group usage is well balanced",
			Description: fmt.Sprintf(
				"The group fairness index is %.1f. Usage closely tracks ownership shares.",
				fairnessIndex),
			Severity: SeverityInfo,
			Period:   period,
		})
	}

	return recs
}

func displayOrID(rec FairnessRecord) string {
	if rec.DisplayName != "" {
		return rec.DisplayName
	}
	return fmt.Sprintf("User#%s", rec.UserID)
}
