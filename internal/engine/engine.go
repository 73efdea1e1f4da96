package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"coowner-backend/internal/model"
)

// SharesSource supplies the ownership registry's view of a vehicle.
type SharesSource interface {
	OwnershipShares(ctx context.Context, vehicleID int64) ([]model.OwnershipShare, error)
}

// ReservationSource supplies a vehicle's reservations intersecting a range.
type ReservationSource interface {
	Reservations(ctx context.Context, vehicleID int64, from, to time.Time) ([]model.Reservation, error)
}

// Directory resolves display names, best effort. Implementations must return
// placeholders instead of failing; a name lookup can never abort a scoring run.
type Directory interface {
	UserDisplayNames(ctx context.Context, userIDs []string) map[string]string
	VehicleDisplayName(ctx context.Context, vehicleID int64) string
}

// Service wires the pure engine components to their data sources. It holds no
// mutable state; concurrent calls are safe because each call only reads its
// inputs and returns a fresh result.
type Service struct {
	cfg          Config
	shares       SharesSource
	reservations ReservationSource
	directory    Directory
	log          *logrus.Entry
}

// NewService builds a Service with explicit collaborators.
func NewService(cfg Config, shares SharesSource, reservations ReservationSource, directory Directory) *Service {
	return &Service{
		cfg:          cfg,
		shares:       shares,
		reservations: reservations,
		directory:    directory,
		log:          logrus.WithField("component", "engine"),
	}
}

// Summary computes the full fairness and availability picture for one vehicle
// over [from, to), evaluated at instant now.
func (s *Service) Summary(ctx context.Context, vehicleID int64, from, to, now time.Time) (*FairnessSummary, error) {
	shares, reservations, err := s.fetchInputs(ctx, vehicleID, from, to)
	if err != nil {
		return nil, err
	}

	stats, totalHours := Aggregate(reservations, now)
	fairness := BuildFairness(shares, stats, totalHours, s.cfg)
	windows := BuildAvailability(from, to, reservations, s.cfg.MinWindowHours)

	s.attachDisplayNames(ctx, fairness.Records)

	summary := &FairnessSummary{
		VehicleID:       vehicleID,
		VehicleName:     s.directory.VehicleDisplayName(ctx, vehicleID),
		GroupID:         shares[0].GroupID,
		RangeStart:      from,
		RangeEnd:        to,
		TotalUsageHours: round2(totalHours),
		FairnessIndex:   round2(fairness.FairnessIndex),
		Members:         roundRecords(fairness.Records),
		Availability:    roundWindows(windows),
		PriorityQueue:   fairness.PriorityQueue,
		UsageStats:      orderedStats(fairness.Records, stats),
	}
	return summary, nil
}

// DecideBooking evaluates a booking request by userID for a slot starting at
// desiredStart. The fairness context is computed over [from, to) at now.
// desiredHours of zero falls back to the configured default duration.
func (s *Service) DecideBooking(ctx context.Context, vehicleID int64, userID string, desiredStart time.Time, desiredHours float64, from, to, now time.Time) (*BookingDecision, error) {
	shares, reservations, err := s.fetchInputs(ctx, vehicleID, from, to)
	if err != nil {
		return nil, err
	}

	stats, totalHours := Aggregate(reservations, now)
	fairness := BuildFairness(shares, stats, totalHours, s.cfg)

	var applicant *FairnessRecord
	for i := range fairness.Records {
		if fairness.Records[i].UserID == userID {
			applicant = &fairness.Records[i]
			break
		}
	}
	if applicant == nil {
		return nil, ErrNotGroupMember
	}

	windows := BuildAvailability(from, to, reservations, s.cfg.MinWindowHours)

	decision, err := Decide(DecisionRequest{
		Applicant:    *applicant,
		Members:      fairness.Records,
		Reservations: reservations,
		Windows:      windows,
		DesiredStart: desiredStart,
		DesiredHours: desiredHours,
	}, s.cfg)
	if err != nil {
		return nil, err
	}

	decision.Alternatives = roundWindows(decision.Alternatives)
	s.log.WithFields(logrus.Fields{
		"vehicle_id": vehicleID,
		"user_id":    userID,
		"approved":   decision.Approved,
		"conflicts":  len(decision.Conflicts),
	}).Info("booking decision computed")
	return &decision, nil
}

// Recommendations runs the advisory rule pass for one vehicle and period.
func (s *Service) Recommendations(ctx context.Context, vehicleID int64, from, to, now time.Time) ([]Recommendation, error) {
	shares, reservations, err := s.fetchInputs(ctx, vehicleID, from, to)
	if err != nil {
		return nil, err
	}

	stats, totalHours := Aggregate(reservations, now)
	fairness := BuildFairness(shares, stats, totalHours, s.cfg)
	s.attachDisplayNames(ctx, fairness.Records)

	period := fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	return Recommend(fairness.Records, stats, fairness.FairnessIndex, period, s.cfg), nil
}

// fetchInputs validates the range and loads the two read-only inputs.
func (s *Service) fetchInputs(ctx context.Context, vehicleID int64, from, to time.Time) ([]model.OwnershipShare, []model.Reservation, error) {
	if !to.After(from) {
		return nil, nil, ErrInvalidRange
	}

	shares, err := s.shares.OwnershipShares(ctx, vehicleID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading ownership shares for vehicle %d: %w", vehicleID, err)
	}
	if len(shares) == 0 {
		return nil, nil, ErrNoOwnershipGroup
	}

	reservations, err := s.reservations.Reservations(ctx, vehicleID, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("loading reservations for vehicle %d: %w", vehicleID, err)
	}
	return shares, reservations, nil
}

// attachDisplayNames decorates records in place with directory names. Missing
// entries keep a deterministic placeholder so rendering never depends on the
// directory being up.
func (s *Service) attachDisplayNames(ctx context.Context, records []FairnessRecord) {
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.UserID
	}
	names := s.directory.UserDisplayNames(ctx, ids)
	for i := range records {
		if name, ok := names[records[i].UserID]; ok && name != "" {
			records[i].DisplayName = name
		} else {
			records[i].DisplayName = fmt.Sprintf("User#%s", records[i].UserID)
		}
	}
}

// orderedStats lists the usage stats in member order so identical inputs
// always serialize identically.
func orderedStats(records []FairnessRecord, stats map[string]UsageStat) []UsageStat {
	out := make([]UsageStat, 0, len(records))
	for _, rec := range records {
		stat := stats[rec.UserID]
		stat.UserID = rec.UserID
		stat.TotalHours = round2(stat.TotalHours)
		out = append(out, stat)
	}
	return out
}
