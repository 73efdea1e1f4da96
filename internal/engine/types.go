package engine

import "time"

// Priority is the scheduling-preference tier derived from the usage/ownership gap.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityNormal Priority = "NORMAL"
	PriorityLow    Priority = "LOW"
)

// rank orders priorities for the scheduling queue. HIGH sorts first.
func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityNormal:
		return 1
	default:
		return 2
	}
}

// Severity classifies how urgent a recommendation is.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// RecommendationType identifies the advisory rule that produced a recommendation.
type RecommendationType string

const (
	RecUsageBalance     RecommendationType = "USAGE_BALANCE"
	RecScheduleConflict RecommendationType = "SCHEDULE_CONFLICT"
	RecGeneralAdvice    RecommendationType = "GENERAL_ADVICE"
)

// UsageStat aggregates one user's observed usage within an evaluation period.
type UsageStat struct {
	UserID               string     `json:"userId"`
	TotalHours           float64    `json:"totalHours"`
	BookingCount         int        `json:"bookingCount"`
	CancellationCount    int        `json:"cancellationCount"`
	LastUsageEnd         *time.Time `json:"lastUsageEnd,omitempty"`
	NextReservationStart *time.Time `json:"nextReservationStart,omitempty"`
}

// FairnessRecord scores how closely one owner's usage tracks their stake.
type FairnessRecord struct {
	UserID              string   `json:"userId"`
	DisplayName         string   `json:"displayName"`
	OwnershipPercentage float64  `json:"ownershipPercentage"`
	UsageHours          float64  `json:"usageHours"`
	UsagePercentage     float64  `json:"usagePercentage"`
	Difference          float64  `json:"difference"`
	FairnessScore       float64  `json:"fairnessScore"`
	Priority            Priority `json:"priority"`
}

// AvailabilityWindow is one contiguous free interval within the evaluation horizon.
type AvailabilityWindow struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	DurationHours float64   `json:"durationHours"`
	Label         string    `json:"label"`
}

// Conflict describes an existing reservation that overlaps a desired slot.
type Conflict struct {
	ReservationID string    `json:"reservationId"`
	UserID        string    `json:"userId"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
}

// BookingDecision is the engine's verdict on one booking request. It is
// advisory: the caller persists the reservation only if Approved, under its
// own write serialization.
type BookingDecision struct {
	Approved       bool                 `json:"approved"`
	Priority       Priority             `json:"priority"`
	Reason         string               `json:"reason"`
	RequestedStart time.Time            `json:"requestedStart"`
	RequestedEnd   time.Time            `json:"requestedEnd"`
	Conflicts      []Conflict           `json:"conflicts"`
	Alternatives   []AvailabilityWindow `json:"alternatives"`
}

// Recommendation is one advisory emitted by the rule pass.
type Recommendation struct {
	Type         RecommendationType `json:"type"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Severity     Severity           `json:"severity"`
	TargetUserID string             `json:"targetUserId,omitempty"`
	Period       string             `json:"period"`
}

// FairnessSummary is the full engine output for one vehicle and period.
type FairnessSummary struct {
	VehicleID       int64                `json:"vehicleId"`
	VehicleName     string               `json:"vehicleName"`
	GroupID         int64                `json:"groupId"`
	RangeStart      time.Time            `json:"rangeStart"`
	RangeEnd        time.Time            `json:"rangeEnd"`
	TotalUsageHours float64              `json:"totalUsageHours"`
	FairnessIndex   float64              `json:"fairnessIndex"`
	Members         []FairnessRecord     `json:"members"`
	Availability    []AvailabilityWindow `json:"availability"`
	PriorityQueue   []string             `json:"priorityQueue"`
	UsageStats      []UsageStat          `json:"usageStats"`
}
