package model

import "time"

// TrainerID is the canonical identity for a trainer. Source data carries
// trainer names with inconsistent casing and stray whitespace, so every
// comparison in the system goes through NormalizeTrainer exactly once at
// ingestion and uses TrainerID from then on.
type TrainerID string

// Confidence indicates how much history backs a derived metric, so consumers
// can distinguish projected from actual figures.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// SessionRecord is one historical class occurrence. Records are immutable:
// they are loaded once from the booking-system export and only ever
// aggregated, never mutated.
//
// CheckedIn may exceed Capacity (overbooking is representable) and Booked is
// usually but not always >= CheckedIn.
type SessionRecord struct {
	Date          time.Time
	Day           string
	Time          string
	Class         string
	Trainer       string
	TrainerID     TrainerID
	Location      string
	Capacity      int
	CheckedIn     int
	Booked        int
	LateCancelled int
	Waitlisted    int
	Revenue       int
	Complimentary int
	Memberships   int
	Packages      int
	IntroOffers   int
	SingleClasses int
}

// SlotMetrics are the history-derived metrics attached to a schedule slot.
type SlotMetrics struct {
	AvgCheckIns      float64
	FillRate         float64
	SessionCount     int
	AvgRevenue       float64
	CancellationRate float64
	WaitlistRate     float64
	// Consistency is a 0-100 score where higher means lower variance in
	// historical fill rate.
	Consistency float64
	Confidence  Confidence
	SampleSize  int
}

// ScheduleSlot is one entry in the active weekly schedule, with metrics
// derived by joining against all SessionRecords matching
// (day, time, class, location).
type ScheduleSlot struct {
	Day       string
	Time      string // 24h "HH:MM"
	Class     string
	Trainer   string
	TrainerID TrainerID
	Location  string
	Capacity  int
	Metrics   SlotMetrics

	// OriginalDay/OriginalTime track slots relocated by drag-and-drop in
	// the dashboard. Empty for slots in their original position.
	OriginalDay  string
	OriginalTime string
}

// ClassPerformance is one entry in a trainer's top-classes ranking.
type ClassPerformance struct {
	Class       string
	Sessions    int
	AvgCheckIns float64
	FillRate    float64
}

// TimeSlotPerformance is one entry in a trainer's best-time-slots ranking.
type TimeSlotPerformance struct {
	Day         string
	Time        string
	Sessions    int
	AvgCheckIns float64
}

// TrainerMetrics aggregates one trainer's history at one location.
//
// WeeklyHours is computed globally across ALL locations (one class = one
// hour) and is the figure checked against the hard hour cap; TopClasses and
// BestSlots are scoped to this location only.
type TrainerMetrics struct {
	Trainer       string
	ID            TrainerID
	Location      string
	TotalSessions int
	TotalCheckIns int
	AvgCheckIns   float64
	FillRate      float64
	WeeklyHours   int
	HoursToTarget int
	IsPriority    bool
	IsNewTrainer  bool
	TopClasses    []ClassPerformance
	BestSlots     []TimeSlotPerformance
}

// maxDisplayClasses caps the user-facing top-classes list; candidate
// generation uses the full TopClasses ranking (top 8).
const maxDisplayClasses = 3

// DisplayTopClasses returns the user-facing subset of the top-classes
// ranking.
func (tm *TrainerMetrics) DisplayTopClasses() []ClassPerformance {
	if len(tm.TopClasses) <= maxDisplayClasses {
		return tm.TopClasses
	}
	return tm.TopClasses[:maxDisplayClasses]
}

// Replacement is the optimizer's output unit: a suggested (trainer, class)
// swap for an underperforming slot. It is a recommendation only; applying it
// by rewriting the active schedule is up to the consumer.
type Replacement struct {
	Original          ScheduleSlot
	Trainer           string
	TrainerID         TrainerID
	Class             string
	ProjectedCheckIns float64
	ProjectedFillRate float64
	Confidence        Confidence
	SampleSize        int
	Reason            string
	Score             float64
	TrainerHoursAfter int
}
