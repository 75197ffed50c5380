// Package history aggregates raw session records into per-slot and
// per-location performance metrics. Everything here is a pure function of
// its inputs.
package history

import (
	"math"
	"strings"
	"time"

	"github.com/velofit/studio-optimizer/pkg/core/model"
)

// Filter selects the sessions that contribute to an aggregate. Empty string
// fields match everything; zero time bounds are open-ended.
type Filter struct {
	Day      string
	Time     string
	Class    string
	Location string
	Trainer  model.TrainerID
	From     time.Time
	To       time.Time
}

// AggregateMetrics holds the per-session averages and rates computed over a
// filtered set of sessions.
type AggregateMetrics struct {
	SessionCount  int
	TotalCheckIns int
	TotalCapacity int
	TotalBooked   int

	AvgCheckIns      float64
	AvgBooked        float64
	AvgLateCancelled float64
	AvgWaitlisted    float64
	AvgRevenue       float64
	AvgComplimentary float64
	AvgMemberships   float64
	AvgPackages      float64
	AvgIntroOffers   float64
	AvgSingleClasses float64

	FillRate         float64
	CancellationRate float64
	WaitlistRate     float64
	Consistency      float64
}

// Matches reports whether the session falls inside the filter. Date bounds
// are inclusive.
func (f Filter) Matches(s model.SessionRecord) bool {
	if f.Day != "" && !strings.EqualFold(f.Day, s.Day) {
		return false
	}
	if f.Time != "" && f.Time != s.Time {
		return false
	}
	if f.Class != "" && !strings.EqualFold(f.Class, s.Class) {
		return false
	}
	if f.Location != "" && !strings.EqualFold(f.Location, s.Location) {
		return false
	}
	if f.Trainer != "" && f.Trainer != s.TrainerID {
		return false
	}
	if !f.From.IsZero() && s.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && s.Date.After(f.To) {
		return false
	}
	return true
}

// Aggregate computes metrics over the sessions matching the filter. Sessions
// dated today-or-later are always excluded: only completed history counts.
//
// All divisions are guarded; empty inputs yield zeroed metrics, never NaN.
func Aggregate(sessions []model.SessionRecord, f Filter, today time.Time) AggregateMetrics {
	cutoff := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	var m AggregateMetrics
	var totals struct {
		lateCancelled, waitlisted, revenue                        int
		complimentary, memberships, packages, intro, singleClass int
	}
	var fillRates []float64

	for _, s := range sessions {
		if !s.Date.Before(cutoff) {
			continue
		}
		if !f.Matches(s) {
			continue
		}

		m.SessionCount++
		m.TotalCheckIns += s.CheckedIn
		m.TotalCapacity += s.Capacity
		m.TotalBooked += s.Booked
		totals.lateCancelled += s.LateCancelled
		totals.waitlisted += s.Waitlisted
		totals.revenue += s.Revenue
		totals.complimentary += s.Complimentary
		totals.memberships += s.Memberships
		totals.packages += s.Packages
		totals.intro += s.IntroOffers
		totals.singleClass += s.SingleClasses

		if s.Capacity > 0 {
			fillRates = append(fillRates, float64(s.CheckedIn)/float64(s.Capacity)*100)
		} else {
			fillRates = append(fillRates, 0)
		}
	}

	if m.SessionCount == 0 {
		return m
	}

	n := float64(m.SessionCount)
	m.AvgCheckIns = float64(m.TotalCheckIns) / n
	m.AvgBooked = float64(m.TotalBooked) / n
	m.AvgLateCancelled = float64(totals.lateCancelled) / n
	m.AvgWaitlisted = float64(totals.waitlisted) / n
	m.AvgRevenue = float64(totals.revenue) / n
	m.AvgComplimentary = float64(totals.complimentary) / n
	m.AvgMemberships = float64(totals.memberships) / n
	m.AvgPackages = float64(totals.packages) / n
	m.AvgIntroOffers = float64(totals.intro) / n
	m.AvgSingleClasses = float64(totals.singleClass) / n

	if m.TotalCapacity > 0 {
		m.FillRate = float64(m.TotalCheckIns) / float64(m.TotalCapacity) * 100
	}
	if m.TotalBooked > 0 {
		m.CancellationRate = float64(totals.lateCancelled) / float64(m.TotalBooked) * 100
		m.WaitlistRate = float64(totals.waitlisted) / float64(m.TotalBooked) * 100
	}

	m.Consistency = 100 - math.Min(stdDev(fillRates), 100)

	return m
}

// ConfidenceFor maps a sample size to the confidence tag attached to derived
// metrics.
func ConfidenceFor(sampleSize int) model.Confidence {
	switch {
	case sampleSize >= 5:
		return model.ConfidenceHigh
	case sampleSize >= 2:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// stdDev is the population standard deviation. Fewer than 2 values yield 0,
// which makes single-session slots report consistency 100; that matches the
// upstream behavior consumers already depend on.
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))

	return math.Sqrt(variance)
}
