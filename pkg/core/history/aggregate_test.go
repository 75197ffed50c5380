package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/velofit/studio-optimizer/pkg/core/model"
)

// today is fixed so the completed-history cutoff is stable in tests.
var today = time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)

func session(date time.Time, checkedIn, capacity int) model.SessionRecord {
	return model.SessionRecord{
		Date:      date,
		Day:       "Monday",
		Time:      "07:00",
		Class:     "Power Cycle",
		Trainer:   "Anna Smith",
		TrainerID: model.NormalizeTrainer("Anna Smith"),
		Location:  "Downtown",
		Capacity:  capacity,
		CheckedIn: checkedIn,
		Booked:    checkedIn,
	}
}

func TestAggregate_Averages(t *testing.T) {
	sessions := []model.SessionRecord{
		session(time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), 10, 20),
		session(time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC), 20, 20),
	}

	m := Aggregate(sessions, Filter{}, today)

	assert.Equal(t, 2, m.SessionCount)
	assert.Equal(t, 30, m.TotalCheckIns)
	assert.Equal(t, 15.0, m.AvgCheckIns)
	// 30 check-ins over 40 capacity = 75%
	assert.Equal(t, 75.0, m.FillRate)
}

func TestAggregate_ExcludesTodayAndFuture(t *testing.T) {
	sessions := []model.SessionRecord{
		session(time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC), 10, 20),
		// Dated today: not yet completed history, must not count even
		// though today's clock time is past the session
		session(time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC), 99, 20),
		session(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), 99, 20),
	}

	m := Aggregate(sessions, Filter{}, today)

	assert.Equal(t, 1, m.SessionCount)
	assert.Equal(t, 10.0, m.AvgCheckIns)
}

func TestAggregate_EmptyInputYieldsZeroes(t *testing.T) {
	m := Aggregate(nil, Filter{}, today)

	assert.Equal(t, 0, m.SessionCount)
	assert.Equal(t, 0.0, m.AvgCheckIns)
	assert.Equal(t, 0.0, m.FillRate)
	assert.Equal(t, 0.0, m.Consistency)
}

func TestAggregate_ZeroCapacityNeverNaN(t *testing.T) {
	s := session(time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), 5, 0)

	m := Aggregate([]model.SessionRecord{s}, Filter{}, today)

	assert.Equal(t, 1, m.SessionCount)
	assert.Equal(t, 5.0, m.AvgCheckIns)
	assert.Equal(t, 0.0, m.FillRate)
	assert.False(t, m.FillRate != m.FillRate, "fill rate must not be NaN")
}

func TestAggregate_ConsistencySingleSessionIs100(t *testing.T) {
	s := session(time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), 10, 20)

	m := Aggregate([]model.SessionRecord{s}, Filter{}, today)

	assert.Equal(t, 100.0, m.Consistency)
}

func TestAggregate_ConsistencyReflectsVariance(t *testing.T) {
	stable := []model.SessionRecord{
		session(time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), 10, 20),
		session(time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC), 10, 20),
	}
	// Fill rates 100% and 0%: mean 50, population stddev 50
	volatile := []model.SessionRecord{
		session(time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), 20, 20),
		session(time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC), 0, 20),
	}

	assert.Equal(t, 100.0, Aggregate(stable, Filter{}, today).Consistency)
	assert.Equal(t, 50.0, Aggregate(volatile, Filter{}, today).Consistency)
}

func TestAggregate_CancellationAndWaitlistRates(t *testing.T) {
	s := session(time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), 8, 20)
	s.Booked = 10
	s.LateCancelled = 2
	s.Waitlisted = 5

	m := Aggregate([]model.SessionRecord{s}, Filter{}, today)

	assert.Equal(t, 20.0, m.CancellationRate)
	assert.Equal(t, 50.0, m.WaitlistRate)
}

func TestFilter_Matches(t *testing.T) {
	s := session(time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), 10, 20)

	assert.True(t, Filter{}.Matches(s))
	assert.True(t, Filter{Day: "monday", Class: "POWER CYCLE", Location: "downtown"}.Matches(s))
	assert.True(t, Filter{Trainer: model.NormalizeTrainer("ANNA smith")}.Matches(s))

	assert.False(t, Filter{Day: "Tuesday"}.Matches(s))
	assert.False(t, Filter{Time: "08:00"}.Matches(s))
	assert.False(t, Filter{Trainer: "bob jones"}.Matches(s))
}

func TestFilter_DateBoundsInclusive(t *testing.T) {
	date := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	s := session(date, 10, 20)

	assert.True(t, Filter{From: date, To: date}.Matches(s))
	assert.False(t, Filter{From: date.AddDate(0, 0, 1)}.Matches(s))
	assert.False(t, Filter{To: date.AddDate(0, 0, -1)}.Matches(s))
}

func TestConfidenceFor(t *testing.T) {
	assert.Equal(t, model.ConfidenceLow, ConfidenceFor(0))
	assert.Equal(t, model.ConfidenceLow, ConfidenceFor(1))
	assert.Equal(t, model.ConfidenceMedium, ConfidenceFor(2))
	assert.Equal(t, model.ConfidenceMedium, ConfidenceFor(4))
	assert.Equal(t, model.ConfidenceHigh, ConfidenceFor(5))
	assert.Equal(t, model.ConfidenceHigh, ConfidenceFor(50))
}
