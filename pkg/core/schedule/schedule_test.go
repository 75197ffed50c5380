package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velofit/studio-optimizer/pkg/core/history"
	"github.com/velofit/studio-optimizer/pkg/core/model"
)

var today = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func session(day, timeOfDay, class, location string, checkedIn, capacity int, weeksAgo int) model.SessionRecord {
	return model.SessionRecord{
		Date:      today.AddDate(0, 0, -7*weeksAgo),
		Day:       day,
		Time:      timeOfDay,
		Class:     class,
		Trainer:   "Anna Smith",
		TrainerID: model.NormalizeTrainer("Anna Smith"),
		Location:  location,
		Capacity:  capacity,
		CheckedIn: checkedIn,
	}
}

func TestDeriveSlots_JoinsMatchingHistory(t *testing.T) {
	sessions := []model.SessionRecord{
		session("Monday", "07:00", "Power Cycle", "Downtown", 10, 20, 1),
		session("Monday", "07:00", "Power Cycle", "Downtown", 14, 20, 2),
		// Different time slot, must not contribute
		session("Monday", "18:00", "Power Cycle", "Downtown", 20, 20, 1),
	}
	entries := []Entry{
		{Day: "Monday", Time: "07:00", Class: "Power Cycle", Trainer: "Anna Smith", Location: "Downtown", Capacity: 20},
	}

	slots, err := DeriveSlots(entries, sessions, history.Filter{}, today)
	require.NoError(t, err)
	require.Len(t, slots, 1)

	slot := slots[0]
	assert.Equal(t, model.TrainerID("anna smith"), slot.TrainerID)
	assert.Equal(t, 2, slot.Metrics.SampleSize)
	assert.Equal(t, 12.0, slot.Metrics.AvgCheckIns)
	assert.Equal(t, 60.0, slot.Metrics.FillRate)
	assert.Equal(t, model.ConfidenceMedium, slot.Metrics.Confidence)
}

func TestDeriveSlots_NormalizesTimeBeforeJoining(t *testing.T) {
	sessions := []model.SessionRecord{
		session("Monday", "18:30", "Power Cycle", "Downtown", 10, 20, 1),
	}
	entries := []Entry{
		{Day: "monday", Time: "6:30 PM", Class: "Power Cycle", Trainer: "Anna Smith", Location: "Downtown", Capacity: 20},
	}

	slots, err := DeriveSlots(entries, sessions, history.Filter{}, today)
	require.NoError(t, err)

	assert.Equal(t, "18:30", slots[0].Time)
	assert.Equal(t, "Monday", slots[0].Day)
	assert.Equal(t, 1, slots[0].Metrics.SampleSize)
}

func TestDeriveSlots_ZeroHistoryFallsBackToLocationAverage(t *testing.T) {
	sessions := []model.SessionRecord{
		session("Monday", "07:00", "Power Cycle", "Downtown", 10, 20, 1),
		session("Tuesday", "07:00", "BoxFit", "Downtown", 20, 20, 1),
	}
	entries := []Entry{
		// Brand-new class with no history of its own
		{Day: "Friday", Time: "09:00", Class: "Cardio Barre", Trainer: "Jess Lee", Location: "Downtown", Capacity: 20},
	}

	slots, err := DeriveSlots(entries, sessions, history.Filter{}, today)
	require.NoError(t, err)

	slot := slots[0]
	// Location average of (10+20)/2
	assert.Equal(t, 15.0, slot.Metrics.AvgCheckIns)
	assert.Equal(t, model.ConfidenceLow, slot.Metrics.Confidence)
	assert.Equal(t, 0, slot.Metrics.SampleSize)
	assert.Equal(t, 0, slot.Metrics.SessionCount)
}

func TestDeriveSlots_ZeroHistoryLocationFallsBackToGlobal(t *testing.T) {
	sessions := []model.SessionRecord{
		session("Monday", "07:00", "Power Cycle", "Downtown", 12, 20, 1),
	}
	entries := []Entry{
		// A location with no history anywhere
		{Day: "Monday", Time: "07:00", Class: "Power Cycle", Trainer: "Anna Smith", Location: "Riverside", Capacity: 20},
	}

	slots, err := DeriveSlots(entries, sessions, history.Filter{}, today)
	require.NoError(t, err)

	assert.Equal(t, 12.0, slots[0].Metrics.AvgCheckIns)
	assert.Equal(t, model.ConfidenceLow, slots[0].Metrics.Confidence)
}

func TestDeriveSlots_NoHistoryAtAllYieldsZeroes(t *testing.T) {
	entries := []Entry{
		{Day: "Monday", Time: "07:00", Class: "Power Cycle", Trainer: "Anna Smith", Location: "Downtown", Capacity: 20},
	}

	slots, err := DeriveSlots(entries, nil, history.Filter{}, today)
	require.NoError(t, err)

	assert.Equal(t, 0.0, slots[0].Metrics.AvgCheckIns)
	assert.Equal(t, 0.0, slots[0].Metrics.FillRate)
	assert.Equal(t, model.ConfidenceLow, slots[0].Metrics.Confidence)
}

func TestDeriveSlots_MalformedTimeFails(t *testing.T) {
	entries := []Entry{
		{Day: "Monday", Time: "sometime", Class: "Power Cycle", Location: "Downtown"},
	}

	_, err := DeriveSlots(entries, nil, history.Filter{}, today)
	assert.Error(t, err)
}

func TestDeriveSlots_PreservesMoveTracking(t *testing.T) {
	entries := []Entry{
		{
			Day: "Tuesday", Time: "08:00", Class: "Power Cycle", Trainer: "Anna Smith",
			Location: "Downtown", OriginalDay: "Monday", OriginalTime: "07:00",
		},
	}

	slots, err := DeriveSlots(entries, nil, history.Filter{}, today)
	require.NoError(t, err)

	assert.Equal(t, "Monday", slots[0].OriginalDay)
	assert.Equal(t, "07:00", slots[0].OriginalTime)
}
