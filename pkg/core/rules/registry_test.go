package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsBlocked_SubstringMatch(t *testing.T) {
	settings := DefaultSettings()
	settings.BlockedTrainers = []string{"smith"}
	reg := NewRegistry(settings)

	assert.True(t, reg.IsBlocked("Anna Smith"))
	assert.True(t, reg.IsBlocked("  SMITH  "))
	assert.False(t, reg.IsBlocked("Bob Jones"))
}

func TestIsExcludedFormat_Defaults(t *testing.T) {
	reg := NewRegistry(DefaultSettings())

	assert.True(t, reg.IsExcludedFormat("Hosted Event"))
	assert.True(t, reg.IsExcludedFormat("Guest Instructor Ride"))
	assert.False(t, reg.IsExcludedFormat("Power Cycle"))
}

func TestIsPriorityFor(t *testing.T) {
	settings := DefaultSettings()
	settings.Locations = map[string]LocationConstraints{
		"Downtown": {PriorityTrainers: []string{"Anna Smith"}},
	}
	reg := NewRegistry(settings)

	assert.True(t, reg.IsPriorityFor("anna smith", "Downtown"))
	// Location lookup is case-insensitive
	assert.True(t, reg.IsPriorityFor("Anna Smith", "downtown"))
	assert.False(t, reg.IsPriorityFor("Bob Jones", "Downtown"))
	assert.False(t, reg.IsPriorityFor("Anna Smith", "Riverside"))
}

func TestIsPriorityForFormat(t *testing.T) {
	settings := DefaultSettings()
	settings.FormatPriorityTrainers = map[string][]string{
		"cycle": {"Anna Smith"},
	}
	reg := NewRegistry(settings)

	// The table is keyed by category substring, so any cycle-family class
	// name matches
	assert.True(t, reg.IsPriorityForFormat("Anna Smith", "Power Cycle 45"))
	assert.False(t, reg.IsPriorityForFormat("Anna Smith", "Mat Pilates"))
	assert.False(t, reg.IsPriorityForFormat("Bob Jones", "Power Cycle 45"))
}

func TestNewTrainerRestrictions(t *testing.T) {
	settings := DefaultSettings()
	settings.NewTrainerFormats = map[string][]string{
		"Jess Lee": {"mat"},
	}
	reg := NewRegistry(settings)

	assert.True(t, reg.IsNewTrainer("jess lee"))
	assert.False(t, reg.IsNewTrainer("Anna Smith"))

	assert.True(t, reg.IsNewTrainerFormatAllowed("Jess Lee", "Mat Pilates"))
	assert.False(t, reg.IsNewTrainerFormatAllowed("Jess Lee", "BoxFit"))

	// Trainers without an allow-list may teach anything
	assert.True(t, reg.IsNewTrainerFormatAllowed("Anna Smith", "BoxFit"))
}

func TestCanTeach(t *testing.T) {
	settings := DefaultSettings()
	settings.Locations = map[string]LocationConstraints{
		"Downtown": {PriorityTrainers: []string{"Anna Smith"}},
	}
	settings.NewTrainerFormats = map[string][]string{
		"Jess Lee": {"mat"},
	}
	reg := NewRegistry(settings)

	// History at the location suffices
	assert.True(t, reg.CanTeach("Bob Jones", "Power Cycle", "Downtown", true))
	// No history and not prioritized: ineligible
	assert.False(t, reg.CanTeach("Bob Jones", "Power Cycle", "Downtown", false))
	// No history but explicitly prioritized: eligible
	assert.True(t, reg.CanTeach("Anna Smith", "Power Cycle", "Downtown", false))
	// New-trainer allow-list is checked first, history does not override it
	assert.False(t, reg.CanTeach("Jess Lee", "BoxFit", "Downtown", true))
	assert.True(t, reg.CanTeach("Jess Lee", "Mat Pilates", "Downtown", true))
}

func TestIsOnLeave_DateRange(t *testing.T) {
	settings := DefaultSettings()
	settings.Leave = []LeavePeriod{
		{Trainer: "Anna Smith", From: "2026-08-10", To: "2026-08-14"},
	}
	reg := NewRegistry(settings)

	// Bounds are inclusive
	assert.True(t, reg.IsOnLeave("Anna Smith", time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)))
	assert.True(t, reg.IsOnLeave("anna smith", time.Date(2026, 8, 14, 23, 0, 0, 0, time.UTC)))
	assert.False(t, reg.IsOnLeave("Anna Smith", time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)))
	assert.False(t, reg.IsOnLeave("Bob Jones", time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)))
}

func TestIsOnLeave_RecurringRule(t *testing.T) {
	settings := DefaultSettings()
	settings.Leave = []LeavePeriod{
		{Trainer: "Anna Smith", RRule: "FREQ=WEEKLY;BYDAY=SU"},
	}
	reg := NewRegistry(settings)

	sunday := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	assert.True(t, reg.IsOnLeave("Anna Smith", sunday))
	assert.False(t, reg.IsOnLeave("Anna Smith", monday))
}

func TestIsOnLeave_MalformedEntrySkipped(t *testing.T) {
	settings := DefaultSettings()
	settings.Leave = []LeavePeriod{
		{Trainer: "Anna Smith", From: "not-a-date", To: "2026-08-14"},
	}
	reg := NewRegistry(settings)

	assert.False(t, reg.IsOnLeave("Anna Smith", time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)))
}

func TestIsTimeRestricted(t *testing.T) {
	settings := DefaultSettings()
	settings.TimeRestrictions = TimeRestrictions{
		NoClassesBefore: "06:00",
		NoClassesAfter:  "21:00",
		BlockedFrom:     "12:00",
		BlockedUntil:    "14:00",
	}
	reg := NewRegistry(settings)

	assert.True(t, reg.IsTimeRestricted("05:30"))
	assert.False(t, reg.IsTimeRestricted("06:00"))

	assert.False(t, reg.IsTimeRestricted("21:00"))
	assert.True(t, reg.IsTimeRestricted("21:30"))

	// Blocked window is [from, until)
	assert.True(t, reg.IsTimeRestricted("12:00"))
	assert.True(t, reg.IsTimeRestricted("13:59"))
	assert.False(t, reg.IsTimeRestricted("14:00"))
}

func TestIsTimeRestricted_Unconfigured(t *testing.T) {
	reg := NewRegistry(DefaultSettings())

	assert.False(t, reg.IsTimeRestricted("05:00"))
	assert.False(t, reg.IsTimeRestricted("23:00"))
}

func TestRequiredCategories(t *testing.T) {
	settings := DefaultSettings()
	settings.Locations = map[string]LocationConstraints{
		"Downtown": {RequiredFormats: []string{"cycle", "yoga"}},
	}
	reg := NewRegistry(settings)

	assert.Equal(t, []Category{CategoryCycle, CategoryYoga}, reg.RequiredCategories("Downtown"))
	assert.Nil(t, reg.RequiredCategories("Riverside"))
}

func TestMinWeeklyClasses(t *testing.T) {
	settings := DefaultSettings()
	settings.Locations = map[string]LocationConstraints{
		"Downtown": {MinWeeklyClasses: 30},
	}
	reg := NewRegistry(settings)

	assert.Equal(t, 30, reg.MinWeeklyClasses("downtown"))
	assert.Equal(t, 0, reg.MinWeeklyClasses("Riverside"))
}
