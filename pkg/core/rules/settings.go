// Package rules holds the optimization constraint configuration and the
// lookup helpers the optimizer consults. Blocked trainers and excluded
// formats are absolute: no scoring path may override them.
package rules

// LocationConstraints configures one studio location.
type LocationConstraints struct {
	// MaxParallelClasses caps how many classes may run in the same time
	// slot at this location.
	MaxParallelClasses int `json:"maxParallelClasses" validate:"min=0"`

	// RequiredFormats are format categories the location's weekly mix
	// must offer; candidates in these categories get a scoring bonus.
	RequiredFormats []string `json:"requiredFormats"`

	// OptionalFormats are categories that are welcome but carry no bonus.
	OptionalFormats []string `json:"optionalFormats"`

	// PriorityTrainers are trainers whose hours the optimizer should
	// maximize at this location.
	PriorityTrainers []string `json:"priorityTrainers"`

	// MinWeeklyClasses is the minimum total class count this location
	// should carry; shortfalls are reported, not retried.
	MinWeeklyClasses int `json:"minWeeklyClasses" validate:"min=0"`
}

// LeavePeriod marks a trainer as unavailable, either for an explicit date
// range (inclusive, "2006-01-02" dates) or on a recurring rule.
type LeavePeriod struct {
	Trainer string `json:"trainer" validate:"required"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`

	// RRule optionally expresses recurring unavailability
	// (e.g. "FREQ=WEEKLY;BYDAY=SU"). Validated at config load.
	RRule string `json:"rrule,omitempty"`
}

// TimeRestrictions blocks scheduling outside opening hours and inside one
// configurable midday window. Empty fields disable the corresponding check.
type TimeRestrictions struct {
	NoClassesBefore string `json:"noClassesBefore,omitempty"`
	NoClassesAfter  string `json:"noClassesAfter,omitempty"`
	BlockedFrom     string `json:"blockedFrom,omitempty"`
	BlockedUntil    string `json:"blockedUntil,omitempty"`
}

// Settings is the persisted optimization configuration. It is stored as JSON
// and must tolerate partial/old-shaped documents: loading merges the stored
// fields over DefaultSettings rather than rejecting unknown shapes.
type Settings struct {
	TargetTrainerHours int `json:"targetTrainerHours" validate:"min=0"`
	MaxTrainerHours    int `json:"maxTrainerHours" validate:"min=0"`
	MinDaysOff         int `json:"minDaysOff" validate:"min=0,max=6"`

	AvoidMultiLocationDays  bool `json:"avoidMultiLocationDays"`
	MinimizeTrainersPerSlot bool `json:"minimizeTrainersPerSlot"`

	Locations map[string]LocationConstraints `json:"locations"`

	// FormatPriorityTrainers maps a format category substring to the
	// trainers preferred for it.
	FormatPriorityTrainers map[string][]string `json:"formatPriorityTrainers"`

	// NewTrainerFormats maps a new trainer to the only formats they may
	// be assigned. Absence from this map means unrestricted.
	NewTrainerFormats map[string][]string `json:"newTrainerFormats"`

	BlockedTrainers []string `json:"blockedTrainers"`

	// ExcludedFormats are class categories (e.g. "hosted") never touched
	// by optimization regardless of performance.
	ExcludedFormats []string `json:"excludedFormats"`

	Leave []LeavePeriod `json:"leave"`

	TimeRestrictions TimeRestrictions `json:"timeRestrictions"`

	Strategy string `json:"strategy"`

	// Seed drives the deterministic randomizer; 0 means "use the clock".
	Seed int64 `json:"seed"`
}

// DefaultSettings returns the baseline configuration that stored settings
// are merged over.
func DefaultSettings() Settings {
	return Settings{
		TargetTrainerHours: 12,
		MaxTrainerHours:    16,
		MinDaysOff:         1,
		Locations:          map[string]LocationConstraints{},
		FormatPriorityTrainers: map[string][]string{},
		NewTrainerFormats:  map[string][]string{},
		BlockedTrainers:    []string{},
		ExcludedFormats:    []string{"hosted", "guest"},
		Leave:              []LeavePeriod{},
		Strategy:           "balanced",
	}
}
