package rules

import (
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/velofit/studio-optimizer/pkg/core/model"
)

const leaveDateLayout = "2006-01-02"

// rruleEpoch anchors recurring leave rules far enough in the past that any
// queried date falls after DTSTART.
var rruleEpoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// Registry answers constraint questions for the optimizer. It is a pure data
// holder built from Settings; construction parses the recurring leave rules
// once so per-slot checks stay cheap.
type Registry struct {
	settings Settings
	leave    []leaveEntry
}

type leaveEntry struct {
	trainer model.TrainerID
	from    time.Time
	to      time.Time
	rule    *rrule.RRule
}

// NewRegistry builds a Registry from settings. Leave entries with malformed
// dates or rrules are skipped; config load is responsible for reporting
// them.
func NewRegistry(settings Settings) *Registry {
	r := &Registry{settings: settings}

	for _, lp := range settings.Leave {
		entry := leaveEntry{trainer: model.NormalizeTrainer(lp.Trainer)}
		valid := false

		if lp.From != "" && lp.To != "" {
			from, err1 := time.Parse(leaveDateLayout, lp.From)
			to, err2 := time.Parse(leaveDateLayout, lp.To)
			if err1 == nil && err2 == nil {
				entry.from = from
				entry.to = to
				valid = true
			}
		}

		if lp.RRule != "" {
			rule, err := rrule.StrToRRule(lp.RRule)
			if err == nil {
				rule.DTStart(rruleEpoch)
				entry.rule = rule
				valid = true
			}
		}

		if valid {
			r.leave = append(r.leave, entry)
		}
	}

	return r
}

// Settings returns the configuration backing this registry.
func (r *Registry) Settings() Settings {
	return r.settings
}

// IsBlocked reports whether the trainer matches the blocked-trainer list.
// Matching is case-insensitive substring containment, so a list entry of
// "smith" blocks "Anna Smith".
func (r *Registry) IsBlocked(trainer string) bool {
	name := string(model.NormalizeTrainer(trainer))
	for _, blocked := range r.settings.BlockedTrainers {
		entry := string(model.NormalizeTrainer(blocked))
		if entry != "" && strings.Contains(name, entry) {
			return true
		}
	}
	return false
}

// IsExcludedFormat reports whether the class name matches the excluded
// format list (case-insensitive substring).
func (r *Registry) IsExcludedFormat(className string) bool {
	name := strings.ToLower(className)
	for _, excluded := range r.settings.ExcludedFormats {
		entry := strings.ToLower(strings.TrimSpace(excluded))
		if entry != "" && strings.Contains(name, entry) {
			return true
		}
	}
	return false
}

// IsPriorityFor reports whether the trainer is on the location's priority
// list.
func (r *Registry) IsPriorityFor(trainer, location string) bool {
	lc, ok := r.locationConstraints(location)
	if !ok {
		return false
	}
	return matchesTrainerList(trainer, lc.PriorityTrainers)
}

// IsPriorityForFormat reports whether the trainer is a declared priority for
// the given format. The format-priority table is keyed by category
// substring, so a "cycle" entry covers every cycle-family class name.
func (r *Registry) IsPriorityForFormat(trainer, format string) bool {
	name := strings.ToLower(format)
	for key, trainers := range r.settings.FormatPriorityTrainers {
		if !strings.Contains(name, strings.ToLower(key)) {
			continue
		}
		if matchesTrainerList(trainer, trainers) {
			return true
		}
	}
	return false
}

// IsNewTrainer reports whether the trainer has a new-trainer format
// allow-list.
func (r *Registry) IsNewTrainer(trainer string) bool {
	return r.NewTrainerAllowedFormats(trainer) != nil
}

// NewTrainerAllowedFormats returns the formats a new trainer may be
// assigned, or nil when the trainer is unrestricted.
func (r *Registry) NewTrainerAllowedFormats(trainer string) []string {
	id := model.NormalizeTrainer(trainer)
	for name, formats := range r.settings.NewTrainerFormats {
		if model.NormalizeTrainer(name) == id {
			return formats
		}
	}
	return nil
}

// IsNewTrainerFormatAllowed reports whether the format is on the trainer's
// new-trainer allow-list (substring match). Trainers without an allow-list
// may teach anything.
func (r *Registry) IsNewTrainerFormatAllowed(trainer, format string) bool {
	allowed := r.NewTrainerAllowedFormats(trainer)
	if allowed == nil {
		return true
	}
	name := strings.ToLower(format)
	for _, f := range allowed {
		if strings.Contains(name, strings.ToLower(f)) {
			return true
		}
	}
	return false
}

// CanTeach reports whether the trainer may be assigned the format at the
// location. New trainers are limited to their allow-list; trainers with zero
// history at a location are only eligible there if explicitly prioritized.
func (r *Registry) CanTeach(trainer, format, location string, hasTaughtHere bool) bool {
	if !r.IsNewTrainerFormatAllowed(trainer, format) {
		return false
	}
	return hasTaughtHere || r.IsPriorityFor(trainer, location)
}

// IsOnLeave reports whether the trainer is unavailable on the given date,
// either inside an explicit leave range or on a recurring rule occurrence.
func (r *Registry) IsOnLeave(trainer string, asOf time.Time) bool {
	id := string(model.NormalizeTrainer(trainer))
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)

	for _, entry := range r.leave {
		if !strings.Contains(id, string(entry.trainer)) {
			continue
		}

		if !entry.from.IsZero() && !day.Before(entry.from) && !day.After(entry.to) {
			return true
		}

		if entry.rule != nil {
			occurrences := entry.rule.Between(day, day.Add(24*time.Hour-time.Second), true)
			if len(occurrences) > 0 {
				return true
			}
		}
	}
	return false
}

// IsTimeRestricted reports whether a normalized "HH:MM" time is before
// opening, after closing, or inside the blocked midday window.
func (r *Registry) IsTimeRestricted(hhmm string) bool {
	minutes := model.TimeMinutes(hhmm)
	if minutes < 0 {
		return false
	}

	tr := r.settings.TimeRestrictions
	if tr.NoClassesBefore != "" {
		if open := model.TimeMinutes(tr.NoClassesBefore); open >= 0 && minutes < open {
			return true
		}
	}
	if tr.NoClassesAfter != "" {
		if closing := model.TimeMinutes(tr.NoClassesAfter); closing >= 0 && minutes > closing {
			return true
		}
	}
	if tr.BlockedFrom != "" && tr.BlockedUntil != "" {
		from := model.TimeMinutes(tr.BlockedFrom)
		until := model.TimeMinutes(tr.BlockedUntil)
		if from >= 0 && until >= 0 && minutes >= from && minutes < until {
			return true
		}
	}
	return false
}

// RequiredCategories returns the location's required format list as
// categories.
func (r *Registry) RequiredCategories(location string) []Category {
	lc, ok := r.locationConstraints(location)
	if !ok {
		return nil
	}
	categories := make([]Category, 0, len(lc.RequiredFormats))
	for _, f := range lc.RequiredFormats {
		categories = append(categories, ClassifyFormat(f))
	}
	return categories
}

// MinWeeklyClasses returns the location's configured minimum class count
// (0 when unconfigured).
func (r *Registry) MinWeeklyClasses(location string) int {
	lc, ok := r.locationConstraints(location)
	if !ok {
		return 0
	}
	return lc.MinWeeklyClasses
}

// locationConstraints looks up a location case-insensitively.
func (r *Registry) locationConstraints(location string) (LocationConstraints, bool) {
	if lc, ok := r.settings.Locations[location]; ok {
		return lc, true
	}
	for name, lc := range r.settings.Locations {
		if strings.EqualFold(name, location) {
			return lc, true
		}
	}
	return LocationConstraints{}, false
}

// matchesTrainerList reports whether the trainer matches any list entry by
// normalized equality or substring containment.
func matchesTrainerList(trainer string, list []string) bool {
	name := string(model.NormalizeTrainer(trainer))
	for _, candidate := range list {
		entry := string(model.NormalizeTrainer(candidate))
		if entry == "" {
			continue
		}
		if name == entry || strings.Contains(name, entry) {
			return true
		}
	}
	return false
}
