package optimizer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/velofit/studio-optimizer/pkg/core/model"
	"github.com/velofit/studio-optimizer/pkg/core/profiler"
	"github.com/velofit/studio-optimizer/pkg/core/rules"
)

// Soft scoring factor magnitudes. Strategy weights multiply the soft
// bonuses; the penalties are flat.
const (
	bonusPriorityLocation = 50.0
	bonusPriorityFormat   = 40.0
	bonusPerHourToTarget  = 8.0
	bonusPerCheckInGain   = 5.0
	bonusPeakSlot         = 20.0
	bonusRequiredFormat   = 30.0
	bonusNewDayFormat     = 20.0
	bonusSameTrainerSlot  = 15.0
	bonusNewTrainerFormat = 10.0
	bonusStandoutClass    = 25.0

	penaltyNearMaxHours     = 30.0
	penaltyExtraSlotTrainer = 5.0
	penaltyDaysOffViolation = 40.0
	penaltyMultiLocationDay = 25.0

	// nearMaxHoursMargin triggers the near-cap penalty when a trainer is
	// within this many hours of the hard cap.
	nearMaxHoursMargin = 2

	// standoutRatio is the multiple of the location average above which a
	// priority trainer's class counts as a standout.
	standoutRatio = 1.2

	// candidateFloorRatio rejects candidates whose own average is below
	// this fraction of the location average: replacing a weak class with
	// another weak class is not an improvement.
	candidateFloorRatio = 0.9
)

// Peak windows: 7-9am and 5-8pm, inclusive on the hour.
const (
	morningPeakStart = 7
	morningPeakEnd   = 9
	eveningPeakStart = 17
	eveningPeakEnd   = 20
)

// RunningState is the mutable accumulator threaded through the greedy pass.
// Each committed replacement updates it, so later slots see earlier
// decisions; the algorithm is intentionally order-dependent. Tests can
// hand-craft a state to probe specific constraint interactions.
type RunningState struct {
	// TrainerHours is the global committed weekly hours per trainer,
	// checked against the hard cap and the near-cap penalty.
	TrainerHours map[model.TrainerID]int

	// WorkDays tracks the distinct days each trainer works, for the
	// days-off penalty.
	WorkDays map[model.TrainerID]map[string]bool

	// DayLocations tracks the locations each trainer works per day, for
	// the multi-location-day penalty.
	DayLocations map[model.TrainerID]map[string]map[string]bool

	// DayFormats tracks the format categories present per location and
	// day, for the diversity bonus. Keyed "location|day".
	DayFormats map[string]map[rules.Category]bool

	// SlotTrainers tracks the trainers occupying each literal
	// (location, day, time) slot, for the consolidation factor.
	// Keyed "location|day|time".
	SlotTrainers map[string]map[model.TrainerID]bool
}

// NewRunningState seeds the accumulator from the active schedule and the
// profiler's global hours.
func NewRunningState(slots []model.ScheduleSlot, globalHours map[model.TrainerID]int) *RunningState {
	st := &RunningState{
		TrainerHours: make(map[model.TrainerID]int, len(globalHours)),
		WorkDays:     make(map[model.TrainerID]map[string]bool),
		DayLocations: make(map[model.TrainerID]map[string]map[string]bool),
		DayFormats:   make(map[string]map[rules.Category]bool),
		SlotTrainers: make(map[string]map[model.TrainerID]bool),
	}
	for id, hours := range globalHours {
		st.TrainerHours[id] = hours
	}
	for _, slot := range slots {
		st.observe(slot.Location, slot.Day, slot.Time, slot.TrainerID, slot.Class)
	}
	return st
}

// Commit records a chosen replacement: one more hour for the winner plus
// the day, location, slot and format bookkeeping later slots score against.
func (st *RunningState) Commit(slot model.ScheduleSlot, id model.TrainerID, class string) {
	st.TrainerHours[id]++
	st.observe(slot.Location, slot.Day, slot.Time, id, class)
}

func (st *RunningState) observe(location, day, timeOfDay string, id model.TrainerID, class string) {
	dayKey := strings.ToLower(day)
	locKey := strings.ToLower(location)

	if id != "" {
		if st.WorkDays[id] == nil {
			st.WorkDays[id] = make(map[string]bool)
		}
		st.WorkDays[id][dayKey] = true

		if st.DayLocations[id] == nil {
			st.DayLocations[id] = make(map[string]map[string]bool)
		}
		if st.DayLocations[id][dayKey] == nil {
			st.DayLocations[id][dayKey] = make(map[string]bool)
		}
		st.DayLocations[id][dayKey][locKey] = true

		slotKey := locKey + "|" + dayKey + "|" + timeOfDay
		if st.SlotTrainers[slotKey] == nil {
			st.SlotTrainers[slotKey] = make(map[model.TrainerID]bool)
		}
		st.SlotTrainers[slotKey][id] = true
	}

	formatKey := locKey + "|" + dayKey
	if st.DayFormats[formatKey] == nil {
		st.DayFormats[formatKey] = make(map[rules.Category]bool)
	}
	st.DayFormats[formatKey][rules.ClassifyFormat(class)] = true
}

// worksOtherLocation reports whether the trainer already works a different
// location on the given day.
func (st *RunningState) worksOtherLocation(id model.TrainerID, day, location string) bool {
	locations := st.DayLocations[id][strings.ToLower(day)]
	for loc := range locations {
		if loc != strings.ToLower(location) {
			return true
		}
	}
	return false
}

// Candidate is one scored (trainer, class) replacement option.
type Candidate struct {
	Trainer     string
	ID          model.TrainerID
	Class       string
	Sessions    int
	AvgCheckIns float64
	FillRate    float64
	Score       float64
	Reasons     []string
}

// GenerateCandidates enumerates and scores eligible (trainer, class)
// replacements for one underperforming slot. Hard constraints eliminate a
// candidate outright; survivors get the additive weighted score, and only
// candidates with a positive score whose own average clears the
// candidateFloorRatio floor are returned, best first.
func GenerateCandidates(
	slot model.ScheduleSlot,
	locationAvg float64,
	profiles *profiler.ProfileSet,
	reg *rules.Registry,
	w Weights,
	st *RunningState,
	onLeave func(trainer string) bool,
) []Candidate {
	settings := reg.Settings()
	slotHour := model.TimeHour(slot.Time)
	dayKey := strings.ToLower(slot.Day)
	locKey := strings.ToLower(slot.Location)
	requiredCategories := reg.RequiredCategories(slot.Location)

	var candidates []Candidate

	for _, tm := range profiles.AtLocation(slot.Location) {
		if reg.IsBlocked(tm.Trainer) {
			continue
		}
		if onLeave != nil && onLeave(tm.Trainer) {
			continue
		}

		hours := st.TrainerHours[tm.ID]
		if hours >= settings.MaxTrainerHours {
			continue
		}

		hasTaughtHere := profiles.HasTaughtAt(tm.ID, slot.Location)

		for _, class := range tm.TopClasses {
			if reg.IsExcludedFormat(class.Class) {
				continue
			}
			if tm.ID == slot.TrainerID && strings.EqualFold(class.Class, slot.Class) {
				continue
			}
			if !reg.CanTeach(tm.Trainer, class.Class, slot.Location, hasTaughtHere) {
				continue
			}

			cand := Candidate{
				Trainer:     tm.Trainer,
				ID:          tm.ID,
				Class:       class.Class,
				Sessions:    class.Sessions,
				AvgCheckIns: class.AvgCheckIns,
				FillRate:    class.FillRate,
			}

			isPriority := reg.IsPriorityFor(tm.Trainer, slot.Location)
			if isPriority {
				cand.add(bonusPriorityLocation*w.TrainerHours,
					fmt.Sprintf("priority trainer at %s", slot.Location))
			}

			if reg.IsPriorityForFormat(tm.Trainer, class.Class) {
				cand.add(bonusPriorityFormat*w.FormatDiversity,
					fmt.Sprintf("priority trainer for %s", class.Class))
			}

			hoursToTarget := settings.TargetTrainerHours - hours
			if isPriority && hoursToTarget > 0 {
				cand.add(bonusPerHourToTarget*w.TrainerHours*float64(hoursToTarget),
					fmt.Sprintf("%dh under target", hoursToTarget))
			}

			if settings.MaxTrainerHours-hours <= nearMaxHoursMargin {
				cand.add(-penaltyNearMaxHours,
					fmt.Sprintf("near %dh cap", settings.MaxTrainerHours))
			}

			if gain := class.AvgCheckIns - slot.Metrics.AvgCheckIns; gain > 0 {
				cand.add(bonusPerCheckInGain*w.Attendance*gain,
					fmt.Sprintf("+%.1f avg check-ins", gain))
			}

			if isPeakHour(slotHour) && class.AvgCheckIns > locationAvg {
				cand.add(bonusPeakSlot*w.PeakBonus, "strong draw in peak slot")
			}

			category := rules.ClassifyFormat(class.Class)
			if containsCategory(requiredCategories, category) {
				cand.add(bonusRequiredFormat*w.FormatDiversity,
					fmt.Sprintf("required format %s", category))
			}

			if !st.DayFormats[locKey+"|"+dayKey][category] {
				cand.add(bonusNewDayFormat*w.FormatDiversity,
					fmt.Sprintf("adds %s to %s", category, slot.Day))
			}

			slotOccupants := st.SlotTrainers[locKey+"|"+dayKey+"|"+slot.Time]
			if slotOccupants[tm.ID] {
				cand.add(bonusSameTrainerSlot, "consolidates existing hour")
			} else if settings.MinimizeTrainersPerSlot && len(slotOccupants) > 0 {
				cand.add(-penaltyExtraSlotTrainer, "adds trainer to occupied slot")
			}

			if tm.IsNewTrainer && reg.IsNewTrainerFormatAllowed(tm.Trainer, class.Class) {
				cand.add(bonusNewTrainerFormat*w.NewTrainerBonus, "new trainer development")
			}

			if violatesDaysOff(st, tm.ID, dayKey, settings.MinDaysOff) {
				cand.add(-penaltyDaysOffViolation,
					fmt.Sprintf("breaks %d-day-off floor", settings.MinDaysOff))
			}

			if settings.AvoidMultiLocationDays && st.worksOtherLocation(tm.ID, slot.Day, slot.Location) {
				cand.add(-penaltyMultiLocationDay, "already at another location that day")
			}

			if isPriority && class.AvgCheckIns > standoutRatio*locationAvg {
				cand.add(bonusStandoutClass, "standout class for priority trainer")
			}

			if cand.Score <= 0 {
				continue
			}
			if cand.AvgCheckIns < candidateFloorRatio*locationAvg {
				continue
			}

			candidates = append(candidates, cand)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].ID != candidates[j].ID {
			return candidates[i].ID < candidates[j].ID
		}
		return candidates[i].Class < candidates[j].Class
	})

	return candidates
}

func (c *Candidate) add(points float64, reason string) {
	c.Score += points
	c.Reasons = append(c.Reasons, reason)
}

// Reason joins the contributing factors into the human-readable string
// attached to a Replacement.
func (c *Candidate) Reason() string {
	return strings.Join(c.Reasons, "; ")
}

func isPeakHour(hour int) bool {
	return (hour >= morningPeakStart && hour <= morningPeakEnd) ||
		(hour >= eveningPeakStart && hour <= eveningPeakEnd)
}

func containsCategory(categories []rules.Category, c rules.Category) bool {
	for _, candidate := range categories {
		if candidate == c {
			return true
		}
	}
	return false
}

// violatesDaysOff reports whether adding a class on day would be a new work
// day pushing the trainer above 7-minDaysOff distinct days.
func violatesDaysOff(st *RunningState, id model.TrainerID, dayKey string, minDaysOff int) bool {
	workDays := st.WorkDays[id]
	if workDays[dayKey] {
		return false
	}
	return len(workDays)+1 > 7-minDaysOff
}
