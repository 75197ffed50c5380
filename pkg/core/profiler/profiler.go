// Package profiler aggregates session history into per-(trainer, location)
// performance profiles used by candidate generation.
package profiler

import (
	"sort"
	"strings"
	"time"

	"github.com/velofit/studio-optimizer/pkg/core/model"
	"github.com/velofit/studio-optimizer/pkg/core/rules"
)

const (
	// minClassSessions is the qualification floor for the top-classes
	// ranking: one-off classes say nothing about a trainer's draw.
	minClassSessions = 2

	maxTopClasses = 8
	maxBestSlots  = 5
)

// Key identifies one profile: trainer metrics are scoped per location,
// except for committed hours which are global.
type Key struct {
	ID       model.TrainerID
	Location string
}

// ProfileSet is the output of Build: every (trainer, location) profile plus
// the global committed-hours map checked against the hard hour cap.
type ProfileSet struct {
	Profiles map[Key]*model.TrainerMetrics

	// GlobalHours counts each trainer's active slots across ALL
	// locations, one hour per class, excluding excluded-format slots.
	GlobalHours map[model.TrainerID]int
}

// Build computes profiles from the given session history. activeSlots must
// be the full active schedule (all locations) so committed hours reflect the
// trainer's true weekly load; sessions may be pre-filtered to the locations
// under optimization.
//
// Sessions dated today-or-later are ignored, matching the aggregator's
// completed-history rule.
func Build(sessions []model.SessionRecord, activeSlots []model.ScheduleSlot, reg *rules.Registry, today time.Time) *ProfileSet {
	set := &ProfileSet{
		Profiles:    make(map[Key]*model.TrainerMetrics),
		GlobalHours: make(map[model.TrainerID]int),
	}

	for _, slot := range activeSlots {
		if reg.IsExcludedFormat(slot.Class) {
			continue
		}
		if slot.TrainerID == "" {
			continue
		}
		set.GlobalHours[slot.TrainerID]++
	}

	cutoff := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	grouped := make(map[Key][]model.SessionRecord)
	for _, s := range sessions {
		if !s.Date.Before(cutoff) {
			continue
		}
		if s.TrainerID == "" {
			continue
		}
		key := Key{ID: s.TrainerID, Location: s.Location}
		grouped[key] = append(grouped[key], s)
	}

	settings := reg.Settings()
	for key, group := range grouped {
		tm := &model.TrainerMetrics{
			Trainer:      group[0].Trainer,
			ID:           key.ID,
			Location:     key.Location,
			WeeklyHours:  set.GlobalHours[key.ID],
			IsPriority:   reg.IsPriorityFor(group[0].Trainer, key.Location),
			IsNewTrainer: reg.IsNewTrainer(group[0].Trainer),
		}

		totalCapacity := 0
		for _, s := range group {
			tm.TotalSessions++
			tm.TotalCheckIns += s.CheckedIn
			totalCapacity += s.Capacity
		}
		if tm.TotalSessions > 0 {
			tm.AvgCheckIns = float64(tm.TotalCheckIns) / float64(tm.TotalSessions)
		}
		if totalCapacity > 0 {
			tm.FillRate = float64(tm.TotalCheckIns) / float64(totalCapacity) * 100
		}
		tm.HoursToTarget = settings.TargetTrainerHours - tm.WeeklyHours

		tm.TopClasses = rankClasses(group)
		tm.BestSlots = rankTimeSlots(group)

		set.Profiles[key] = tm
	}

	return set
}

// HoursFor returns a trainer's global committed weekly hours.
func (ps *ProfileSet) HoursFor(id model.TrainerID) int {
	return ps.GlobalHours[id]
}

// HasTaughtAt reports whether the trainer has any completed history at the
// location.
func (ps *ProfileSet) HasTaughtAt(id model.TrainerID, location string) bool {
	tm, ok := ps.Profiles[Key{ID: id, Location: location}]
	return ok && tm.TotalSessions > 0
}

// AtLocation returns the profiles scoped to one location, ordered by average
// check-ins descending for stable iteration.
func (ps *ProfileSet) AtLocation(location string) []*model.TrainerMetrics {
	var profiles []*model.TrainerMetrics
	for key, tm := range ps.Profiles {
		if strings.EqualFold(key.Location, location) {
			profiles = append(profiles, tm)
		}
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].AvgCheckIns != profiles[j].AvgCheckIns {
			return profiles[i].AvgCheckIns > profiles[j].AvgCheckIns
		}
		return profiles[i].ID < profiles[j].ID
	})
	return profiles
}

// rankClasses builds the top-classes ranking: classes with at least
// minClassSessions sessions, by class average check-ins descending, capped
// at maxTopClasses.
func rankClasses(group []model.SessionRecord) []model.ClassPerformance {
	type classAgg struct {
		name     string
		sessions int
		checkIns int
		capacity int
	}
	byClass := make(map[string]*classAgg)
	for _, s := range group {
		key := strings.ToLower(s.Class)
		agg, ok := byClass[key]
		if !ok {
			agg = &classAgg{name: s.Class}
			byClass[key] = agg
		}
		agg.sessions++
		agg.checkIns += s.CheckedIn
		agg.capacity += s.Capacity
	}

	var ranked []model.ClassPerformance
	for _, agg := range byClass {
		if agg.sessions < minClassSessions {
			continue
		}
		cp := model.ClassPerformance{
			Class:       agg.name,
			Sessions:    agg.sessions,
			AvgCheckIns: float64(agg.checkIns) / float64(agg.sessions),
		}
		if agg.capacity > 0 {
			cp.FillRate = float64(agg.checkIns) / float64(agg.capacity) * 100
		}
		ranked = append(ranked, cp)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].AvgCheckIns != ranked[j].AvgCheckIns {
			return ranked[i].AvgCheckIns > ranked[j].AvgCheckIns
		}
		return ranked[i].Class < ranked[j].Class
	})
	if len(ranked) > maxTopClasses {
		ranked = ranked[:maxTopClasses]
	}
	return ranked
}

// rankTimeSlots ranks the trainer's (day, time) pairs by average check-ins
// descending, capped at maxBestSlots.
func rankTimeSlots(group []model.SessionRecord) []model.TimeSlotPerformance {
	type slotAgg struct {
		day      string
		time     string
		sessions int
		checkIns int
	}
	bySlot := make(map[string]*slotAgg)
	for _, s := range group {
		key := strings.ToLower(s.Day) + "|" + s.Time
		agg, ok := bySlot[key]
		if !ok {
			agg = &slotAgg{day: s.Day, time: s.Time}
			bySlot[key] = agg
		}
		agg.sessions++
		agg.checkIns += s.CheckedIn
	}

	var ranked []model.TimeSlotPerformance
	for _, agg := range bySlot {
		ranked = append(ranked, model.TimeSlotPerformance{
			Day:         agg.day,
			Time:        agg.time,
			Sessions:    agg.sessions,
			AvgCheckIns: float64(agg.checkIns) / float64(agg.sessions),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].AvgCheckIns != ranked[j].AvgCheckIns {
			return ranked[i].AvgCheckIns > ranked[j].AvgCheckIns
		}
		if ranked[i].Day != ranked[j].Day {
			return ranked[i].Day < ranked[j].Day
		}
		return ranked[i].Time < ranked[j].Time
	})
	if len(ranked) > maxBestSlots {
		ranked = ranked[:maxBestSlots]
	}
	return ranked
}
