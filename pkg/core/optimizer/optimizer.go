// Package optimizer implements the rule-based schedule optimization engine:
// classification of underperforming slots, candidate scoring, and the greedy
// single-pass replacement search.
package optimizer

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/velofit/studio-optimizer/pkg/core/history"
	"github.com/velofit/studio-optimizer/pkg/core/model"
	"github.com/velofit/studio-optimizer/pkg/core/profiler"
	"github.com/velofit/studio-optimizer/pkg/core/rules"
)

// Score jitter and near-top reselection parameters (see SeededRandom).
const (
	jitterMin = 0.85
	jitterMax = 1.15

	// reselectProbability is the chance of picking among near-top
	// candidates instead of the single best.
	reselectProbability = 0.2

	// nearTopRatio defines "near top": within this fraction of the best
	// score.
	nearTopRatio = 0.85

	// reselectMinCandidates is the minimum candidate count before
	// reselection is considered at all.
	reselectMinCandidates = 3
)

// Request scopes one optimizer run.
type Request struct {
	// Locations limits the run; empty means every location in the
	// schedule.
	Locations []string

	// Strategy overrides the settings strategy when non-empty.
	Strategy Strategy

	// Seed overrides the settings seed when non-zero.
	Seed int64

	// AsOf is the run date; zero means now. It anchors the
	// completed-history cutoff and the leave checks.
	AsOf time.Time
}

// Coverage reports one location's class count against its configured
// minimum. Reasons are diagnostic text for unmet minimums, not a retried
// search.
type Coverage struct {
	Location  string
	Minimum   int
	Scheduled int
	Met       bool
	Reasons   []string
}

// Result is the best-effort outcome of one run. There is no failure state:
// slots with no eligible candidate simply produce no replacement.
type Result struct {
	Strategy        Strategy
	StrategyKnown   bool
	Seed            int64
	SlotsConsidered int
	Underperforming int
	HighPerforming  int
	SkippedByTime   int
	Replacements    []model.Replacement
	Coverage        []Coverage
}

// Run executes one greedy single-pass optimization. Slots are visited in
// schedule order (only candidates within a slot are ranked); every committed
// replacement updates the running state, so the result is order-dependent
// and not globally optimal. Run never fails: degraded inputs degrade the
// output instead.
func Run(slots []model.ScheduleSlot, sessions []model.SessionRecord, settings rules.Settings, req Request, logger *zap.Logger) *Result {
	if logger == nil {
		logger = zap.NewNop()
	}
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	reg := rules.NewRegistry(settings)

	strategy := req.Strategy
	if strategy == "" {
		strategy = Strategy(settings.Strategy)
	}
	weights, known := StrategyWeights(strategy)
	if !known {
		logger.Warn("Unknown strategy, using balanced weights", zap.String("strategy", string(strategy)))
	}

	seed := req.Seed
	if seed == 0 {
		seed = settings.Seed
	}
	if seed == 0 {
		seed = asOf.UnixMilli()
	}
	rnd := NewSeededRandom(seed)

	inScope := filterByLocation(slots, req.Locations)
	classification := Classify(inScope, reg)

	profiles := profiler.Build(
		sessionsAtLocations(sessions, req.Locations),
		slots, // full schedule: committed hours are global
		reg,
		asOf,
	)

	st := NewRunningState(slots, profiles.GlobalHours)

	result := &Result{
		Strategy:        strategy,
		StrategyKnown:   known,
		Seed:            seed,
		SlotsConsidered: len(inScope),
		Underperforming: len(classification.Underperforming),
		HighPerforming:  len(classification.HighPerforming),
	}

	for _, slot := range classification.Underperforming {
		if reg.IsTimeRestricted(slot.Time) {
			result.SkippedByTime++
			continue
		}

		leaveDate := model.NextOccurrence(slot.Day, asOf)
		onLeave := func(trainer string) bool {
			return reg.IsOnLeave(trainer, leaveDate)
		}

		locationAvg := classification.LocationAverages[strings.ToLower(slot.Location)]
		candidates := GenerateCandidates(slot, locationAvg, profiles, reg, weights, st, onLeave)
		if len(candidates) == 0 {
			continue
		}

		winner := selectCandidate(candidates, rnd)

		replacement := model.Replacement{
			Original:          slot,
			Trainer:           winner.Trainer,
			TrainerID:         winner.ID,
			Class:             winner.Class,
			ProjectedCheckIns: winner.AvgCheckIns,
			ProjectedFillRate: winner.FillRate,
			Confidence:        history.ConfidenceFor(winner.Sessions),
			SampleSize:        winner.Sessions,
			Reason:            winner.Reason(),
			Score:             winner.Score,
			TrainerHoursAfter: st.TrainerHours[winner.ID] + 1,
		}
		result.Replacements = append(result.Replacements, replacement)

		st.Commit(slot, winner.ID, winner.Class)
	}

	result.Coverage = buildCoverage(inScope, classification, reg, profiles, st, asOf)

	logger.Info("Optimization pass complete",
		zap.String("strategy", string(strategy)),
		zap.Int64("seed", seed),
		zap.Int("underperforming", result.Underperforming),
		zap.Int("replacements", len(result.Replacements)))

	return result
}

// selectCandidate applies the seeded jitter, re-ranks, and occasionally
// picks among near-top candidates instead of the single best so re-runs with
// a fresh seed produce varied but reproducible schedules.
func selectCandidate(candidates []Candidate, rnd *SeededRandom) Candidate {
	jittered := make([]Candidate, len(candidates))
	copy(jittered, candidates)
	for i := range jittered {
		jittered[i].Score *= rnd.Range(jitterMin, jitterMax)
	}

	best := 0
	for i := range jittered {
		if jittered[i].Score > jittered[best].Score {
			best = i
		}
	}

	if len(jittered) >= reselectMinCandidates && rnd.Next() < reselectProbability {
		var nearTop []Candidate
		threshold := nearTopRatio * jittered[best].Score
		for _, c := range jittered {
			if c.Score >= threshold {
				nearTop = append(nearTop, c)
			}
		}
		if len(nearTop) >= 2 {
			return Pick(rnd, nearTop)
		}
	}

	return jittered[best]
}

// buildCoverage compares each in-scope location's class count against its
// configured minimum and attaches qualitative reasons for shortfalls.
func buildCoverage(slots []model.ScheduleSlot, classification Classification, reg *rules.Registry, profiles *profiler.ProfileSet, st *RunningState, asOf time.Time) []Coverage {
	settings := reg.Settings()

	counts := make(map[string]int)
	var order []string
	seen := make(map[string]bool)
	for _, slot := range slots {
		key := strings.ToLower(slot.Location)
		counts[key]++
		if !seen[key] {
			seen[key] = true
			order = append(order, slot.Location)
		}
	}

	underAt := make(map[string]int)
	for _, slot := range classification.Underperforming {
		underAt[strings.ToLower(slot.Location)]++
	}

	var reports []Coverage
	for _, location := range order {
		minimum := reg.MinWeeklyClasses(location)
		if minimum == 0 {
			continue
		}
		key := strings.ToLower(location)
		report := Coverage{
			Location:  location,
			Minimum:   minimum,
			Scheduled: counts[key],
			Met:       counts[key] >= minimum,
		}

		if !report.Met {
			atCap, onLeave := 0, 0
			for _, tm := range profiles.AtLocation(location) {
				if st.TrainerHours[tm.ID] >= settings.MaxTrainerHours {
					atCap++
				}
				if reg.IsOnLeave(tm.Trainer, asOf) {
					onLeave++
				}
			}
			if atCap > 0 {
				report.Reasons = append(report.Reasons, fmt.Sprintf("%d trainers at the %dh cap", atCap, settings.MaxTrainerHours))
			}
			if onLeave > 0 {
				report.Reasons = append(report.Reasons, fmt.Sprintf("%d trainers on leave", onLeave))
			}
			if blocked := len(settings.BlockedTrainers); blocked > 0 {
				report.Reasons = append(report.Reasons, fmt.Sprintf("%d trainers blocked", blocked))
			}
			if underAt[key] == 0 {
				report.Reasons = append(report.Reasons, "no underperforming classes available to repurpose")
			}
			tr := settings.TimeRestrictions
			if tr.NoClassesBefore != "" || tr.NoClassesAfter != "" || (tr.BlockedFrom != "" && tr.BlockedUntil != "") {
				report.Reasons = append(report.Reasons, "time restrictions limit available slots")
			}
		}

		reports = append(reports, report)
	}

	return reports
}

func filterByLocation(slots []model.ScheduleSlot, locations []string) []model.ScheduleSlot {
	if len(locations) == 0 {
		return slots
	}
	wanted := make(map[string]bool, len(locations))
	for _, loc := range locations {
		wanted[strings.ToLower(strings.TrimSpace(loc))] = true
	}
	var filtered []model.ScheduleSlot
	for _, slot := range slots {
		if wanted[strings.ToLower(slot.Location)] {
			filtered = append(filtered, slot)
		}
	}
	return filtered
}

func sessionsAtLocations(sessions []model.SessionRecord, locations []string) []model.SessionRecord {
	if len(locations) == 0 {
		return sessions
	}
	wanted := make(map[string]bool, len(locations))
	for _, loc := range locations {
		wanted[strings.ToLower(strings.TrimSpace(loc))] = true
	}
	var filtered []model.SessionRecord
	for _, s := range sessions {
		if wanted[strings.ToLower(s.Location)] {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
