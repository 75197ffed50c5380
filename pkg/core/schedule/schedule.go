// Package schedule turns the active weekly schedule into metric-bearing
// slots by joining each entry against its matching session history.
package schedule

import (
	"fmt"
	"time"

	"github.com/velofit/studio-optimizer/pkg/core/history"
	"github.com/velofit/studio-optimizer/pkg/core/model"
)

// Entry is one raw active-schedule entry as loaded from the schedule source.
// Time may arrive in any of the formats the dashboard produces; DeriveSlots
// normalizes it to 24h "HH:MM".
type Entry struct {
	Day      string `json:"day"`
	Time     string `json:"time"`
	Class    string `json:"className"`
	Trainer  string `json:"trainer"`
	Location string `json:"location"`
	Capacity int    `json:"capacity"`

	// Move tracking for drag-and-drop relocated slots.
	OriginalDay  string `json:"originalDay,omitempty"`
	OriginalTime string `json:"originalTime,omitempty"`
}

// DeriveSlots joins active-schedule entries against session history and
// returns metric-bearing slots in input order.
//
// A slot with zero matching sessions never carries undefined metrics: its
// avgCheckIns/fillRate default to the location-wide average, then the global
// average, then zero, tagged ConfidenceLow with SampleSize 0 so consumers
// can display the figures as projected rather than actual.
func DeriveSlots(entries []Entry, sessions []model.SessionRecord, window history.Filter, today time.Time) ([]model.ScheduleSlot, error) {
	locationFallback := make(map[string]history.AggregateMetrics)
	globalFallback := history.Aggregate(sessions, history.Filter{From: window.From, To: window.To}, today)

	slots := make([]model.ScheduleSlot, 0, len(entries))
	for i, entry := range entries {
		normalized, err := model.NormalizeTime(entry.Time)
		if err != nil {
			return nil, fmt.Errorf("schedule entry %d (%s %s): %w", i, entry.Day, entry.Class, err)
		}

		slot := model.ScheduleSlot{
			Day:          model.NormalizeDay(entry.Day),
			Time:         normalized,
			Class:        entry.Class,
			Trainer:      entry.Trainer,
			TrainerID:    model.NormalizeTrainer(entry.Trainer),
			Location:     entry.Location,
			Capacity:     entry.Capacity,
			OriginalDay:  entry.OriginalDay,
			OriginalTime: entry.OriginalTime,
		}

		agg := history.Aggregate(sessions, history.Filter{
			Day:      slot.Day,
			Time:     slot.Time,
			Class:    slot.Class,
			Location: slot.Location,
			From:     window.From,
			To:       window.To,
		}, today)

		if agg.SessionCount > 0 {
			slot.Metrics = metricsFrom(agg, history.ConfidenceFor(agg.SessionCount), agg.SessionCount)
		} else {
			fallback, ok := locationFallback[slot.Location]
			if !ok {
				fallback = history.Aggregate(sessions, history.Filter{
					Location: slot.Location,
					From:     window.From,
					To:       window.To,
				}, today)
				locationFallback[slot.Location] = fallback
			}
			if fallback.SessionCount == 0 {
				fallback = globalFallback
			}
			slot.Metrics = metricsFrom(fallback, model.ConfidenceLow, 0)
		}

		slots = append(slots, slot)
	}

	return slots, nil
}

func metricsFrom(agg history.AggregateMetrics, confidence model.Confidence, sampleSize int) model.SlotMetrics {
	return model.SlotMetrics{
		AvgCheckIns:      agg.AvgCheckIns,
		FillRate:         agg.FillRate,
		SessionCount:     sampleSize,
		AvgRevenue:       agg.AvgRevenue,
		CancellationRate: agg.CancellationRate,
		WaitlistRate:     agg.WaitlistRate,
		Consistency:      agg.Consistency,
		Confidence:       confidence,
		SampleSize:       sampleSize,
	}
}
