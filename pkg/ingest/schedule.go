package ingest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/velofit/studio-optimizer/pkg/core/model"
	"github.com/velofit/studio-optimizer/pkg/core/schedule"
)

// ParseSchedule reads the active weekly schedule file: a JSON object mapping
// day names to entry lists, as the dashboard persists it. Entries inherit
// the day from their key; times are left raw for DeriveSlots to normalize.
func ParseSchedule(r io.Reader) ([]schedule.Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule file: %w", err)
	}

	var byDay map[string][]schedule.Entry
	if err := json.Unmarshal(data, &byDay); err != nil {
		return nil, fmt.Errorf("failed to parse schedule file: %w", err)
	}

	var entries []schedule.Entry
	for _, day := range model.Weekdays {
		dayEntries, ok := byDay[day]
		if !ok {
			// Dashboards have saved lower-cased day keys in the past.
			for key, value := range byDay {
				if model.NormalizeDay(key) == day {
					dayEntries = value
					break
				}
			}
		}
		for _, entry := range dayEntries {
			if entry.Day == "" {
				entry.Day = day
			}
			entries = append(entries, entry)
		}
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("schedule file contains no entries")
	}
	return entries, nil
}
