// Package ingest parses the booking-system history export and the active
// weekly schedule file into core domain types.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/velofit/studio-optimizer/pkg/core/model"
)

// Expected columns in the history export. Header matching ignores case and
// whitespace, so "Checked In" and "checkedin" both resolve.
var historyFields = []string{
	"Date",
	"Day",
	"Time",
	"Class",
	"Trainer",
	"Location",
	"Capacity",
	"CheckedIn",
	"Booked",
	"LateCancelled",
	"Waitlisted",
	"Revenue",
	"Complimentary",
	"Memberships",
	"Packages",
	"IntroOffers",
	"SingleClasses",
}

// Columns that must be present; the count columns default to 0 when the
// export omits them.
var requiredHistoryFields = map[string]bool{
	"Date": true, "Day": true, "Time": true, "Class": true,
	"Trainer": true, "Location": true, "Capacity": true, "CheckedIn": true,
}

// ParseHistory reads the CSV history export. Rows with unparseable dates or
// times are skipped with their index recorded in the returned skipped list;
// the export is messy enough that a single bad row must not sink the load.
func ParseHistory(r io.Reader) ([]model.SessionRecord, []int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read history csv: %w", err)
	}
	if len(rows) < 1 {
		return nil, nil, fmt.Errorf("history csv has no header row")
	}

	index, err := buildFieldIndex(rows[0])
	if err != nil {
		return nil, nil, err
	}

	var records []model.SessionRecord
	var skipped []int

	for i, row := range rows[1:] {
		get := func(field string) string {
			col, ok := index[field]
			if !ok || col >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[col])
		}

		date, err := parseDate(get("Date"))
		if err != nil {
			skipped = append(skipped, i+1)
			continue
		}
		normalizedTime, err := model.NormalizeTime(get("Time"))
		if err != nil {
			skipped = append(skipped, i+1)
			continue
		}

		trainer := get("Trainer")
		records = append(records, model.SessionRecord{
			Date:          date,
			Day:           model.NormalizeDay(get("Day")),
			Time:          normalizedTime,
			Class:         get("Class"),
			Trainer:       trainer,
			TrainerID:     model.NormalizeTrainer(trainer),
			Location:      get("Location"),
			Capacity:      parseCount(get("Capacity")),
			CheckedIn:     parseCount(get("CheckedIn")),
			Booked:        parseCount(get("Booked")),
			LateCancelled: parseCount(get("LateCancelled")),
			Waitlisted:    parseCount(get("Waitlisted")),
			Revenue:       parseCount(get("Revenue")),
			Complimentary: parseCount(get("Complimentary")),
			Memberships:   parseCount(get("Memberships")),
			Packages:      parseCount(get("Packages")),
			IntroOffers:   parseCount(get("IntroOffers")),
			SingleClasses: parseCount(get("SingleClasses")),
		})
	}

	return records, skipped, nil
}

// buildFieldIndex maps canonical field names to column positions from the
// header row.
func buildFieldIndex(header []string) (map[string]int, error) {
	canonical := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), ""))
	}

	positions := make(map[string]int, len(header))
	for col, cell := range header {
		positions[canonical(cell)] = col
	}

	index := make(map[string]int, len(historyFields))
	for _, field := range historyFields {
		col, ok := positions[canonical(field)]
		if !ok {
			if requiredHistoryFields[field] {
				return nil, fmt.Errorf("history csv missing required column %q", field)
			}
			continue
		}
		index[field] = col
	}
	return index, nil
}

// parseDate accepts ISO dates with or without a time suffix.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if len(raw) >= 10 {
		if date, err := time.Parse("2006-01-02", raw[:10]); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// parseCount parses a non-negative integer cell, tolerating empty cells,
// thousands separators and a leading currency symbol on revenue columns.
func parseCount(raw string) int {
	if raw == "" {
		return 0
	}
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '-' {
			return r
		}
		return -1
	}, raw)
	n, err := strconv.Atoi(cleaned)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
